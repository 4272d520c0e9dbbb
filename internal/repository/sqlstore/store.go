// Package sqlstore implements the repository interfaces on database/sql for
// SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Kerhoff/giftmate/internal/repository"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect tells the repositories how to spell placeholders.
type Dialect int

const (
	// SQLite uses "?" placeholders.
	SQLite Dialect = iota
	// Postgres uses "$n" placeholders.
	Postgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) Dialect {
	if driver == "postgres" {
		return Postgres
	}
	return SQLite
}

// rebind rewrites "?" placeholders for the dialect.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// conn pairs an executor with its dialect.
type conn struct {
	db      DBTX
	dialect Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.rebind(query), args...)
}

// repos binds every repository to one executor.
type repos struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	friends    repository.FriendRepository
	giftIdeas  repository.GiftIdeaRepository
}

func newRepos(c conn) repos {
	return repos{
		categories: &categoryRepository{c},
		items:      &itemRepository{c},
		friends:    &friendRepository{c},
		giftIdeas:  &giftIdeaRepository{c},
	}
}

func (r repos) Categories() repository.CategoryRepository { return r.categories }
func (r repos) Items() repository.ItemRepository          { return r.items }
func (r repos) Friends() repository.FriendRepository      { return r.friends }
func (r repos) GiftIdeas() repository.GiftIdeaRepository  { return r.giftIdeas }

// Store is the database/sql backed repository.Store.
type Store struct {
	repos
	db      *sql.DB
	dialect Dialect
}

// New creates a Store over db.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		repos:   newRepos(conn{db: db, dialect: dialect}),
		db:      db,
		dialect: dialect,
	}
}

var _ repository.Store = (*Store)(nil)

// WithTx begins a transaction, runs fn with repositories bound to it, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
		}
	}()

	return fn(ctx, newRepos(conn{db: tx, dialect: s.dialect}))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func checkAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, repository.ErrNotFound)
	}
	return nil
}
