package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftmate/internal/config"
	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/repository"
	"github.com/Kerhoff/giftmate/pkg/logger"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := config.NewDatabase(":memory:", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return New(db.DB, SQLite)
}

func TestDialect_Rebind(t *testing.T) {
	q := `UPDATE items SET name = ?, url = ? WHERE id = ?`
	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t, `UPDATE items SET name = $1, url = $2 WHERE id = $3`, Postgres.rebind(q))
	assert.Equal(t, Postgres, DialectFor("postgres"))
	assert.Equal(t, SQLite, DialectFor("sqlite3"))
}

func TestCategoryRepository_CRUD(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	repo := s.Categories()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err := repo.Create(ctx, &models.Category{ID: "c1", Name: "Travel", Icon: "airplane", CreatedAt: created})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Category{ID: "c0", Name: "Gadgets", Icon: "iphone", CreatedAt: created.Add(-time.Hour)})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Travel", got.Name)
	assert.Equal(t, "airplane", got.Icon)
	assert.True(t, created.Equal(got.CreatedAt))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c0", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)

	byName, err := repo.GetByName(ctx, "Gadgets")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "c0", byName.ID)

	require.NoError(t, repo.Update(ctx, &models.Category{ID: "c1", Name: "Trips", Icon: "map"}))
	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Trips", got.Name)

	require.NoError(t, repo.Delete(ctx, "c1"))
	err = repo.Delete(ctx, "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	missing, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestItemRepository_AppendsInPositionOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Categories().Create(ctx, &models.Category{ID: "c1", Name: "Gadgets", CreatedAt: time.Now()})
	require.NoError(t, err)

	for i, name := range []string{"Phone", "Watch", "Tablet"} {
		item, err := s.Items().Create(ctx, &models.Item{ID: name, CategoryID: "c1", Name: name, Price: "$1"})
		require.NoError(t, err)
		assert.Equal(t, i, item.Position)
	}

	items, err := s.Items().ListByCategory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Phone", "Watch", "Tablet"}, []string{items[0].Name, items[1].Name, items[2].Name})
	assert.Equal(t, "$1", items[0].Price)
	assert.Empty(t, items[0].Description)

	items[1].Description = "smart"
	items[1].Purchased = true
	require.NoError(t, s.Items().Update(ctx, items[1]))

	got, err := s.Items().GetByID(ctx, "Watch")
	require.NoError(t, err)
	assert.Equal(t, "smart", got.Description)
	assert.True(t, got.Purchased)

	require.NoError(t, s.Items().DeleteByCategory(ctx, "c1"))
	items, err = s.Items().ListByCategory(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFriendRepository_BirthdayFilter(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bd := civil.Date{Year: 1991, Month: time.March, Day: 8}
	_, err := s.Friends().Create(ctx, &models.Friend{ID: "f1", Name: "Zoe", Birthday: &bd, Interests: "chess"})
	require.NoError(t, err)
	_, err = s.Friends().Create(ctx, &models.Friend{ID: "f2", Name: "Adam"})
	require.NoError(t, err)

	all, err := s.Friends().List(ctx, repository.FriendFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adam", all[0].Name)
	assert.Nil(t, all[0].Birthday)

	withBirthday, err := s.Friends().List(ctx, repository.FriendFilters{WithBirthdayOnly: true})
	require.NoError(t, err)
	require.Len(t, withBirthday, 1)
	require.NotNil(t, withBirthday[0].Birthday)
	assert.Equal(t, bd, *withBirthday[0].Birthday)
	assert.Equal(t, "chess", withBirthday[0].Interests)
}

func TestGiftIdeaRepository_Tags(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Friends().Create(ctx, &models.Friend{ID: "f1", Name: "Zoe"})
	require.NoError(t, err)

	err = s.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.GiftIdeas().Create(ctx, &models.GiftIdea{ID: "g1", FriendID: "f1", Name: "Chess set", Tags: []string{"games", "wood"}}); err != nil {
			return err
		}
		_, err := tx.GiftIdeas().Create(ctx, &models.GiftIdea{ID: "g2", FriendID: "f1", Name: "Book"})
		return err
	})
	require.NoError(t, err)

	ideas, err := s.GiftIdeas().ListByFriend(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, []string{"games", "wood"}, ideas[0].Tags)
	assert.Equal(t, []string{}, ideas[1].Tags)

	ideas[0].Tags = []string{"board"}
	require.NoError(t, s.GiftIdeas().Update(ctx, ideas[0]))
	got, err := s.GiftIdeas().GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"board"}, got.Tags)

	require.NoError(t, s.GiftIdeas().DeleteByFriend(ctx, "f1"))
	ideas, err = s.GiftIdeas().ListByFriend(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, ideas)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM gift_idea_tags`).Scan(&n))
	assert.Zero(t, n)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		_, err := tx.Categories().Create(ctx, &models.Category{ID: "c1", Name: "Temp", CreatedAt: time.Now()})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithTx_PostgresPlaceholdersAndCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE categories SET name = \$1, icon = \$2 WHERE id = \$3`).
		WithArgs("Books", "book", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err = s.WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return tx.Categories().Update(ctx, &models.Category{ID: "c1", Name: "Books", Icon: "book"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	called := false
	err = New(db, SQLite).WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}
