package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/giftmate/internal/models"
)

type categoryRepository struct {
	conn
}

const categoryColumns = `id, name, icon, created_at`

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (id, name, icon, created_at)
		VALUES (?, ?, ?, ?)`

	category.CreatedAt = category.CreatedAt.UTC()
	if _, err := r.exec(ctx, query,
		category.ID,
		category.Name,
		category.Icon,
		category.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	category, err := scanCategory(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = ?
		ORDER BY created_at ASC
		LIMIT 1`

	category, err := scanCategory(r.queryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at ASC, id ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = ?, icon = ? WHERE id = ?`

	res, err := r.exec(ctx, query, category.Name, category.Icon, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return checkAffected(res, "category", category.ID)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkAffected(res, "category", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
