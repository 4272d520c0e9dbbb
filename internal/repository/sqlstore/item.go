package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/giftmate/internal/models"
)

type itemRepository struct {
	conn
}

const itemColumns = `id, category_id, position, name, description, price, url, photo, purchased`

// Create appends the item to the end of its category.
func (r *itemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (id, category_id, position, name, description, price, url, photo, purchased)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM items WHERE category_id = ?), ?, ?, ?, ?, ?, ?)
		RETURNING position`

	err := r.queryRow(ctx, query,
		item.ID,
		item.CategoryID,
		item.CategoryID,
		item.Name,
		nullString(item.Description),
		nullString(item.Price),
		nullString(item.URL),
		item.Photo,
		item.Purchased,
	).Scan(&item.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item, err := scanItem(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return item, nil
}

func (r *itemRepository) ListByCategory(ctx context.Context, categoryID string) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE category_id = ?
		ORDER BY position ASC`

	return r.list(ctx, query, categoryID)
}

func (r *itemRepository) ListAll(ctx context.Context) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY category_id ASC, position ASC`

	return r.list(ctx, query)
}

func (r *itemRepository) list(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = ?, description = ?, price = ?, url = ?, photo = ?, purchased = ?
		WHERE id = ?`

	res, err := r.exec(ctx, query,
		item.Name,
		nullString(item.Description),
		nullString(item.Price),
		nullString(item.URL),
		item.Photo,
		item.Purchased,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return checkAffected(res, "item", item.ID)
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return checkAffected(res, "item", id)
}

func (r *itemRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	if _, err := r.exec(ctx, `DELETE FROM items WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("failed to delete items of category %s: %w", categoryID, err)
	}
	return nil
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item                     models.Item
		description, price, link sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.CategoryID,
		&item.Position,
		&item.Name,
		&description,
		&price,
		&link,
		&item.Photo,
		&item.Purchased,
	); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Price = price.String
	item.URL = link.String
	return &item, nil
}
