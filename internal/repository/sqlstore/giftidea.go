package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/giftmate/internal/models"
)

type giftIdeaRepository struct {
	conn
}

const giftIdeaColumns = `id, friend_id, position, name, description, price, url, photo`

// Create appends the idea to the end of its friend's list and stores its tags.
// Callers run it inside a transaction so the idea and its tags land together.
func (r *giftIdeaRepository) Create(ctx context.Context, idea *models.GiftIdea) (*models.GiftIdea, error) {
	query := `
		INSERT INTO gift_ideas (id, friend_id, position, name, description, price, url, photo)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM gift_ideas WHERE friend_id = ?), ?, ?, ?, ?, ?)
		RETURNING position`

	err := r.queryRow(ctx, query,
		idea.ID,
		idea.FriendID,
		idea.FriendID,
		idea.Name,
		nullString(idea.Description),
		nullString(idea.Price),
		nullString(idea.URL),
		idea.Photo,
	).Scan(&idea.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift idea: %w", err)
	}

	if err := r.insertTags(ctx, idea.ID, idea.Tags); err != nil {
		return nil, err
	}
	return idea, nil
}

func (r *giftIdeaRepository) GetByID(ctx context.Context, id string) (*models.GiftIdea, error) {
	query := `SELECT ` + giftIdeaColumns + ` FROM gift_ideas WHERE id = ?`

	idea, err := scanGiftIdea(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get gift idea by ID: %w", err)
	}

	tags, err := r.tags(ctx, `
		SELECT gift_idea_id, tag FROM gift_idea_tags
		WHERE gift_idea_id = ?
		ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	idea.Tags = tagsOrEmpty(tags[id])
	return idea, nil
}

func (r *giftIdeaRepository) ListByFriend(ctx context.Context, friendID string) ([]*models.GiftIdea, error) {
	query := `
		SELECT ` + giftIdeaColumns + `
		FROM gift_ideas
		WHERE friend_id = ?
		ORDER BY position ASC`

	rows, err := r.query(ctx, query, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gift ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.GiftIdea
	for rows.Next() {
		idea, err := scanGiftIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gift idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	tags, err := r.tags(ctx, `
		SELECT t.gift_idea_id, t.tag
		FROM gift_idea_tags t
		JOIN gift_ideas g ON g.id = t.gift_idea_id
		WHERE g.friend_id = ?
		ORDER BY t.gift_idea_id ASC, t.position ASC`, friendID)
	if err != nil {
		return nil, err
	}
	for _, idea := range ideas {
		idea.Tags = tagsOrEmpty(tags[idea.ID])
	}
	return ideas, nil
}

// Update replaces every field and the whole tag set of the idea.
func (r *giftIdeaRepository) Update(ctx context.Context, idea *models.GiftIdea) error {
	query := `
		UPDATE gift_ideas
		SET name = ?, description = ?, price = ?, url = ?, photo = ?
		WHERE id = ?`

	res, err := r.exec(ctx, query,
		idea.Name,
		nullString(idea.Description),
		nullString(idea.Price),
		nullString(idea.URL),
		idea.Photo,
		idea.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update gift idea: %w", err)
	}
	if err := checkAffected(res, "gift idea", idea.ID); err != nil {
		return err
	}

	if _, err := r.exec(ctx, `DELETE FROM gift_idea_tags WHERE gift_idea_id = ?`, idea.ID); err != nil {
		return fmt.Errorf("failed to clear gift idea tags: %w", err)
	}
	return r.insertTags(ctx, idea.ID, idea.Tags)
}

func (r *giftIdeaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.exec(ctx, `DELETE FROM gift_idea_tags WHERE gift_idea_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete gift idea tags: %w", err)
	}
	res, err := r.exec(ctx, `DELETE FROM gift_ideas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gift idea: %w", err)
	}
	return checkAffected(res, "gift idea", id)
}

func (r *giftIdeaRepository) DeleteByFriend(ctx context.Context, friendID string) error {
	query := `
		DELETE FROM gift_idea_tags
		WHERE gift_idea_id IN (SELECT id FROM gift_ideas WHERE friend_id = ?)`
	if _, err := r.exec(ctx, query, friendID); err != nil {
		return fmt.Errorf("failed to delete gift idea tags of friend %s: %w", friendID, err)
	}
	if _, err := r.exec(ctx, `DELETE FROM gift_ideas WHERE friend_id = ?`, friendID); err != nil {
		return fmt.Errorf("failed to delete gift ideas of friend %s: %w", friendID, err)
	}
	return nil
}

func (r *giftIdeaRepository) insertTags(ctx context.Context, ideaID string, tags []string) error {
	for i, tag := range tags {
		query := `INSERT INTO gift_idea_tags (gift_idea_id, position, tag) VALUES (?, ?, ?)`
		if _, err := r.exec(ctx, query, ideaID, i, tag); err != nil {
			return fmt.Errorf("failed to add tag %q: %w", tag, err)
		}
	}
	return nil
}

func (r *giftIdeaRepository) tags(ctx context.Context, query string, arg string) (map[string][]string, error) {
	rows, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query gift idea tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan gift idea tag: %w", err)
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanGiftIdea(row rowScanner) (*models.GiftIdea, error) {
	var (
		idea                     models.GiftIdea
		description, price, link sql.NullString
	)
	if err := row.Scan(
		&idea.ID,
		&idea.FriendID,
		&idea.Position,
		&idea.Name,
		&description,
		&price,
		&link,
		&idea.Photo,
	); err != nil {
		return nil, err
	}
	idea.Description = description.String
	idea.Price = price.String
	idea.URL = link.String
	return &idea, nil
}
