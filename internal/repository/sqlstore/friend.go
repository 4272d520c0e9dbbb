package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/repository"
)

type friendRepository struct {
	conn
}

const friendColumns = `id, name, photo, birthday, interests`

func (r *friendRepository) Create(ctx context.Context, friend *models.Friend) (*models.Friend, error) {
	query := `
		INSERT INTO friends (id, name, photo, birthday, interests, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := r.exec(ctx, query,
		friend.ID,
		friend.Name,
		friend.Photo,
		birthdayValue(friend.Birthday),
		nullString(friend.Interests),
		time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("failed to create friend: %w", err)
	}

	return friend, nil
}

func (r *friendRepository) GetByID(ctx context.Context, id string) (*models.Friend, error) {
	query := `SELECT ` + friendColumns + ` FROM friends WHERE id = ?`

	friend, err := scanFriend(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friend by ID: %w", err)
	}
	return friend, nil
}

func (r *friendRepository) List(ctx context.Context, filters repository.FriendFilters) ([]*models.Friend, error) {
	query := `SELECT ` + friendColumns + ` FROM friends`
	if filters.WithBirthdayOnly {
		query += ` WHERE birthday IS NOT NULL`
	}
	query += ` ORDER BY name ASC, created_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}

	return friends, rows.Err()
}

func (r *friendRepository) Update(ctx context.Context, friend *models.Friend) error {
	query := `
		UPDATE friends
		SET name = ?, photo = ?, birthday = ?, interests = ?
		WHERE id = ?`

	res, err := r.exec(ctx, query,
		friend.Name,
		friend.Photo,
		birthdayValue(friend.Birthday),
		nullString(friend.Interests),
		friend.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update friend: %w", err)
	}
	return checkAffected(res, "friend", friend.ID)
}

func (r *friendRepository) Delete(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM friends WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	return checkAffected(res, "friend", id)
}

func birthdayValue(d *civil.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanFriend(row rowScanner) (*models.Friend, error) {
	var (
		friend              models.Friend
		birthday, interests sql.NullString
	)
	if err := row.Scan(&friend.ID, &friend.Name, &friend.Photo, &birthday, &interests); err != nil {
		return nil, err
	}
	friend.Interests = interests.String
	if birthday.Valid {
		d, err := civil.ParseDate(birthday.String)
		if err != nil {
			return nil, fmt.Errorf("friend %s has malformed birthday %q: %w", friend.ID, birthday.String, err)
		}
		friend.Birthday = &d
	}
	return &friend, nil
}
