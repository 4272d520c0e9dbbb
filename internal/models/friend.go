package models

import (
	"strings"

	"cloud.google.com/go/civil"
)

// Friend represents a person with an optional birthday and gift ideas
type Friend struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Photo     []byte      `json:"photo,omitempty" db:"photo"`
	Birthday  *civil.Date `json:"birthday,omitempty" db:"birthday"`
	Interests string      `json:"interests,omitempty" db:"interests"`
	GiftIdeas []*GiftIdea `json:"gift_ideas,omitempty"`
}

// FriendFields is the full, replaceable field set of a friend.
type FriendFields struct {
	Name      string      `json:"name" validate:"required"`
	Photo     []byte      `json:"photo"`
	Birthday  *civil.Date `json:"birthday"`
	Interests string      `json:"interests"`
}

// Normalize trims text fields and checks the name.
func (f FriendFields) Normalize() (FriendFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Interests = strings.TrimSpace(f.Interests)
	if f.Name == "" {
		return f, ErrEmptyName
	}
	return f, nil
}

// Apply overwrites every field of the friend.
func (fr *Friend) Apply(f FriendFields) {
	fr.Name = f.Name
	fr.Photo = f.Photo
	fr.Birthday = f.Birthday
	fr.Interests = f.Interests
}

// GiftIdea represents a gift idea saved for a friend
type GiftIdea struct {
	ID          string   `json:"id" db:"id"`
	FriendID    string   `json:"friend_id" db:"friend_id"`
	Position    int      `json:"position" db:"position"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description,omitempty" db:"description"`
	Price       string   `json:"price,omitempty" db:"price"`
	URL         string   `json:"url,omitempty" db:"url"`
	Photo       []byte   `json:"photo,omitempty" db:"photo"`
	Tags        []string `json:"tags"`
}

// GiftIdeaFields is the full, replaceable field set of a gift idea.
type GiftIdeaFields struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	URL         string   `json:"url"`
	Photo       []byte   `json:"photo"`
	Tags        []string `json:"tags"`
}

// Normalize trims text fields, normalizes tags and checks the name.
func (f GiftIdeaFields) Normalize() (GiftIdeaFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = strings.TrimSpace(f.Price)
	f.URL = strings.TrimSpace(f.URL)
	f.Tags = NormalizeTags(f.Tags)
	if f.Name == "" {
		return f, ErrEmptyName
	}
	return f, nil
}

// Apply overwrites every field of the gift idea.
func (g *GiftIdea) Apply(f GiftIdeaFields) {
	g.Name = f.Name
	g.Description = f.Description
	g.Price = f.Price
	g.URL = f.URL
	g.Photo = f.Photo
	g.Tags = f.Tags
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags splits comma separated user input into a normalized tag set.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
