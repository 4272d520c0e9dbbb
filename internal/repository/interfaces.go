package repository

import (
	"context"

	"github.com/Kerhoff/giftmate/internal/models"
)

// CategoryRepository defines the interface for wishlist category operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// ItemRepository defines the interface for wishlist item operations
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*models.Item, error)
	ListAll(ctx context.Context) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

// FriendRepository defines the interface for friend operations
type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) (*models.Friend, error)
	GetByID(ctx context.Context, id string) (*models.Friend, error)
	List(ctx context.Context, filters FriendFilters) ([]*models.Friend, error)
	Update(ctx context.Context, friend *models.Friend) error
	Delete(ctx context.Context, id string) error
}

// GiftIdeaRepository defines the interface for gift idea operations
type GiftIdeaRepository interface {
	Create(ctx context.Context, idea *models.GiftIdea) (*models.GiftIdea, error)
	GetByID(ctx context.Context, id string) (*models.GiftIdea, error)
	ListByFriend(ctx context.Context, friendID string) ([]*models.GiftIdea, error)
	Update(ctx context.Context, idea *models.GiftIdea) error
	Delete(ctx context.Context, id string) error
	DeleteByFriend(ctx context.Context, friendID string) error
}

// Tx groups the repositories bound to one unit of work.
type Tx interface {
	Categories() CategoryRepository
	Items() ItemRepository
	Friends() FriendRepository
	GiftIdeas() GiftIdeaRepository
}

// Store is the persistence entry point. Its own repositories run outside any
// transaction; WithTx runs fn inside one and commits only when fn returns nil.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// FriendFilters represents filters for querying friends
type FriendFilters struct {
	WithBirthdayOnly bool
}
