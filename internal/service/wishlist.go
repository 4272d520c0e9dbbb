package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/repository"
)

var (
	categoryTopics = []live.Topic{live.TopicCategories}
	itemTopics     = []live.Topic{live.TopicItems}
	wishlistTopics = []live.Topic{live.TopicCategories, live.TopicItems}
)

// SeedBaseCategories creates the base categories when the wishlist has none.
func (s *Service) SeedBaseCategories(ctx context.Context) error {
	return s.mutation(ctx, "category", "seed", categoryTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		count, err := tx.Categories().Count(ctx)
		if err != nil {
			return false, err
		}
		if count > 0 {
			return false, nil
		}

		now := s.now()
		for i, base := range models.BaseCategories {
			// Spread creation times so the seeded order survives sorting.
			category := &models.Category{
				ID:        s.newID(),
				Name:      base.Name,
				Icon:      base.Icon,
				CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			}
			if _, err := tx.Categories().Create(ctx, category); err != nil {
				return false, err
			}
		}
		s.logger.WithField("count", len(models.BaseCategories)).Info("Seeded base categories")
		return true, nil
	})
}

// CreateCategory adds a category with the given name and icon tag.
func (s *Service) CreateCategory(ctx context.Context, name, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}

	category := &models.Category{
		ID:        s.newID(),
		Name:      name,
		Icon:      strings.TrimSpace(icon),
		CreatedAt: s.now(),
	}
	err := s.mutation(ctx, "category", "create", categoryTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		_, err := tx.Categories().Create(ctx, category)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("Created category")
	return category, nil
}

// UpdateCategory renames a category and replaces its icon. A missing
// category is ignored.
func (s *Service) UpdateCategory(ctx context.Context, id, name, icon string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrEmptyName
	}

	return s.mutation(ctx, "category", "update", categoryTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		category, err := tx.Categories().GetByID(ctx, id)
		if err != nil || category == nil {
			return false, err
		}
		category.Name = name
		category.Icon = strings.TrimSpace(icon)
		return true, tx.Categories().Update(ctx, category)
	})
}

// DeleteCategory removes a category together with all of its items. A
// missing category is ignored.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.mutation(ctx, "category", "delete", wishlistTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		category, err := tx.Categories().GetByID(ctx, id)
		if err != nil || category == nil {
			return false, err
		}
		if err := tx.Items().DeleteByCategory(ctx, id); err != nil {
			return false, err
		}
		return true, tx.Categories().Delete(ctx, id)
	})
}

// Categories returns every category in creation order with its items in
// position order.
func (s *Service) Categories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	items, err := s.store.Items().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	byCategory := make(map[string][]*models.Item, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	for _, category := range categories {
		category.Items = byCategory[category.ID]
		if category.Items == nil {
			category.Items = []*models.Item{}
		}
	}
	return categories, nil
}

// Category returns one category with its items, or nil when it does not exist.
func (s *Service) Category(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	if category.Items, err = s.Items(ctx, id); err != nil {
		return nil, err
	}
	return category, nil
}

// Items returns the items of a category in position order.
func (s *Service) Items(ctx context.Context, categoryID string) ([]*models.Item, error) {
	items, err := s.store.Items().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// Item returns one item, or nil when it does not exist.
func (s *Service) Item(ctx context.Context, id string) (*models.Item, error) {
	return s.store.Items().GetByID(ctx, id)
}

// ItemCategory returns the category owning the item, or nil when the item
// does not exist.
func (s *Service) ItemCategory(ctx context.Context, itemID string) (*models.Category, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil || item == nil {
		return nil, err
	}
	return s.store.Categories().GetByID(ctx, item.CategoryID)
}

// AddItem appends an item to the end of a category. It returns nil without
// error when the category does not exist.
func (s *Service) AddItem(ctx context.Context, categoryID string, fields models.ItemFields) (*models.Item, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	var item *models.Item
	err = s.mutation(ctx, "item", "create", itemTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		category, err := tx.Categories().GetByID(ctx, categoryID)
		if err != nil || category == nil {
			return false, err
		}
		item = &models.Item{ID: s.newID(), CategoryID: category.ID}
		item.Apply(fields)
		_, err = tx.Items().Create(ctx, item)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces every descriptive field of an item. A missing item is
// ignored.
func (s *Service) UpdateItem(ctx context.Context, id string, fields models.ItemFields) error {
	fields, err := fields.Normalize()
	if err != nil {
		return err
	}

	return s.mutation(ctx, "item", "update", itemTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		item, err := tx.Items().GetByID(ctx, id)
		if err != nil || item == nil {
			return false, err
		}
		item.Apply(fields)
		return true, tx.Items().Update(ctx, item)
	})
}

// DeleteItem removes an item. A missing item is ignored.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.mutation(ctx, "item", "delete", itemTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		item, err := tx.Items().GetByID(ctx, id)
		if err != nil || item == nil {
			return false, err
		}
		return true, tx.Items().Delete(ctx, id)
	})
}

// PurchasedCategory returns the reserved "Purchased" category, creating it
// the first time it is needed.
func (s *Service) PurchasedCategory(ctx context.Context) (*models.Category, error) {
	var category *models.Category
	err := s.mutation(ctx, "category", "ensure_purchased", categoryTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		var created bool
		var err error
		category, created, err = s.purchasedCategory(ctx, tx)
		return created, err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) purchasedCategory(ctx context.Context, tx repository.Tx) (*models.Category, bool, error) {
	category, err := tx.Categories().GetByName(ctx, models.PurchasedCategoryName)
	if err != nil || category != nil {
		return category, false, err
	}

	category = &models.Category{
		ID:        s.newID(),
		Name:      models.PurchasedCategoryName,
		Icon:      models.PurchasedCategoryIcon,
		CreatedAt: models.PurchasedCategoryCreatedAt,
	}
	if _, err := tx.Categories().Create(ctx, category); err != nil {
		return nil, false, err
	}
	return category, true, nil
}

// MarkPurchased moves an item into the "Purchased" category. The item is
// copied there with a new ID and Purchased set, then the original is deleted,
// all in one transaction. It returns the copy, or nil when the item does not
// exist.
func (s *Service) MarkPurchased(ctx context.Context, itemID string) (*models.Item, error) {
	var purchased *models.Item
	err := s.mutation(ctx, "item", "purchase", wishlistTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		item, err := tx.Items().GetByID(ctx, itemID)
		if err != nil || item == nil {
			return false, err
		}

		category, _, err := s.purchasedCategory(ctx, tx)
		if err != nil {
			return false, err
		}

		purchased = &models.Item{
			ID:         s.newID(),
			CategoryID: category.ID,
			Purchased:  true,
		}
		purchased.Apply(item.Fields())
		if _, err := tx.Items().Create(ctx, purchased); err != nil {
			return false, err
		}
		return true, tx.Items().Delete(ctx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	if purchased != nil {
		s.logger.WithFields(logrus.Fields{
			"item_id":     itemID,
			"purchase_id": purchased.ID,
		}).Info("Marked item as purchased")
	}
	return purchased, nil
}
