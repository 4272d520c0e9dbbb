package models

import (
	"strings"
	"time"
)

// PurchasedCategoryName is the reserved category that collects bought items.
const PurchasedCategoryName = "Purchased"

// PurchasedCategoryIcon is the icon tag given to the reserved category.
const PurchasedCategoryIcon = "checkmark.circle.fill"

// PurchasedCategoryCreatedAt is the creation timestamp of the reserved
// category. It sorts after every real category.
var PurchasedCategoryCreatedAt = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Category represents a wishlist category owning an ordered list of items
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Items     []*Item   `json:"items"`
}

// IsPurchased reports whether c is the reserved "Purchased" category.
func (c *Category) IsPurchased() bool {
	return c.Name == PurchasedCategoryName
}

// Item represents a single wish inside a category
type Item struct {
	ID          string `json:"id" db:"id"`
	CategoryID  string `json:"category_id" db:"category_id"`
	Position    int    `json:"position" db:"position"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Price       string `json:"price,omitempty" db:"price"`
	URL         string `json:"url,omitempty" db:"url"`
	Photo       []byte `json:"photo,omitempty" db:"photo"`
	Purchased   bool   `json:"purchased" db:"purchased"`
}

// ItemFields is the full, replaceable field set of an item.
type ItemFields struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Photo       []byte `json:"photo"`
}

// Normalize trims text fields and checks the name.
func (f ItemFields) Normalize() (ItemFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = strings.TrimSpace(f.Price)
	f.URL = strings.TrimSpace(f.URL)
	if f.Name == "" {
		return f, ErrEmptyName
	}
	return f, nil
}

// Fields returns the descriptive fields of the item.
func (i *Item) Fields() ItemFields {
	return ItemFields{
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		URL:         i.URL,
		Photo:       i.Photo,
	}
}

// Apply overwrites every descriptive field of the item.
func (i *Item) Apply(f ItemFields) {
	i.Name = f.Name
	i.Description = f.Description
	i.Price = f.Price
	i.URL = f.URL
	i.Photo = f.Photo
}

// BaseCategory is a category seeded into an empty wishlist.
type BaseCategory struct {
	Name string
	Icon string
}

// BaseCategories are created the first time the wishlist is opened.
var BaseCategories = []BaseCategory{
	{Name: "Gadgets", Icon: "iphone"},
	{Name: "Travel", Icon: "airplane"},
	{Name: "Experiences", Icon: "sparkles"},
	{Name: "Clothes", Icon: "tshirt.fill"},
}
