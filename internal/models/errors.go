package models

import "errors"

// ErrEmptyName is returned when an entity is saved without a name.
var ErrEmptyName = errors.New("name must not be empty")
