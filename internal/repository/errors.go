package repository

import "errors"

// ErrNotFound is returned by mutating repository methods when no row matched.
var ErrNotFound = errors.New("not found")
