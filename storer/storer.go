package storer

import (
	"context"
	"errors"
)

var (
	ErrStoreWrite        = errors.New("vector store write failed")
	ErrStoreQuery        = errors.New("vector store query failed")
	ErrInvalidLimit      = errors.New("limit must be a positive integer")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Storer persists embedding records and answers owner-scoped
// nearest-neighbor queries by cosine distance.
type Storer interface {
	// Store writes the whole batch or nothing.
	Store(ctx context.Context, records []Record) (int, error)
	// Search returns matches ascending by distance, ties in insertion order.
	Search(ctx context.Context, ownerId string, vector []float32, limit int) ([]Match, error)
	Dimension() int
	Close() error
}
