// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical shape of a stored product record.
// ID is a logical field, distinct from the store's internal primary key.
type Product struct {
	ID        uuid.UUID
	Name      string
	Quantity  int64
	Price     decimal.Decimal
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductUpdate is a sparse set of mutable fields. Nil fields are excluded
// from the persisted update set entirely.
type ProductUpdate struct {
	Name     *string
	Quantity *int64
	Price    *decimal.Decimal
	Status   *bool
}

// PriceRange holds optional inclusive price bounds for a query.
// Both bounds nil means no filter.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// Insert persists a new product record and returns it as stored.
	Insert(ctx context.Context, product Product) (*Product, error)

	// FindByID retrieves a single product by its logical identifier.
	// Returns NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Find returns all products matching the given price range,
	// in store-native order.
	Find(ctx context.Context, priceRange PriceRange) ([]Product, error)

	// FindOneAndUpdate atomically applies the given field set plus the
	// refreshed updatedAt to the product with the given ID and returns the
	// post-update record. Returns NotFoundError if no product matched.
	FindOneAndUpdate(ctx context.Context, id uuid.UUID, update ProductUpdate, updatedAt time.Time) (*Product, error)

	// DeleteByID removes a product by its logical identifier.
	// Returns NotFoundError if no product matched.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
