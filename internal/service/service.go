// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/gostore/internal/store"
	"github.com/abgdnv/gostore/pkg/messaging"
	"github.com/abgdnv/gostore/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product to the system, assigning an ID if none is
	// given and stamping both timestamps to the current time.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// FindAll returns all products within the given optional price bounds,
	// in store-native order. Bound consistency is the caller's concern.
	FindAll(ctx context.Context, minPrice, maxPrice *decimal.Decimal) ([]ProductDto, error)

	// Update atomically applies the given sparse field set to an existing
	// product and refreshes updated_at.
	// Returns NotFoundError if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
}

// NewService creates a new instance of ProductService with the provided
// repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	return &Service{
		repository: repo,
		publisher:  publisher,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Quantity, Price and Status are pointers so that zero values pass the
// required check; a missing field is still rejected.
type ProductCreateDto struct {
	ID       *uuid.UUID       `json:"id,omitempty"`
	Name     string           `json:"name"     validate:"required,max=100"`
	Quantity *int64           `json:"quantity" validate:"required,gte=0"`
	Price    *decimal.Decimal `json:"price"    validate:"required,gte=0"`
	Status   *bool            `json:"status"   validate:"required"`
}

// ProductUpdateDto represents the data transfer object for a partial update.
// Nil fields are excluded from the persisted update set entirely.
type ProductUpdateDto struct {
	Name     *string          `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Quantity *int64           `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *decimal.Decimal `json:"price,omitempty"    validate:"omitempty,gte=0"`
	Status   *bool            `json:"status,omitempty"`
}

// ProductDto represents the data transfer object for a product.
// Price serializes as a fixed-point decimal string, e.g. "8.500".
type ProductDto struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    bool            `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Create builds a full product record from the payload and persists it via a
// single insert. No existence pre-check is made; the store enforces its own
// constraints on duplicate IDs.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	id := uuid.New()
	if product.ID != nil {
		id = *product.ID
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	record := store.Product{
		ID:        id,
		Name:      product.Name,
		Quantity:  *product.Quantity,
		Price:     *product.Price,
		Status:    *product.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repository.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.ProductCreatedEvent{
		ProductID: created.ID,
		Name:      created.Name,
		Price:     created.Price.String(),
		CreatedAt: created.CreatedAt,
	})

	return toDto(created), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns NotFoundError if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// FindAll retrieves products within the optional price bounds and returns
// them as ProductDTOs. An inverted range is not rejected here; it simply
// yields an empty result.
func (s *Service) FindAll(ctx context.Context, minPrice, maxPrice *decimal.Decimal) ([]ProductDto, error) {
	products, err := s.repository.Find(ctx, store.PriceRange{Min: minPrice, Max: maxPrice})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Update applies the sparse field set atomically via a single
// find-and-modify and returns the post-update record as a ProductDto.
// Returns NotFoundError if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id uuid.UUID, product ProductUpdateDto) (*ProductDto, error) {
	fields := store.ProductUpdate{
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
		Status:   product.Status,
	}
	updatedAt := time.Now().UTC().Truncate(time.Millisecond)

	updated, err := s.repository.FindOneAndUpdate(ctx, id, fields, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	s.publish(ctx, events.ProductUpdatedEvent{
		ProductID: updated.ID,
		UpdatedAt: updated.UpdatedAt,
	})

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns NotFoundError if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.ProductDeletedEvent{ProductID: id})

	return nil
}

// publish sends a lifecycle event. Publishing is best-effort: failures are
// logged and never surfaced to the caller.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Price:     product.Price,
		Status:    product.Status,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
