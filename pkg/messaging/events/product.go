package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/gostore/pkg/messaging"
	"github.com/google/uuid"
)

type ProductCreatedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (p ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (p ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(p)
}

type ProductUpdatedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p ProductUpdatedEvent) Subject() string {
	return messaging.ProductsUpdatedSubject
}

func (p ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(p)
}

type ProductDeletedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
}

func (p ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (p ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(p)
}
