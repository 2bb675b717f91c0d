package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/abgdnv/gostore/internal/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "products"

// MongoStore implements ProductStore using MongoDB as the data store.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new instance of ProductStore backed by the
// "products" collection of the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection(collectionName),
	}
}

// productDocument is the BSON shape of a stored product. Price is persisted
// as Decimal128 so range filters compare exact decimal values.
type productDocument struct {
	ID        string               `bson:"id"`
	Name      string               `bson:"name"`
	Quantity  int64                `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	Status    bool                 `bson:"status"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// Insert persists a new product record and returns it as stored.
func (m *MongoStore) Insert(ctx context.Context, product Product) (*Product, error) {
	doc, err := toDocument(product)
	if err != nil {
		return nil, err
	}
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return nil, wrapStoreErr("failed to insert product", err)
	}
	return &product, nil
}

// FindByID retrieves a product by its logical identifier.
// Returns NotFoundError if no product exists with the given ID.
func (m *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var doc productDocument
	err := m.collection.FindOne(ctx, bson.M{"id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &perrors.NotFoundError{Filter: id.String()}
		}
		return nil, wrapStoreErr("failed to find product by ID", err)
	}
	return fromDocument(doc)
}

// Find returns all products matching the given price range, in store-native order.
func (m *MongoStore) Find(ctx context.Context, priceRange PriceRange) ([]Product, error) {
	filter, err := priceFilter(priceRange)
	if err != nil {
		return nil, err
	}

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr("failed to find products", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapStoreErr("failed to decode products", err)
	}

	products := make([]Product, len(docs))
	for i, doc := range docs {
		p, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		products[i] = *p
	}
	return products, nil
}

// FindOneAndUpdate atomically applies the given field set plus the refreshed
// updatedAt and returns the post-update record.
// Returns NotFoundError if no product matched.
func (m *MongoStore) FindOneAndUpdate(ctx context.Context, id uuid.UUID, update ProductUpdate, updatedAt time.Time) (*Product, error) {
	set := bson.M{"updated_at": updatedAt}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Price != nil {
		price, err := primitive.ParseDecimal128(update.Price.String())
		if err != nil {
			return nil, fmt.Errorf("failed to convert price to Decimal128: %w", err)
		}
		set["price"] = price
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &perrors.NotFoundError{Filter: id.String()}
		}
		return nil, wrapStoreErr("failed to update product", err)
	}
	return fromDocument(doc)
}

// DeleteByID removes a product by its logical identifier using a single
// conditional delete, so there is no window between an existence check and
// the delete itself. Returns NotFoundError if no product matched.
func (m *MongoStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"id": id.String()})
	if err != nil {
		return wrapStoreErr("failed to delete product by ID", err)
	}
	if result.DeletedCount == 0 {
		return &perrors.NotFoundError{Filter: id.String()}
	}
	return nil
}

// priceFilter builds the range filter: only a minimum gives price >= min,
// only a maximum gives price <= max, both give an inclusive range,
// neither gives an empty filter matching all records.
func priceFilter(priceRange PriceRange) (bson.M, error) {
	filter := bson.M{}
	bounds := bson.M{}
	if priceRange.Min != nil {
		min, err := primitive.ParseDecimal128(priceRange.Min.String())
		if err != nil {
			return nil, fmt.Errorf("failed to convert min price to Decimal128: %w", err)
		}
		bounds["$gte"] = min
	}
	if priceRange.Max != nil {
		max, err := primitive.ParseDecimal128(priceRange.Max.String())
		if err != nil {
			return nil, fmt.Errorf("failed to convert max price to Decimal128: %w", err)
		}
		bounds["$lte"] = max
	}
	if len(bounds) > 0 {
		filter["price"] = bounds
	}
	return filter, nil
}

func toDocument(product Product) (*productDocument, error) {
	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to convert price to Decimal128: %w", err)
	}
	return &productDocument{
		ID:        product.ID.String(),
		Name:      product.Name,
		Quantity:  product.Quantity,
		Price:     price,
		Status:    product.Status,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}, nil
}

func fromDocument(doc productDocument) (*Product, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product ID %q: %w", doc.ID, err)
	}
	price, err := decimal.NewFromString(doc.Price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse product price %q: %w", doc.Price.String(), err)
	}
	return &Product{
		ID:        id,
		Name:      doc.Name,
		Quantity:  doc.Quantity,
		Price:     price,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// wrapStoreErr maps driver-level connectivity failures to ErrStoreUnavailable
// and wraps everything else unchanged.
func wrapStoreErr(msg string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, perrors.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
