package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perrors "github.com/abgdnv/gostore/internal/errors"
	"github.com/abgdnv/gostore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product *service.ProductDto
	list    []service.ProductDto
	error   error

	minPrice *decimal.Decimal
	maxPrice *decimal.Decimal
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindByID(_ context.Context, _ uuid.UUID) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindAll(_ context.Context, minPrice, maxPrice *decimal.Decimal) ([]service.ProductDto, error) {
	m.minPrice = minPrice
	m.maxPrice = maxPrice
	if m.error != nil {
		return nil, m.error
	}
	return m.list, nil
}

func (m *mockProductService) Update(_ context.Context, _ uuid.UUID, _ service.ProductUpdateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) DeleteByID(_ context.Context, _ uuid.UUID) error {
	return m.error
}

func newTestRouter(svc service.ProductService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func testProductDto(id uuid.UUID) *service.ProductDto {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &service.ProductDto{
		ID:        id,
		Name:      "Iphone 14 pro Max",
		Quantity:  10,
		Price:     decimal.RequireFromString("8.500"),
		Status:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func Test_ProductAPI_Create(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  *mockProductService
		body         string
		expectedCode int
		contains     string
	}{
		{
			name:         "Success - product created",
			mockService:  &mockProductService{product: testProductDto(mockID)},
			body:         `{"name": "Iphone 14 pro Max", "quantity": 10, "price": "8.500", "status": true}`,
			expectedCode: http.StatusCreated,
			contains:     `"price":"8.500"`,
		},
		{
			name:         "Success - zero quantity and false status are valid",
			mockService:  &mockProductService{product: testProductDto(mockID)},
			body:         `{"name": "Iphone 14 pro Max", "quantity": 0, "price": "0", "status": false}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Error - invalid JSON body",
			mockService:  &mockProductService{},
			body:         `{not json`,
			expectedCode: http.StatusBadRequest,
			contains:     "Invalid request body",
		},
		{
			name:         "Error - missing fields are named",
			mockService:  &mockProductService{},
			body:         `{"name": "Iphone 14 pro Max"}`,
			expectedCode: http.StatusBadRequest,
			contains:     `"Quantity":"failed on rule: required"`,
		},
		{
			name:         "Error - negative quantity rejected",
			mockService:  &mockProductService{},
			body:         `{"name": "Iphone 14 pro Max", "quantity": -1, "price": "8.500", "status": true}`,
			expectedCode: http.StatusBadRequest,
			contains:     `"Quantity":"failed on rule: gte"`,
		},
		{
			name:         "Error - negative price rejected",
			mockService:  &mockProductService{},
			body:         `{"name": "Iphone 14 pro Max", "quantity": 1, "price": "-0.01", "status": true}`,
			expectedCode: http.StatusBadRequest,
			contains:     `"Price":"failed on rule: gte"`,
		},
		{
			name:         "Error - store unavailable",
			mockService:  &mockProductService{error: fmt.Errorf("failed to create product: %w", perrors.ErrStoreUnavailable)},
			body:         `{"name": "Iphone 14 pro Max", "quantity": 10, "price": "8.500", "status": true}`,
			expectedCode: http.StatusServiceUnavailable,
			contains:     "Database connection error",
		},
		{
			name:         "Error - unexpected failure",
			mockService:  &mockProductService{error: fmt.Errorf("boom")},
			body:         `{"name": "Iphone 14 pro Max", "quantity": 10, "price": "8.500", "status": true}`,
			expectedCode: http.StatusInternalServerError,
			contains:     "Failed to create product",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.contains != "" {
				assert.Contains(t, rec.Body.String(), tc.contains)
			}
		})
	}
}

func Test_ProductAPI_FindByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  *mockProductService
		productID    string
		expectedCode int
		contains     string
	}{
		{
			name:         "Success - product found",
			mockService:  &mockProductService{product: testProductDto(mockID)},
			productID:    mockID.String(),
			expectedCode: http.StatusOK,
			contains:     `"name":"Iphone 14 pro Max"`,
		},
		{
			name: "Error - product not found",
			mockService: &mockProductService{
				error: fmt.Errorf("failed to fetch product by ID %s: %w", mockID, &perrors.NotFoundError{Filter: mockID.String()}),
			},
			productID:    mockID.String(),
			expectedCode: http.StatusNotFound,
			contains:     `{"error":"Product not found with filter: 123e4567-e89b-12d3-a456-426614174000"}`,
		},
		{
			name:         "Error - invalid ID",
			mockService:  &mockProductService{},
			productID:    "not-a-uuid",
			expectedCode: http.StatusBadRequest,
			contains:     "Invalid ID",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/products/"+tc.productID, nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.contains != "" {
				assert.Contains(t, rec.Body.String(), tc.contains)
			}
		})
	}
}

func Test_ProductAPI_FindAll(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  *mockProductService
		query        string
		expectedCode int
		contains     string
		expectMin    string
		expectMax    string
	}{
		{
			name:         "Success - no bounds",
			mockService:  &mockProductService{list: []service.ProductDto{*testProductDto(mockID)}},
			expectedCode: http.StatusOK,
			contains:     `"price":"8.500"`,
		},
		{
			name:         "Success - both bounds forwarded",
			mockService:  &mockProductService{list: []service.ProductDto{}},
			query:        "?min_price=5.000&max_price=9.000",
			expectedCode: http.StatusOK,
			expectMin:    "5.000",
			expectMax:    "9.000",
		},
		{
			name:         "Success - min bound only",
			mockService:  &mockProductService{list: []service.ProductDto{}},
			query:        "?min_price=5.000",
			expectedCode: http.StatusOK,
			expectMin:    "5.000",
		},
		{
			name:         "Error - inverted range rejected before the use-case",
			mockService:  &mockProductService{},
			query:        "?min_price=9.000&max_price=5.000",
			expectedCode: http.StatusBadRequest,
			contains:     "Minimum price cannot be greater than maximum price",
		},
		{
			name:         "Error - malformed bound",
			mockService:  &mockProductService{},
			query:        "?min_price=cheap",
			expectedCode: http.StatusBadRequest,
			contains:     "Invalid min_price number",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/products/"+tc.query, nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.contains != "" {
				assert.Contains(t, rec.Body.String(), tc.contains)
			}
			if tc.expectMin != "" {
				require.NotNil(t, tc.mockService.minPrice)
				assert.Equal(t, tc.expectMin, tc.mockService.minPrice.String())
			}
			if tc.expectMax != "" {
				require.NotNil(t, tc.mockService.maxPrice)
				assert.Equal(t, tc.expectMax, tc.mockService.maxPrice.String())
			}
			if tc.expectedCode == http.StatusBadRequest {
				assert.Nil(t, tc.mockService.minPrice, "use-case must not be invoked on controller-side rejection")
			}
		})
	}
}

func Test_ProductAPI_Update(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  *mockProductService
		body         string
		expectedCode int
		contains     string
	}{
		{
			name:         "Success - partial update",
			mockService:  &mockProductService{product: testProductDto(mockID)},
			body:         `{"quantity": 40}`,
			expectedCode: http.StatusOK,
			contains:     `"name":"Iphone 14 pro Max"`,
		},
		{
			name: "Error - product not found",
			mockService: &mockProductService{
				error: fmt.Errorf("failed to update product with ID %s: %w", mockID, &perrors.NotFoundError{Filter: mockID.String()}),
			},
			body:         `{"quantity": 40}`,
			expectedCode: http.StatusNotFound,
			contains:     "Product not found with filter: " + mockID.String(),
		},
		{
			name:         "Error - negative quantity rejected",
			mockService:  &mockProductService{},
			body:         `{"quantity": -5}`,
			expectedCode: http.StatusBadRequest,
			contains:     `"Quantity":"failed on rule: gte"`,
		},
		{
			name:         "Error - store unavailable",
			mockService:  &mockProductService{error: fmt.Errorf("failed to update product: %w", perrors.ErrStoreUnavailable)},
			body:         `{"quantity": 40}`,
			expectedCode: http.StatusServiceUnavailable,
			contains:     "Database connection error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			req := httptest.NewRequest(http.MethodPatch, "/products/"+mockID.String(), strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.contains != "" {
				assert.Contains(t, rec.Body.String(), tc.contains)
			}
		})
	}
}

func Test_ProductAPI_DeleteByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		contains     string
	}{
		{
			name:         "Success - product deleted, empty body",
			mockService:  &mockProductService{},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Error - product not found",
			mockService: &mockProductService{
				error: &perrors.NotFoundError{Filter: mockID.String()},
			},
			expectedCode: http.StatusNotFound,
			contains:     "Product not found with filter: " + mockID.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			req := httptest.NewRequest(http.MethodDelete, "/products/"+mockID.String(), nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
				return
			}
			if tc.contains != "" {
				assert.Contains(t, rec.Body.String(), tc.contains)
			}
		})
	}
}

func Test_ProductAPI_HealthCheck(t *testing.T) {
	mux := newTestRouter(&mockProductService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
