// Package errors provides custom error types for product-related operations.
package errors

import "errors"

// ErrStoreUnavailable indicates the document store could not be reached.
var ErrStoreUnavailable = errors.New("document store unavailable")

// NotFoundError is returned when no product matches the attempted filter.
// The filter value is part of the message so callers can surface it verbatim.
type NotFoundError struct {
	Filter string
}

func (e *NotFoundError) Error() string {
	return "Product not found with filter: " + e.Filter
}
