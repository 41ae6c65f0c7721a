// Package apperr holds the error types every service returns to its callers.
// Handlers map them to HTTP status codes with Status and never parse messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError - malformed input; the caller can fix it and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError - the referenced id does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InsufficientStockError - a ledger decrement would drive quantity below zero.
type InsufficientStockError struct {
	ProductID string
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

// OutOfStockError - a cart line cannot grow past the product's current stock.
type OutOfStockError struct {
	ProductID string
	ItemName  string
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("%s is out of stock", e.ItemName)
	}
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

// EmptyCartError - checkout was attempted with no lines.
type EmptyCartError struct{}

func (e *EmptyCartError) Error() string {
	return "cart is empty"
}

var ErrEmptyCart error = &EmptyCartError{}

// Status maps an error to the HTTP status code of the public API.
func Status(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
		outOfStock   *OutOfStockError
		emptyCart    *EmptyCartError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient), errors.As(err, &outOfStock), errors.As(err, &emptyCart):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
