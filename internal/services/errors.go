// Package services defines the business logic for tracked products, their
// keywords, search credentials, and the rank-refresh pipeline. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Product and keyword errors.
var (
	// ErrProductNotFound indicates that the product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrForbidden is returned when an actor modifies a product it does not own.
	ErrForbidden = errors.New("not the owner of this product")

	// ErrDuplicateProduct is returned when the owner already tracks the
	// external id.
	ErrDuplicateProduct = errors.New("product already registered")

	// ErrDuplicateKeyword is returned when the product already tracks the
	// keyword text.
	ErrDuplicateKeyword = errors.New("keyword already registered")

	// ErrKeywordNotFound indicates that the product has no such keyword.
	ErrKeywordNotFound = errors.New("keyword not found")

	// ErrInvalidInput is returned for blank or oversized fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated is returned when a write is attempted anonymously.
	ErrUnauthenticated = errors.New("authentication required")
)

// Refresh precondition errors. Each aborts a run before any lookup starts.
var (
	// ErrNoCredentials means neither the actor nor anyone else has stored a
	// usable client id and secret.
	ErrNoCredentials = errors.New("search API credentials are not configured")

	// ErrNoProducts means the run scope contains no products.
	ErrNoProducts = errors.New("no products to refresh")

	// ErrNoKeywords means none of the products in scope has a keyword.
	ErrNoKeywords = errors.New("no keywords to refresh")
)
