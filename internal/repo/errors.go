// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the error values shared by every
// repository function.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a unique constraint rejected the write
// (duplicate product per owner, duplicate keyword per product, or an
// idempotency record that already exists).
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err came from a UNIQUE constraint.
// glebarez/sqlite often returns plain-text errors for these.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
