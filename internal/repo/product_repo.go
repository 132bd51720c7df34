// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a product is not found, functions return ErrNotFound.
//   - When (owner, external id) already exists, writes return ErrDuplicate.
//   - On other DB errors, the raw gorm error is propagated.
//
// An empty userID in list functions means "all owners" (the shared,
// read-only dashboard mode).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// ProductPatch carries the optional fields of a product update. Nil fields
// are left untouched.
type ProductPatch struct {
	Name       *string
	ExternalID *string
	Order      *int
}

// keywordsInOrder preloads keywords sorted for display.
func keywordsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, created_at ASC, id ASC")
}

func ownerScope(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == "" {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}

// CreateProduct inserts a new Product owned by userID. The ID is a random
// UUID and both timestamps are set to the current UTC time.
func CreateProduct(ctx context.Context, db *gorm.DB, userID, externalID, name string, order int) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExternalID: externalID,
		Name:       name,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

// GetProduct fetches one product by internal ID with its keywords.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).
		Preload("Keywords", keywordsInOrder).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductByExternalID returns the product carrying the given marketplace
// id. When userID is empty the oldest matching product of any owner is
// returned.
func FindProductByExternalID(ctx context.Context, db *gorm.DB, userID, externalID string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).
		Scopes(ownerScope(userID)).
		Preload("Keywords", keywordsInOrder).
		Where("external_id = ?", externalID).
		Order("created_at ASC, id ASC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products with their keywords, ordered by display
// order and then newest first. A non-positive limit returns every row.
func ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error) {
	var out []domain.Product
	q := db.WithContext(ctx).
		Scopes(ownerScope(userID)).
		Preload("Keywords", keywordsInOrder).
		Order("display_order ASC, created_at DESC, id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountProducts returns the number of products owned by userID (all owners
// when userID is empty).
func CountProducts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Scopes(ownerScope(userID)).
		Count(&total).Error
	return total, err
}

// UpdateProduct applies the non-nil fields of patch to product id and bumps
// UpdatedAt. It returns ErrNotFound when no row matches and ErrDuplicate
// when the new external id collides with another product of the owner.
func UpdateProduct(ctx context.Context, db *gorm.DB, id string, patch ProductPatch) error {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.ExternalID != nil {
		fields["external_id"] = *patch.ExternalID
	}
	if patch.Order != nil {
		fields["display_order"] = *patch.Order
	}
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes product id. Keywords and rank history go with it
// through the ON DELETE CASCADE foreign keys.
func DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextProductOrder returns one past the highest display order used by the
// owner, so new products land at the end of the list.
func NextProductOrder(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	var row struct{ Max *int }
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Scopes(ownerScope(userID)).
		Select("MAX(display_order) AS max").
		Scan(&row).Error
	if err != nil || row.Max == nil {
		return 0, err
	}
	return *row.Max + 1, nil
}
