// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// ProductsStats returns the number of products visible to userID (all
// owners when empty) and the greatest UpdatedAt among them. When there are
// no rows the count is 0 and maxUpdatedAt is nil.
func ProductsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Product{}).Scopes(ownerScope(userID))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.Product{}).Scopes(ownerScope(userID)).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// KeywordsCount returns the number of keywords attached to products visible
// to userID.
func KeywordsCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	q := db.WithContext(ctx).
		Model(&domain.Keyword{}).
		Joins("JOIN products ON products.id = keywords.product_id")
	if userID != "" {
		q = q.Where("products.user_id = ?", userID)
	}
	err := q.Count(&n).Error
	return n, err
}

// RankSamplesCount returns the number of history rows of products visible
// to userID. Every refresh run changes it.
func RankSamplesCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	q := db.WithContext(ctx).
		Model(&domain.RankSample{}).
		Joins("JOIN products ON products.id = rank_samples.product_id")
	if userID != "" {
		q = q.Where("products.user_id = ?", userID)
	}
	err := q.Count(&n).Error
	return n, err
}
