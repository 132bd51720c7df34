// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append-only rank history store.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// InsertRankSamples appends rows in a single multi-row INSERT. Chunking is
// the caller's job; an empty slice is a no-op.
func InsertRankSamples(ctx context.Context, db *gorm.DB, rows []domain.RankSample) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// ListRankSamples returns samples of productID observed at or after since,
// newest first, capped at limit rows (no cap when limit <= 0).
func ListRankSamples(ctx context.Context, db *gorm.DB, productID string, since time.Time, limit int) ([]domain.RankSample, error) {
	var out []domain.RankSample
	q := db.WithContext(ctx).
		Where("product_id = ? AND created_at >= ?", productID, since).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountRankSamples returns the number of stored samples per product id.
// Products with no samples are absent from the map.
func CountRankSamples(ctx context.Context, db *gorm.DB, productIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ProductID string
		N         int64
	}
	err := db.WithContext(ctx).
		Model(&domain.RankSample{}).
		Select("product_id, COUNT(*) AS n").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ProductID] = r.N
	}
	return out, nil
}
