// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Keyword
// model. Keyword text arrives here already trimmed and normalized by the
// service layer.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// AddKeyword appends a keyword to productID, placing it after the current
// last keyword. A repeated text returns ErrDuplicate.
func AddKeyword(ctx context.Context, db *gorm.DB, productID, text string) (*domain.Keyword, error) {
	var kw *domain.Keyword
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct{ Max *int }
		if err := tx.Model(&domain.Keyword{}).
			Where("product_id = ?", productID).
			Select("MAX(display_order) AS max").
			Scan(&row).Error; err != nil {
			return err
		}
		order := 0
		if row.Max != nil {
			order = *row.Max + 1
		}
		now := time.Now().UTC()
		kw = &domain.Keyword{
			ID:        uuid.NewString(),
			ProductID: productID,
			Text:      text,
			Order:     order,
			CreatedAt: now,
		}
		if err := tx.Create(kw).Error; err != nil {
			return err
		}
		return touchProduct(tx, productID, now)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return kw, nil
}

// ListKeywords returns the keywords of productID in display order.
func ListKeywords(ctx context.Context, db *gorm.DB, productID string) ([]domain.Keyword, error) {
	var out []domain.Keyword
	err := keywordsInOrder(db.WithContext(ctx)).
		Where("product_id = ?", productID).
		Find(&out).Error
	return out, err
}

// DeleteKeyword removes the keyword with the given text from productID.
// Rank history recorded under that text is kept.
func DeleteKeyword(ctx context.Context, db *gorm.DB, productID, text string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("product_id = ? AND keyword = ?", productID, text).
			Delete(&domain.Keyword{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touchProduct(tx, productID, time.Now().UTC())
	})
}

// ReorderKeywords sets the display order of each keyword text in orders
// within one transaction. Texts not present on the product are ignored.
func ReorderKeywords(ctx context.Context, db *gorm.DB, productID string, orders map[string]int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for text, order := range orders {
			if err := tx.Model(&domain.Keyword{}).
				Where("product_id = ? AND keyword = ?", productID, text).
				Update("display_order", order).Error; err != nil {
				return err
			}
		}
		return touchProduct(tx, productID, time.Now().UTC())
	})
}

// touchProduct bumps the product's updated_at so list fingerprints change
// when only its keywords did.
func touchProduct(tx *gorm.DB, productID string, now time.Time) error {
	return tx.Model(&domain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("updated_at", now).Error
}
