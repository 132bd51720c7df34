// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the credential store for shopping
// search API keys.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// GetAPIConfig returns the credential record of userID or ErrNotFound.
func GetAPIConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.APIConfig, error) {
	var c domain.APIConfig
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAnyAPIConfig returns the most recently updated record that has both a
// client id and a secret, or ErrNotFound when none exists.
func GetAnyAPIConfig(ctx context.Context, db *gorm.DB) (*domain.APIConfig, error) {
	var c domain.APIConfig
	err := db.WithContext(ctx).
		Where("client_id <> '' AND client_secret <> ''").
		Order("updated_at DESC, id ASC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertAPIConfig creates or updates the record of userID. An empty
// clientSecret keeps the stored secret.
func UpsertAPIConfig(ctx context.Context, db *gorm.DB, userID, clientID, clientSecret string) (*domain.APIConfig, error) {
	var out domain.APIConfig
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		err := tx.Where("user_id = ?", userID).First(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			out = domain.APIConfig{
				ID:           uuid.NewString(),
				UserID:       userID,
				ClientID:     clientID,
				ClientSecret: clientSecret,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			return tx.Create(&out).Error
		}
		if err != nil {
			return err
		}

		out.ClientID = clientID
		if clientSecret != "" {
			out.ClientSecret = clientSecret
		}
		out.UpdatedAt = now
		return tx.Model(&domain.APIConfig{}).
			Where("id = ?", out.ID).
			Updates(map[string]any{
				"client_id":     out.ClientID,
				"client_secret": out.ClientSecret,
				"updated_at":    out.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
