// Package services – SettingsService
//
// This file implements SettingsService, the per-actor store of shopping
// search credentials. The secret is write-only from the caller's point of
// view: reads return a fixed mask and a flag telling whether one is stored.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// SecretMask replaces a stored secret in every read.
const SecretMask = "********"

// CredentialRepo defines the repository contract required by
// SettingsService and RefreshService.
type CredentialRepo interface {
	GetAPIConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.APIConfig, error)
	GetAnyAPIConfig(ctx context.Context, db *gorm.DB) (*domain.APIConfig, error)
	UpsertAPIConfig(ctx context.Context, db *gorm.DB, userID, clientID, clientSecret string) (*domain.APIConfig, error)
}

// Settings is the caller-visible view of stored credentials.
type Settings struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	HasSecret    bool   `json:"hasSecret"`
}

// SettingsService reads and writes credentials.
type SettingsService struct {
	DB   *gorm.DB
	Repo CredentialRepo
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *gorm.DB, r CredentialRepo) *SettingsService {
	return &SettingsService{DB: db, Repo: r}
}

// Get returns the masked settings of userID. Missing records read as empty.
func (s *SettingsService) Get(ctx context.Context, userID string) (Settings, error) {
	if userID == "" {
		return Settings{}, ErrUnauthenticated
	}
	c, err := s.Repo.GetAPIConfig(ctx, s.DB, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, err
	}
	return masked(c), nil
}

// Save upserts the credentials of userID. A blank or masked secret keeps the
// stored one.
func (s *SettingsService) Save(ctx context.Context, userID, clientID, clientSecret string) (Settings, error) {
	if userID == "" {
		return Settings{}, ErrUnauthenticated
	}
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" {
		return Settings{}, ErrInvalidInput
	}
	if clientSecret == SecretMask {
		clientSecret = ""
	}
	c, err := s.Repo.UpsertAPIConfig(ctx, s.DB, userID, clientID, clientSecret)
	if err != nil {
		return Settings{}, err
	}
	return masked(c), nil
}

func masked(c *domain.APIConfig) Settings {
	out := Settings{ClientID: c.ClientID, HasSecret: c.ClientSecret != ""}
	if out.HasSecret {
		out.ClientSecret = SecretMask
	}
	return out
}
