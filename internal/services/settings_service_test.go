package services

import (
	"context"
	"errors"
	"testing"
)

func TestSettings_GetEmptyThenSaveMasked(t *testing.T) {
	db := newServiceDB(t)
	s := NewSettingsService(db, store{})
	ctx := context.Background()

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != (Settings{}) {
		t.Fatalf("expected empty settings, got %+v", got)
	}

	saved, err := s.Save(ctx, "u1", " client ", " secret ")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ClientID != "client" || saved.ClientSecret != SecretMask || !saved.HasSecret {
		t.Fatalf("unexpected saved view: %+v", saved)
	}

	stored, err := store{}.GetAPIConfig(ctx, db, "u1")
	if err != nil || stored.ClientSecret != "secret" {
		t.Fatalf("stored secret = %v, %v", stored, err)
	}
}

func TestSettings_MaskedOrBlankSecretKeepsStored(t *testing.T) {
	db := newServiceDB(t)
	s := NewSettingsService(db, store{})
	ctx := context.Background()

	if _, err := s.Save(ctx, "u1", "id1", "secret1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, secret := range []string{SecretMask, "", "   "} {
		if _, err := s.Save(ctx, "u1", "id2", secret); err != nil {
			t.Fatalf("Save(%q): %v", secret, err)
		}
		c, _ := store{}.GetAPIConfig(ctx, db, "u1")
		if c.ClientID != "id2" || c.ClientSecret != "secret1" {
			t.Fatalf("after Save(%q): %+v", secret, c)
		}
	}
}

func TestSettings_Validation(t *testing.T) {
	s := NewSettingsService(nil, store{})
	ctx := context.Background()

	if _, err := s.Get(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous get: err = %v", err)
	}
	if _, err := s.Save(ctx, "", "id", "secret"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous save: err = %v", err)
	}
	if _, err := s.Save(ctx, "u1", "  ", "secret"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank client id: err = %v", err)
	}
}

func TestSettings_SecretOnlyWithoutClientID(t *testing.T) {
	db := newServiceDB(t)
	s := NewSettingsService(db, store{})
	ctx := context.Background()

	// first save without a secret: stored but not usable
	got, err := s.Save(ctx, "u1", "id", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got.HasSecret || got.ClientSecret != "" {
		t.Fatalf("no secret stored yet, got %+v", got)
	}
}
