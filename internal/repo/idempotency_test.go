package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

func TestGetIdempotency_BlankScopeOrKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty scope, got (%v, %v)", rec, err)
	}
	rec, err = GetIdempotency(context.Background(), db, "u1", "ranks.refresh", "", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:        "expired",
		UserID:    "u1",
		Scope:     "ranks.refresh",
		Key:       "k1",
		Response:  "{}",
		Status:    200,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "u1", "ranks.refresh", "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	rec2, err2 := GetIdempotency(context.Background(), db, "u1", "ranks.refresh", "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestCreateIdempotency_SuccessReplayAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u9", "ranks.refresh", "k9", `{"success":true}`, 200, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.UserID != "u9" || rec.Scope != "ranks.refresh" || rec.Key != "k9" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := GetIdempotency(ctx, db, "u9", "ranks.refresh", "k9", time.Now().UTC())
	if err != nil || got.Response != `{"success":true}` {
		t.Fatalf("replay lookup = %+v, %v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, "u9", "ranks.refresh", "k9", "{}", 200, ttl); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

// Generic DB error path: attempt insert without migrating the table.
func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newTestDB(t) // intentionally NOT migrating
	_, err := CreateIdempotency(context.Background(), db, "uX", "s", "kX", "{}", 200, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	for i, exp := range []time.Time{now.Add(-time.Minute), now.Add(-time.Hour), now.Add(time.Hour)} {
		rec := &domain.Idempotency{
			ID: string(rune('a' + i)), UserID: "u", Scope: "s", Key: string(rune('a' + i)),
			Response: "{}", Status: 200, CreatedAt: now, ExpiresAt: exp,
		}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 2 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v", n, err)
	}
}
