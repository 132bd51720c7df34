package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

func TestInsertRankSamples_EmptyIsNoop(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if err := InsertRankSamples(context.Background(), db, nil); err != nil {
		t.Fatalf("empty insert should not touch the DB: %v", err)
	}
}

func TestInsertRankSamples_Error_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	err := InsertRankSamples(context.Background(), db, []domain.RankSample{{ID: "s1", ProductID: "p", Keyword: "k"}})
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
}

func TestListRankSamples_WindowOrderAndLimit(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, db, "u1", "1", "a", 0)
	other, _ := CreateProduct(ctx, db, "u1", "2", "b", 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var rows []domain.RankSample
	for i := 0; i < 5; i++ {
		r := i + 1
		rows = append(rows, domain.RankSample{
			ID: fmt.Sprintf("s%d", i), ProductID: p.ID, Keyword: "mug", Rank: &r,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	rows = append(rows, domain.RankSample{ID: "other", ProductID: other.ID, Keyword: "mug", CreatedAt: base.Add(96 * time.Hour)})
	if err := InsertRankSamples(ctx, db, rows); err != nil {
		t.Fatalf("InsertRankSamples: %v", err)
	}

	got, err := ListRankSamples(ctx, db, p.ID, base.Add(24*time.Hour), 0)
	if err != nil {
		t.Fatalf("ListRankSamples: %v", err)
	}
	if len(got) != 4 || got[0].ID != "s4" || got[3].ID != "s1" {
		t.Fatalf("unexpected window/order: %+v", got)
	}
	if got[0].Rank == nil || *got[0].Rank != 5 {
		t.Fatalf("rank not round-tripped: %+v", got[0])
	}

	limited, err := ListRankSamples(ctx, db, p.ID, time.Time{}, 2)
	if err != nil || len(limited) != 2 || limited[0].ID != "s4" || limited[1].ID != "s3" {
		t.Fatalf("limited = %+v, %v", limited, err)
	}

	counts, err := CountRankSamples(ctx, db, []string{p.ID, other.ID, "none"})
	if err != nil {
		t.Fatalf("CountRankSamples: %v", err)
	}
	if counts[p.ID] != 5 || counts[other.ID] != 1 || counts["none"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestInsertRankSamples_NullRankPersists(t *testing.T) {
	db := newTestDB(t, allModels()...)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, db, "u1", "1", "a", 0)
	if err := InsertRankSamples(ctx, db, []domain.RankSample{{ID: "n", ProductID: p.ID, Keyword: "mug", CreatedAt: time.Now().UTC()}}); err != nil {
		t.Fatalf("InsertRankSamples: %v", err)
	}
	got, err := ListRankSamples(ctx, db, p.ID, time.Time{}, 0)
	if err != nil || len(got) != 1 || got[0].Rank != nil {
		t.Fatalf("expected one not-found sample, got %+v, %v", got, err)
	}
}
