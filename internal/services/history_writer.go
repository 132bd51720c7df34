// Package services – HistoryWriter
//
// This file implements HistoryWriter, which appends the outcomes of a refresh
// run to the rank history in fixed-size chunks. Chunks are written one after
// another; every row of a run carries the same observation timestamp.
//
// There is no deduplication: each call appends. A failing chunk stops the
// write and the error propagates; chunks already written stay in place.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// DefaultBatchSize is used when HistoryWriter.BatchSize is not positive.
const DefaultBatchSize = 500

// SampleInserter defines the repository contract required by HistoryWriter.
type SampleInserter interface {
	InsertRankSamples(ctx context.Context, db *gorm.DB, rows []domain.RankSample) error
}

// SampleRow is one observation to persist. A nil Rank records "not found".
type SampleRow struct {
	ProductID string
	Keyword   string
	Rank      *int
}

// HistoryWriter persists SampleRows in chunks of BatchSize.
type HistoryWriter struct {
	DB        *gorm.DB
	Repo      SampleInserter
	BatchSize int

	// Now stamps the rows; defaults to time.Now.
	Now func() time.Time
}

// NewHistoryWriter constructs a HistoryWriter.
func NewHistoryWriter(db *gorm.DB, r SampleInserter, batchSize int) *HistoryWriter {
	return &HistoryWriter{DB: db, Repo: r, BatchSize: batchSize}
}

// Write appends rows and returns the number of chunks written.
func (w *HistoryWriter) Write(ctx context.Context, rows []SampleRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	size := w.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	at := now().UTC()

	chunks := (len(rows) + size - 1) / size
	written := 0
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		batch := make([]domain.RankSample, 0, end-start)
		for _, r := range rows[start:end] {
			batch = append(batch, domain.RankSample{
				ID:        uuid.NewString(),
				ProductID: r.ProductID,
				Keyword:   r.Keyword,
				Rank:      r.Rank,
				CreatedAt: at,
			})
		}
		if err := w.Repo.InsertRankSamples(ctx, w.DB, batch); err != nil {
			return written, fmt.Errorf("write history batch %d/%d: %w", written+1, chunks, err)
		}
		written++
	}
	return written, nil
}
