// Package services – RankService
//
// This file implements RankService, the read side of the rank history. For
// each product it loads recent samples newest-first, groups them by keyword
// text, derives the current and previous rank with their delta, and reduces
// the samples to a daily series (latest sample per local calendar day) for
// charting.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

// HistoryReader defines the repository contract required by RankService.
type HistoryReader interface {
	ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error)
	FindProductByExternalID(ctx context.Context, db *gorm.DB, userID, externalID string) (*domain.Product, error)
	ListRankSamples(ctx context.Context, db *gorm.DB, productID string, since time.Time, limit int) ([]domain.RankSample, error)
}

// RankPoint is one day of a keyword's series. Rank is nil when the product
// was not found that day.
type RankPoint struct {
	Rank *int      `json:"rank"`
	Date time.Time `json:"date"`
}

// KeywordRanks summarizes the history of one keyword.
type KeywordRanks struct {
	Keyword      string      `json:"keyword"`
	CurrentRank  *int        `json:"currentRank"`
	PreviousRank *int        `json:"previousRank"`
	Delta        *int        `json:"delta"`
	History      []RankPoint `json:"history"`
}

// ProductRanks is the rank view of one product.
type ProductRanks struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	Keywords    []KeywordRanks `json:"keywords"`
}

// RankService serves rank summaries.
type RankService struct {
	DB   *gorm.DB
	Repo HistoryReader

	LookbackDays int
	RowLimit     int
	MaxDays      int
	Location     *time.Location

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRankService constructs a RankService with the given read bounds.
func NewRankService(db *gorm.DB, r HistoryReader, lookbackDays, rowLimit, maxDays int, loc *time.Location) *RankService {
	if loc == nil {
		loc = time.UTC
	}
	return &RankService{
		DB:           db,
		Repo:         r,
		LookbackDays: lookbackDays,
		RowLimit:     rowLimit,
		MaxDays:      maxDays,
		Location:     loc,
	}
}

// All returns the rank view of every product visible to userID (all owners
// when empty).
func (s *RankService) All(ctx context.Context, userID string) ([]ProductRanks, error) {
	products, err := s.Repo.ListProducts(ctx, s.DB, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]ProductRanks, 0, len(products))
	for i := range products {
		pr, err := s.forProduct(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, nil
}

// ForProduct returns the rank view of the product with the given external
// id. Without a userID the oldest matching product of any owner is used.
func (s *RankService) ForProduct(ctx context.Context, userID, externalID string) (*ProductRanks, error) {
	p, err := s.Repo.FindProductByExternalID(ctx, s.DB, userID, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	pr, err := s.forProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (s *RankService) forProduct(ctx context.Context, p *domain.Product) (ProductRanks, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	since := now().UTC().AddDate(0, 0, -s.LookbackDays)

	samples, err := s.Repo.ListRankSamples(ctx, s.DB, p.ID, since, s.RowLimit)
	if err != nil {
		return ProductRanks{}, err
	}
	return ProductRanks{
		ID:          p.ID,
		ProductID:   p.ExternalID,
		ProductName: p.Name,
		Keywords:    Summarize(p.Keywords, samples, s.MaxDays, s.Location),
	}, nil
}

// Summarize builds one KeywordRanks per registered keyword, in the order
// given. samples must be ordered newest first. Samples of keywords that are
// no longer registered are ignored.
func Summarize(keywords []domain.Keyword, samples []domain.RankSample, maxDays int, loc *time.Location) []KeywordRanks {
	if loc == nil {
		loc = time.UTC
	}
	byKeyword := make(map[string][]domain.RankSample, len(keywords))
	for _, smp := range samples {
		byKeyword[smp.Keyword] = append(byKeyword[smp.Keyword], smp)
	}

	out := make([]KeywordRanks, 0, len(keywords))
	for _, k := range keywords {
		rows := byKeyword[k.Text]
		kr := KeywordRanks{Keyword: k.Text, History: dailySeries(rows, maxDays, loc)}
		if len(rows) > 0 {
			kr.CurrentRank = rows[0].Rank
		}
		if len(rows) > 1 {
			kr.PreviousRank = rows[1].Rank
		}
		if kr.CurrentRank != nil && kr.PreviousRank != nil {
			d := *kr.PreviousRank - *kr.CurrentRank
			kr.Delta = &d
		}
		out = append(out, kr)
	}
	return out
}

// dailySeries keeps the first (latest) sample of each local calendar day,
// stops after maxDays distinct days and returns the points oldest first.
func dailySeries(rows []domain.RankSample, maxDays int, loc *time.Location) []RankPoint {
	points := make([]RankPoint, 0)
	seen := make(map[string]struct{})
	for _, r := range rows {
		day := r.CreatedAt.In(loc).Format("2006-01-02")
		if _, ok := seen[day]; ok {
			continue
		}
		if maxDays > 0 && len(seen) >= maxDays {
			break
		}
		seen[day] = struct{}{}
		points = append(points, RankPoint{Rank: r.Rank, Date: r.CreatedAt})
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}
