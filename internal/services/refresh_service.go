// Package services – RefreshService
//
// This file implements RefreshService, the rank-refresh orchestrator. One
// run:
//
//  1. resolves search credentials (the actor's own record when usable,
//     otherwise any stored usable record);
//  2. loads the products in scope (the actor's, or all for anonymous runs)
//     with their keywords and expands them into one task per
//     (product, keyword) pair in product order, then keyword order;
//  3. runs the lookups through runner.Run with a bounded worker count;
//  4. hands every outcome to the HistoryWriter and returns summary counters.
//
// A lookup error never fails the run: the task is counted as failed and
// recorded with no rank. Only the preconditions (credentials, products,
// keywords) and history persistence can fail a run.
//
// Concurrent runs are not serialized against each other; each appends its
// own samples.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/config"
	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/runner"
	"github.com/tbourn/go-rank-tracker/internal/search"
)

// RankLookup locates a product in a keyword's search results.
type RankLookup interface {
	FindRank(ctx context.Context, creds search.Credentials, keyword, targetID string) (search.Result, error)
}

// ProductLister loads products with their keywords.
type ProductLister interface {
	ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error)
}

// CredentialSource resolves stored search credentials.
type CredentialSource interface {
	GetAPIConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.APIConfig, error)
	GetAnyAPIConfig(ctx context.Context, db *gorm.DB) (*domain.APIConfig, error)
}

// HistorySink persists refresh outcomes and reports the chunks written.
type HistorySink interface {
	Write(ctx context.Context, rows []SampleRow) (int, error)
}

// RefreshTask is one (product, keyword) lookup of a run.
type RefreshTask struct {
	ProductID  string
	ExternalID string
	Keyword    string
}

// RefreshOutcome is a task with its result. OK is false when the upstream
// call itself failed; Rank is nil when nothing was found or the call failed.
type RefreshOutcome struct {
	RefreshTask
	Rank *int
	OK   bool
	Err  error
}

// RefreshStats describes the size of a run.
type RefreshStats struct {
	Products    int `json:"products"`
	Keywords    int `json:"keywords"`
	Concurrency int `json:"concurrency"`
	Batches     int `json:"batches"`
}

// RefreshSummary is returned to the caller of a run. SuccessCount,
// NotFoundCount and FailedCount add up to TotalTasks.
type RefreshSummary struct {
	Success       bool         `json:"success"`
	TotalTasks    int          `json:"totalTasks"`
	SuccessCount  int          `json:"successCount"`
	FailedCount   int          `json:"failedCount"`
	NotFoundCount int          `json:"notFoundCount"`
	DurationMs    int64        `json:"durationMs"`
	Stats         RefreshStats `json:"stats"`
}

// RefreshService runs rank refreshes.
type RefreshService struct {
	DB          *gorm.DB
	Products    ProductLister
	Credentials CredentialSource
	Lookup      RankLookup
	History     HistorySink

	// Concurrency is the requested worker count; clamped per run.
	Concurrency int
}

// NewRefreshService constructs a RefreshService.
func NewRefreshService(db *gorm.DB, products ProductLister, creds CredentialSource, lookup RankLookup, history HistorySink, concurrency int) *RefreshService {
	return &RefreshService{
		DB:          db,
		Products:    products,
		Credentials: creds,
		Lookup:      lookup,
		History:     history,
		Concurrency: concurrency,
	}
}

// Refresh performs one run for actorID. An empty actorID refreshes every
// product using any stored credential. Cancellation of ctx does not stop a
// run that has started; its trace and logger values are kept.
func (s *RefreshService) Refresh(ctx context.Context, actorID string) (*RefreshSummary, error) {
	ctx = context.WithoutCancel(ctx)
	tr := otel.Tracer("services/RefreshService")
	ctx, span := tr.Start(ctx, "Refresh",
		trace.WithAttributes(attribute.String("user.id", actorID)),
	)
	defer span.End()

	lg := loggerFrom(ctx).With().Str("component", "refresh").Str("user_id", actorID).Logger()
	start := time.Now()

	creds, err := s.resolveCredentials(ctx, actorID)
	if err != nil {
		return nil, s.abort(span, err)
	}

	products, err := s.Products.ListProducts(ctx, s.DB, actorID, 0, 0)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("load products: %w", err))
	}
	if len(products) == 0 {
		return nil, s.abort(span, ErrNoProducts)
	}
	tasks := BuildTasks(products)
	if len(tasks) == 0 {
		return nil, s.abort(span, ErrNoKeywords)
	}

	conc := runner.Workers(config.ClampWorkers(s.Concurrency, config.DefaultRefreshConcurrency), len(tasks))
	span.SetAttributes(
		attribute.Int("refresh.tasks", len(tasks)),
		attribute.Int("refresh.concurrency", conc),
	)
	lg.Info().
		Int("products", len(products)).
		Int("tasks", len(tasks)).
		Int("concurrency", conc).
		Int("client_id_len", len(creds.ClientID)).
		Msg("refresh started")

	outcomes := runner.Run(ctx, tasks, conc, func(ctx context.Context, t RefreshTask) RefreshOutcome {
		return s.lookup(ctx, lg, creds, t)
	})

	sum := &RefreshSummary{
		TotalTasks: len(tasks),
		Stats: RefreshStats{
			Products:    len(products),
			Keywords:    len(tasks),
			Concurrency: conc,
		},
	}
	rows := make([]SampleRow, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case !o.OK:
			sum.FailedCount++
			refreshTasks.WithLabelValues("failed").Inc()
		case o.Rank == nil:
			sum.NotFoundCount++
			refreshTasks.WithLabelValues("not_found").Inc()
		default:
			sum.SuccessCount++
			refreshTasks.WithLabelValues("found").Inc()
		}
		rows = append(rows, SampleRow{ProductID: o.ProductID, Keyword: o.Keyword, Rank: o.Rank})
	}

	batches, err := s.History.Write(ctx, rows)
	sum.Stats.Batches = batches
	if err != nil {
		lg.Error().Err(err).Int("batches_written", batches).Msg("refresh history write failed")
		return nil, s.fail(span, err)
	}

	elapsed := time.Since(start)
	sum.Success = true
	sum.DurationMs = elapsed.Milliseconds()
	refreshRuns.WithLabelValues("ok").Inc()
	refreshDuration.Observe(elapsed.Seconds())

	span.SetAttributes(
		attribute.Int("refresh.found", sum.SuccessCount),
		attribute.Int("refresh.not_found", sum.NotFoundCount),
		attribute.Int("refresh.failed", sum.FailedCount),
	)
	lg.Info().
		Int("total", sum.TotalTasks).
		Int("found", sum.SuccessCount).
		Int("not_found", sum.NotFoundCount).
		Int("failed", sum.FailedCount).
		Int("batches", batches).
		Dur("duration", elapsed).
		Msg("refresh finished")
	return sum, nil
}

// lookup runs one task and converts any error into outcome data.
func (s *RefreshService) lookup(ctx context.Context, lg zerolog.Logger, creds search.Credentials, t RefreshTask) RefreshOutcome {
	out := RefreshOutcome{RefreshTask: t}
	res, err := s.Lookup.FindRank(ctx, creds, t.Keyword, t.ExternalID)
	if err != nil {
		out.Err = err
		lg.Warn().Err(err).
			Str("product_id", t.ProductID).
			Str("keyword", t.Keyword).
			Msg("rank lookup failed")
		return out
	}
	out.OK = true
	if res.Found {
		rank := res.Rank
		out.Rank = &rank
	}
	lg.Debug().
		Str("product_id", t.ProductID).
		Str("keyword", t.Keyword).
		Bool("found", res.Found).
		Int("rank", res.Rank).
		Int("pages", res.Pages).
		Msg("rank lookup")
	return out
}

// resolveCredentials prefers the actor's own usable record.
func (s *RefreshService) resolveCredentials(ctx context.Context, actorID string) (search.Credentials, error) {
	if actorID != "" {
		c, err := s.Credentials.GetAPIConfig(ctx, s.DB, actorID)
		switch {
		case err == nil && c.Usable():
			return search.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}, nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return search.Credentials{}, fmt.Errorf("load credentials: %w", err)
		}
	}
	c, err := s.Credentials.GetAnyAPIConfig(ctx, s.DB)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !c.Usable()) {
		return search.Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return search.Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	return search.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}, nil
}

// abort records a precondition failure.
func (s *RefreshService) abort(span trace.Span, err error) error {
	if !isPrecondition(err) {
		return s.fail(span, err)
	}
	refreshRuns.WithLabelValues("precondition").Inc()
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *RefreshService) fail(span trace.Span, err error) error {
	refreshRuns.WithLabelValues("error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func isPrecondition(err error) bool {
	return errors.Is(err, ErrNoCredentials) || errors.Is(err, ErrNoProducts) || errors.Is(err, ErrNoKeywords)
}

// BuildTasks expands products into one task per keyword, in product order
// and then keyword order.
func BuildTasks(products []domain.Product) []RefreshTask {
	var tasks []RefreshTask
	for _, p := range products {
		for _, k := range p.Keywords {
			tasks = append(tasks, RefreshTask{
				ProductID:  p.ID,
				ExternalID: p.ExternalID,
				Keyword:    k.Text,
			})
		}
	}
	return tasks
}

// loggerFrom returns the logger carried by ctx, or the global logger.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
