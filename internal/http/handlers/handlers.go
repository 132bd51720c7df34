// Package handlers exposes the REST endpoints of the rank tracker:
//   - /products and /products/{id}/keywords (catalogue of tracked products)
//   - /ranks and /ranks/refresh (rank views and refresh runs)
//   - /settings (search API credentials)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses
// and idempotent replays).
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/http/middleware"
	"github.com/tbourn/go-rank-tracker/internal/services"
	"github.com/tbourn/go-rank-tracker/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProductService manages the product catalogue.
type ProductService interface {
	Create(ctx context.Context, userID, externalID, name string) (*domain.Product, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Product, int64, error)
	SampleCounts(ctx context.Context, products []domain.Product) (map[string]int64, error)
	// Fingerprint changes whenever anything ListPage shows for userID changes.
	Fingerprint(ctx context.Context, userID string) (string, error)
	Update(ctx context.Context, userID, id string, upd services.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, userID, id string) error
}

// KeywordService manages the keywords of a product.
type KeywordService interface {
	Add(ctx context.Context, userID, productID, text string) (*domain.Keyword, error)
	Remove(ctx context.Context, userID, productID, text string) error
	Reorder(ctx context.Context, userID, productID string, orders []services.KeywordOrder) ([]domain.Keyword, error)
}

// RankService builds rank views from stored history.
type RankService interface {
	All(ctx context.Context, userID string) ([]services.ProductRanks, error)
	ForProduct(ctx context.Context, userID, externalID string) (*services.ProductRanks, error)
}

// RefreshService performs refresh runs.
type RefreshService interface {
	Refresh(ctx context.Context, actorID string) (*services.RefreshSummary, error)
}

// SettingsService reads and writes search credentials.
type SettingsService interface {
	Get(ctx context.Context, userID string) (services.Settings, error)
	Save(ctx context.Context, userID, clientID, clientSecret string) (services.Settings, error)
}

// IdempotencyStore keeps the responses of completed refresh runs so a retried
// request can be answered without a second run.
type IdempotencyStore interface {
	// Get returns the unexpired record for (userID, scope, key) or an error.
	Get(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	// Save stores a response; it must not overwrite an existing record.
	Save(ctx context.Context, userID, scope, key, response string, status int) error
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
type Services struct {
	Products    ProductService
	Keywords    KeywordService
	Ranks       RankService
	Refresh     RefreshService
	Settings    SettingsService
	Idempotency IdempotencyStore
}

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	productSvc  ProductService
	keywordSvc  KeywordService
	rankSvc     RankService
	refreshSvc  RefreshService
	settingsSvc SettingsService
	idem        IdempotencyStore
}

// New constructs and returns a Handlers instance bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		productSvc:  s.Products,
		keywordSvc:  s.Keywords,
		rankSvc:     s.Ranks,
		refreshSvc:  s.Refresh,
		settingsSvc: s.Settings,
		idem:        s.Idempotency,
	}
}

// userID returns the acting user; empty means anonymous.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}

// scopeUser picks the owner a read is scoped to: the userId query parameter
// when given, else the actor.
func scopeUser(c *gin.Context) string {
	if q := c.Query("userId"); q != "" {
		return q
	}
	return userID(c)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	tp := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: tp,
		HasNext:    page < tp,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
