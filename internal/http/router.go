// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, compression, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-rank-tracker/docs"
	"github.com/tbourn/go-rank-tracker/internal/config"
	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/http/handlers"
	"github.com/tbourn/go-rank-tracker/internal/http/middleware"
	"github.com/tbourn/go-rank-tracker/internal/repo"
	"github.com/tbourn/go-rank-tracker/internal/services"
)

// repoShim adapts the repository free functions to the repository
// interfaces of the services package.
type repoShim struct{}

func (repoShim) CreateProduct(ctx context.Context, db *gorm.DB, userID, externalID, name string, order int) (*domain.Product, error) {
	return repo.CreateProduct(ctx, db, userID, externalID, name, order)
}
func (repoShim) GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	return repo.GetProduct(ctx, db, id)
}
func (repoShim) FindProductByExternalID(ctx context.Context, db *gorm.DB, userID, externalID string) (*domain.Product, error) {
	return repo.FindProductByExternalID(ctx, db, userID, externalID)
}
func (repoShim) ListProducts(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Product, error) {
	return repo.ListProducts(ctx, db, userID, offset, limit)
}
func (repoShim) CountProducts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountProducts(ctx, db, userID)
}
func (repoShim) UpdateProduct(ctx context.Context, db *gorm.DB, id string, patch repo.ProductPatch) error {
	return repo.UpdateProduct(ctx, db, id, patch)
}
func (repoShim) DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteProduct(ctx, db, id)
}
func (repoShim) NextProductOrder(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	return repo.NextProductOrder(ctx, db, userID)
}
func (repoShim) CountRankSamples(ctx context.Context, db *gorm.DB, ids []string) (map[string]int64, error) {
	return repo.CountRankSamples(ctx, db, ids)
}
func (repoShim) ProductsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return repo.ProductsStats(ctx, db, userID)
}
func (repoShim) KeywordsCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.KeywordsCount(ctx, db, userID)
}
func (repoShim) RankSamplesCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.RankSamplesCount(ctx, db, userID)
}
func (repoShim) AddKeyword(ctx context.Context, db *gorm.DB, productID, text string) (*domain.Keyword, error) {
	return repo.AddKeyword(ctx, db, productID, text)
}
func (repoShim) ListKeywords(ctx context.Context, db *gorm.DB, productID string) ([]domain.Keyword, error) {
	return repo.ListKeywords(ctx, db, productID)
}
func (repoShim) DeleteKeyword(ctx context.Context, db *gorm.DB, productID, text string) error {
	return repo.DeleteKeyword(ctx, db, productID, text)
}
func (repoShim) ReorderKeywords(ctx context.Context, db *gorm.DB, productID string, orders map[string]int) error {
	return repo.ReorderKeywords(ctx, db, productID, orders)
}
func (repoShim) GetAPIConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.APIConfig, error) {
	return repo.GetAPIConfig(ctx, db, userID)
}
func (repoShim) GetAnyAPIConfig(ctx context.Context, db *gorm.DB) (*domain.APIConfig, error) {
	return repo.GetAnyAPIConfig(ctx, db)
}
func (repoShim) UpsertAPIConfig(ctx context.Context, db *gorm.DB, userID, clientID, clientSecret string) (*domain.APIConfig, error) {
	return repo.UpsertAPIConfig(ctx, db, userID, clientID, clientSecret)
}
func (repoShim) InsertRankSamples(ctx context.Context, db *gorm.DB, rows []domain.RankSample) error {
	return repo.InsertRankSamples(ctx, db, rows)
}
func (repoShim) ListRankSamples(ctx context.Context, db *gorm.DB, productID string, since time.Time, limit int) ([]domain.RankSample, error) {
	return repo.ListRankSamples(ctx, db, productID, since, limit)
}

// idemStore implements handlers.IdempotencyStore on the idempotency table.
type idemStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s idemStore) Get(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
}

func (s idemStore) Save(ctx context.Context, userID, scope, key, response string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, response, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent retry stored it first; both carry a completed run.
		return nil
	}
	return err
}

// exists reports whether an unexpired record is stored.
func (s idemStore) exists(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	rec, err := s.Get(ctx, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath. lookup performs
// the upstream rank searches of refresh runs.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Actor: resolve X-User-ID once
//  6. Body size limiter
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS, compression and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, lookup services.RankLookup, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath
	refreshPath := joinPath(apiBase, "/ranks/refresh")

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(middleware.Actor())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	idem := idemStore{db: db, ttl: cfg.IdempotencyTTL}
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == refreshPath {
					return handlers.ScopeRefresh
				}
				return ""
			},
		},
		idem.exists,
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS.AllowedOrigins)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/lookup
	shim := repoShim{}
	history := services.NewHistoryWriter(db, shim, cfg.Refresh.BatchSize)
	h := handlers.New(handlers.Services{
		Products: services.NewProductService(db, shim),
		Keywords: services.NewKeywordService(db, shim),
		Ranks: services.NewRankService(db, shim,
			cfg.History.LookbackDays, cfg.History.RowLimit, cfg.History.MaxDays, cfg.History.Location),
		Refresh:     services.NewRefreshService(db, shim, shim, lookup, history, cfg.Refresh.Concurrency),
		Settings:    services.NewSettingsService(db, shim),
		Idempotency: idem,
	})

	api := groupWithPrefix(r, apiBase)
	{
		// Products
		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		// Keywords
		api.POST("/products/:id/keywords", h.AddKeyword)
		api.DELETE("/products/:id/keywords", h.RemoveKeyword)
		api.PUT("/products/:id/keywords/order", h.ReorderKeywords)

		// Ranks
		api.GET("/ranks", h.GetRanks)
		api.POST("/ranks/refresh", h.RefreshRanks)

		// Settings (credentials are never cached)
		settings := api.Group("/settings", middleware.SecurityHeaders(middleware.SecurityOptions{NoStore: true}))
		settings.GET("", h.GetSettings)
		settings.POST("", h.SaveSettings)
	}
}

// useCORS installs gin-contrib/cors. With no allowlist every origin is
// accepted without credentials; otherwise allowed origins are echoed.
func useCORS(r *gin.Engine, origins []string) {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders:    []string{"X-Request-ID", "ETag", handlers.HeaderReplayed, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		base.AllowAllOrigins = true
		r.Use(cors.New(base))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	base.AllowOrigins = origins
	r.Use(cors.New(base))
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return prefix + p
}
