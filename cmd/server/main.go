// Command server runs the rank tracker HTTP API.
//
// @title       Rank Tracker API
// @version     1.0
// @description Tracks the search rank of products for their keywords.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/config"
	httpapi "github.com/tbourn/go-rank-tracker/internal/http"
	"github.com/tbourn/go-rank-tracker/internal/observability"
	"github.com/tbourn/go-rank-tracker/internal/repo"
	"github.com/tbourn/go-rank-tracker/internal/search"
	"github.com/tbourn/go-rank-tracker/internal/sysutil"
)

const (
	idempotencySweepEvery = 10 * time.Minute
	shutdownGrace         = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	version := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), "dev")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("path", cfg.DBPath).Msg("database ready")

	lookup := search.New(
		search.WithBaseURL(cfg.Search.BaseURL),
		search.WithTimeout(cfg.Search.Timeout),
		search.WithPageDelay(cfg.Search.PageDelay),
	)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, lookup, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go sweepIdempotency(ctx, db, idempotencySweepEvery)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("version", version).
		Str("api_base", cfg.APIBasePath).
		Int("refresh_concurrency", cfg.Refresh.Concurrency).
		Msg("server started")

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}
	return nil
}

// sweepIdempotency deletes expired idempotency records until ctx ends.
func sweepIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency sweep")
			}
		}
	}
}
