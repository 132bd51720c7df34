// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting, the
// rank-refresh pipeline, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // HISTORY_TIMEZONE must resolve on hosts without zoneinfo
)

// Refresh pipeline bounds.
const (
	DefaultRefreshConcurrency = 5
	MaxRefreshConcurrency     = 10

	DefaultUpstreamTimeout = 5000 * time.Millisecond
	MinUpstreamTimeout     = 1000 * time.Millisecond

	DefaultPageDelay = 50 * time.Millisecond

	DefaultHistoryBatchSize = 500
	MaxHistoryBatchSize     = 1000
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-rank-tracker")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// SearchConfig configures the upstream shopping search client.
type SearchConfig struct {
	BaseURL   string        // NAVER_API_BASE_URL
	Timeout   time.Duration // NAVER_API_TIMEOUT_MS, floor 1s
	PageDelay time.Duration // RANK_PAGE_DELAY_MS, pause between pages of one lookup
}

// RefreshConfig configures the rank-refresh batch pipeline.
type RefreshConfig struct {
	Concurrency int // RANK_REFRESH_CONCURRENCY in [1..10]
	BatchSize   int // HISTORY_BATCH_SIZE in [1..1000]
}

// HistoryConfig bounds the rank history read path.
type HistoryConfig struct {
	LookbackDays int            // HISTORY_LOOKBACK_DAYS
	RowLimit     int            // HISTORY_ROW_LIMIT per product
	MaxDays      int            // HISTORY_MAX_DAYS distinct days in a series
	Location     *time.Location // HISTORY_TIMEZONE for calendar-day bucketing
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 120s; refresh runs synchronously
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath string // SQLite path

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Rank tracking
	Search  SearchConfig
	Refresh RefreshConfig
	History HistoryConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "ranks.db"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Rank tracking
		Search: SearchConfig{
			BaseURL:   getenv("NAVER_API_BASE_URL", "https://openapi.naver.com/v1/search/shop.json"),
			Timeout:   UpstreamTimeout(getint("NAVER_API_TIMEOUT_MS", int(DefaultUpstreamTimeout/time.Millisecond))),
			PageDelay: PageDelay(getint("RANK_PAGE_DELAY_MS", int(DefaultPageDelay/time.Millisecond))),
		},
		Refresh: RefreshConfig{
			Concurrency: ClampConcurrency(getenv("RANK_REFRESH_CONCURRENCY", ""), DefaultRefreshConcurrency),
			BatchSize:   BatchSize(getint("HISTORY_BATCH_SIZE", DefaultHistoryBatchSize)),
		},
		History: HistoryConfig{
			LookbackDays: getint("HISTORY_LOOKBACK_DAYS", 120),
			RowLimit:     getint("HISTORY_ROW_LIMIT", 2000),
			MaxDays:      getint("HISTORY_MAX_DAYS", 120),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-rank-tracker"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Search.BaseURL) == "" {
		return cfg, errors.New("NAVER_API_BASE_URL must not be empty")
	}
	if cfg.History.LookbackDays <= 0 || cfg.History.RowLimit <= 0 || cfg.History.MaxDays <= 0 {
		return cfg, errors.New("HISTORY_LOOKBACK_DAYS, HISTORY_ROW_LIMIT and HISTORY_MAX_DAYS must be > 0")
	}
	loc, err := time.LoadLocation(getenv("HISTORY_TIMEZONE", "Asia/Seoul"))
	if err != nil {
		return cfg, errors.New("HISTORY_TIMEZONE must be a valid IANA time zone")
	}
	cfg.History.Location = loc
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ClampConcurrency parses a raw worker count. Empty, non-numeric, zero or
// negative input yields def; values above MaxRefreshConcurrency are capped.
func ClampConcurrency(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = def
	}
	return ClampWorkers(n, def)
}

// ClampWorkers applies the same rule to an already parsed count.
func ClampWorkers(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n > MaxRefreshConcurrency {
		n = MaxRefreshConcurrency
	}
	if n < 1 {
		n = 1
	}
	return n
}

// UpstreamTimeout converts milliseconds to a per-request timeout, never
// below MinUpstreamTimeout.
func UpstreamTimeout(ms int) time.Duration {
	d := time.Duration(ms) * time.Millisecond
	if d < MinUpstreamTimeout {
		return MinUpstreamTimeout
	}
	return d
}

// PageDelay converts milliseconds to the inter-page pause; negatives become 0.
func PageDelay(ms int) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// BatchSize bounds the history insert chunk size.
func BatchSize(n int) int {
	if n <= 0 {
		return DefaultHistoryBatchSize
	}
	if n > MaxHistoryBatchSize {
		return MaxHistoryBatchSize
	}
	return n
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
