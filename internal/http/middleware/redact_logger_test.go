package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLog redirects the global logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRedactingLogger_MasksSecretsAndPII(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/ranks", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ranks?email=jane@example.com&productId=8", nil)
	req.Header.Set("X-Naver-Client-Secret", "topsecret")
	req.Header.Set("X-Api-Key", "k-123")
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("X-Trace", "call 212-555-1212")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, leaked := range []string{"topsecret", "k-123", "Bearer abc", "jane@example.com", "212-555-1212"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, out)
		}
	}
	for _, want := range []string{"[REDACTED]", "[REDACTED:email]", "[REDACTED:phone]", `"path":"/ranks"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q: %s", want, out)
		}
	}
}

func TestRedactingLogger_RequestContextCarriesLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/x", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("from service")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "rid-ctx")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "from service") {
			found = strings.Contains(line, `"request_id":"rid-ctx"`)
		}
	}
	if !found {
		t.Fatalf("service log line lacks request id: %s", buf.String())
	}
}

func TestRedactingLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/err", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("4xx should log at warn: %s", buf.String())
	}
	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/err", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx should log at error: %s", buf.String())
	}
}

func TestRedact_UUIDBeforePhone(t *testing.T) {
	in := "id=123e4567-e89b-12d3-a456-426614174000"
	if got := redact(in); got != "id=[REDACTED:id]" {
		t.Fatalf("redact(%q) = %q", in, got)
	}
}
