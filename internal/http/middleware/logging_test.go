package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, asString(c.Value(requestIDKey))) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	gen := w.Header().Get(requestIDHeader)
	if gen == "" || w.Body.String() != gen {
		t.Fatalf("generated id %q not echoed to context (%q)", gen, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("incoming id not reused: %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("a", maxRequestIDLen+1))
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) > maxRequestIDLen {
		t.Fatalf("oversized id should be replaced, got len %d", len(got))
	}
}

func TestRecovery_JSONEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] != "rid-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if strings.Contains(w.Body.String(), "kaboom") {
		t.Fatalf("panic value leaked to client")
	}
}

func TestRecovery_AfterWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	if !strings.HasPrefix(w.Body.String(), "partial") || strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("no envelope expected after a write, got %q", w.Body.String())
	}
}

func TestLoggerFrom_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFrom(c) == nil {
		t.Fatalf("expected fallback logger")
	}
}

func TestTruncateAndRouteLabel(t *testing.T) {
	if truncate("abcdef", 3) != "abc…" || truncate("abc", 3) != "abc" || truncate("abc", 0) != "abc" {
		t.Fatalf("truncate misbehaves")
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got string
	r.GET("/products/:id", func(c *gin.Context) { got = routeLabel(c) })
	r.NoRoute(func(c *gin.Context) { got = routeLabel(c) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))
	if got != "/products/:id" {
		t.Fatalf("matched label = %q", got)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got != "/nope" {
		t.Fatalf("unmatched label = %q", got)
	}
}
