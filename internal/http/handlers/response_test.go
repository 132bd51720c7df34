package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-rank-tracker/internal/services"
)

func serveOnce(mw gin.HandlerFunc, h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func withRequestID(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func TestFail_ServerErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w := serveOnce(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	}, func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeRefreshFailed, "history write failed")
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeRefreshFailed {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), ErrCodeRefreshFailed) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func TestFail_ClientErrorIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w := serveOnce(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	}, func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})

	if w.Code != http.StatusNotFound || buf.Len() != 0 {
		t.Fatalf("status=%d log=%q", w.Code, buf.String())
	}
}

func TestFailFor_StatusAndCodeMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
		{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrProductNotFound, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("remove: %w", services.ErrKeywordNotFound), http.StatusNotFound, ErrCodeNotFound},
		{services.ErrDuplicateProduct, http.StatusConflict, ErrCodeConflict},
		{services.ErrDuplicateKeyword, http.StatusConflict, ErrCodeConflict},
		{services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrNoCredentials, http.StatusBadRequest, ErrCodeNoCredentials},
		{services.ErrNoProducts, http.StatusBadRequest, ErrCodeNoProducts},
		{services.ErrNoKeywords, http.StatusBadRequest, ErrCodeNoKeywords},
		{errors.New("disk full"), http.StatusInternalServerError, ErrCodeRefreshFailed},
	}
	for _, tc := range cases {
		w := serveOnce(withRequestID("rid"), func(c *gin.Context) {
			failFor(c, tc.err, ErrCodeRefreshFailed)
		})
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%v: json: %v", tc.err, err)
		}
		if w.Code != tc.status || resp.Code != tc.code || resp.RequestID != "rid" {
			t.Errorf("%v: got %d/%s, want %d/%s", tc.err, w.Code, resp.Code, tc.status, tc.code)
		}
	}
}

func TestSuccessHelpers(t *testing.T) {
	w := serveOnce(withRequestID("rid"), func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"external_id": "8842771"})
	})
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"external_id":"8842771"`) {
		t.Fatalf("ok: %d %s", w.Code, w.Body.String())
	}

	w = serveOnce(withRequestID("rid"), func(c *gin.Context) { noContent(c) })
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent: %d %q", w.Code, w.Body.String())
	}
}
