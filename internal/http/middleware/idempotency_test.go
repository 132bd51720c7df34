package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type lookupCall struct {
	userID, scope, key string
}

func idemRouter(scope string, lookup IdempotencyLookup) (*gin.Engine, *struct {
	key    string
	replay bool
	bypass bool
}) {
	gin.SetMode(gin.TestMode)
	seen := &struct {
		key    string
		replay bool
		bypass bool
	}{}
	r := gin.New()
	r.Use(Actor(), IdempotencyValidator(IdempotencyOptions{
		MaxLen: 16,
		Scope:  func(*gin.Context) string { return scope },
	}, lookup))
	r.POST("/ranks/refresh", func(c *gin.Context) {
		seen.key, _ = GetIdempotencyKey(c)
		seen.replay = IsReplay(c)
		seen.bypass = IsRateBypass(c)
		c.Status(http.StatusOK)
	})
	return r, seen
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	called := false
	r, seen := idemRouter("ranks.refresh", func(context.Context, string, string, string, time.Time) (bool, error) {
		called = true
		return true, nil
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil))
	if w.Code != http.StatusOK || called || seen.key != "" || seen.replay {
		t.Fatalf("code=%d called=%v seen=%+v", w.Code, called, seen)
	}
}

func TestIdempotency_RejectsBadKeys(t *testing.T) {
	r, _ := idemRouter("ranks.refresh", nil)
	for _, key := range []string{"has space", "semi;colon", strings.Repeat("k", 17)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: code=%d body=%s", key, w.Code, w.Body.String())
		}
	}
}

func TestIdempotency_ReplayLookupScopedToActor(t *testing.T) {
	var calls []lookupCall
	r, seen := idemRouter("ranks.refresh", func(_ context.Context, userID, scope, key string, now time.Time) (bool, error) {
		calls = append(calls, lookupCall{userID, scope, key})
		if now.Location() != time.UTC {
			t.Errorf("lookup time should be UTC")
		}
		return userID == "u1", nil
	})

	req := httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil)
	req.Header.Set(HeaderIdempotencyKey, "run-1")
	req.Header.Set(HeaderUserID, "u1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !seen.replay || !seen.bypass || seen.key != "run-1" {
		t.Fatalf("expected replay for u1, seen=%+v", seen)
	}

	req = httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil)
	req.Header.Set(HeaderIdempotencyKey, "run-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if seen.replay || seen.bypass {
		t.Fatalf("anonymous caller must not replay u1's run, seen=%+v", seen)
	}

	want := []lookupCall{{"u1", "ranks.refresh", "run-1"}, {"", "ranks.refresh", "run-1"}}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("lookup calls = %+v; want %+v", calls, want)
	}
}

func TestIdempotency_EmptyScopeSkipsLookup(t *testing.T) {
	called := false
	r, seen := idemRouter("", func(context.Context, string, string, string, time.Time) (bool, error) {
		called = true
		return true, nil
	})
	req := httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if called || seen.replay || seen.key != "k1" {
		t.Fatalf("called=%v seen=%+v", called, seen)
	}
}

func TestIdempotency_LookupErrorDoesNotBlock(t *testing.T) {
	r, seen := idemRouter("ranks.refresh", func(context.Context, string, string, string, time.Time) (bool, error) {
		return false, errors.New("db down")
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ranks/refresh", nil)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || seen.replay {
		t.Fatalf("code=%d seen=%+v", w.Code, seen)
	}
}
