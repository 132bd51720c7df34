// Rank HTTP handlers.
//
//   - GET  /ranks          (rank views of all visible products, or one)
//   - POST /ranks/refresh  (run a refresh; Idempotency-Key replays)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a completed run with
// the same key exists for the same actor, the handler returns the stored
// summary with `Idempotency-Replayed: true` and starts no new run.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rank-tracker/internal/http/middleware"
	"github.com/tbourn/go-rank-tracker/internal/services"
)

// ScopeRefresh is the idempotency scope of refresh runs.
const ScopeRefresh = "ranks.refresh"

// HeaderReplayed marks a response served from the idempotency store.
const HeaderReplayed = "Idempotency-Replayed"

// GetRanks godoc
// @ID          getRanks
// @Summary     Rank views
// @Description Returns per-keyword current and previous rank, delta, and a daily series. With productId (the marketplace id) a single product is returned.
// @Tags        Ranks
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"  example(user123)
// @Param       productId  query   string  false "Marketplace product id"
// @Param       userId     query   string  false "Restrict to one owner"
//
// @Success     200  {array}  services.ProductRanks
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ranks [get]
func (h *Handlers) GetRanks(c *gin.Context) {
	ctx := c.Request.Context()
	uid := scopeUser(c)

	if pid := c.Query("productId"); pid != "" {
		pr, err := h.rankSvc.ForProduct(ctx, uid, pid)
		if err != nil {
			failFor(c, err, ErrCodeListFailed)
			return
		}
		ok(c, http.StatusOK, pr)
		return
	}

	all, err := h.rankSvc.All(ctx, uid)
	if err != nil {
		failFor(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, all)
}

// RefreshRanks godoc
// @ID          refreshRanks
// @Summary     Refresh ranks
// @Description Looks up every (product, keyword) pair in scope against the shopping search API and appends the results to history. Anonymous runs cover all products. Supports idempotent retries via the Idempotency-Key header.
// @Tags        Ranks
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
//
// @Success     200  {object} services.RefreshSummary
// @Header      200  {string} Idempotency-Replayed "true when served from a previous run"
// @Failure     400  {object} handlers.ErrorResponse "no_credentials, no_products or no_keywords"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "refresh_failed"
// @Router      /ranks/refresh [post]
func (h *Handlers) RefreshRanks(c *gin.Context) {
	ctx := c.Request.Context()
	actor := userID(c)

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.idem != nil {
		if rec, err := h.idem.Get(ctx, actor, ScopeRefresh, idemKey, time.Now().UTC()); err == nil && rec != nil {
			c.Header(HeaderReplayed, "true")
			c.Data(rec.Status, "application/json; charset=utf-8", []byte(rec.Response))
			return
		}
	}

	sum, err := h.refreshSvc.Refresh(ctx, actor)
	if err != nil {
		failFor(c, err, ErrCodeRefreshFailed)
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" && h.idem != nil {
		h.remember(c, actor, idemKey, sum)
	}

	ok(c, http.StatusOK, sum)
}

func (h *Handlers) remember(c *gin.Context, actor, key string, sum *services.RefreshSummary) {
	body, err := json.Marshal(sum)
	if err == nil {
		err = h.idem.Save(context.WithoutCancel(c.Request.Context()), actor, ScopeRefresh, key, string(body), http.StatusOK)
	}
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Str("scope", ScopeRefresh).Msg("idempotency store failed")
	}
}
