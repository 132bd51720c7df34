// Keyword HTTP handlers.
//
//   - POST   /products/{id}/keywords          (add)
//   - DELETE /products/{id}/keywords?keyword= (remove; history is kept)
//   - PUT    /products/{id}/keywords/order    (reorder)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rank-tracker/internal/services"
)

// AddKeywordRequest is the JSON payload for adding a keyword.
type AddKeywordRequest struct {
	Keyword string `json:"keyword" binding:"required" example:"trail shoes"`
}

// KeywordOrderItem assigns a display order to one keyword.
type KeywordOrderItem struct {
	Keyword string `json:"keyword" example:"trail shoes"`
	Order   int    `json:"order" example:"0"`
}

// AddKeyword godoc
// @ID          addKeyword
// @Summary     Add a keyword
// @Description Attaches a search keyword to a product owned by the current user.
// @Tags        Keywords
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
// @Param       body       body    handlers.AddKeywordRequest  true  "Keyword"
//
// @Success     201  {object} domain.Keyword
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Failure     409  {object} handlers.ErrorResponse "Keyword already registered"
// @Router      /products/{id}/keywords [post]
func (h *Handlers) AddKeyword(c *gin.Context) {
	id, okID := productIDParam(c)
	if !okID {
		return
	}
	var req AddKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "keyword required")
		return
	}
	kw, err := h.keywordSvc.Add(c.Request.Context(), userID(c), id, req.Keyword)
	if err != nil {
		failFor(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, kw)
}

// RemoveKeyword godoc
// @ID          removeKeyword
// @Summary     Remove a keyword
// @Description Detaches a keyword from a product. Recorded history for the keyword is kept.
// @Tags        Keywords
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
// @Param       keyword    query   string  true  "Keyword text"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Product or keyword not found"
// @Router      /products/{id}/keywords [delete]
func (h *Handlers) RemoveKeyword(c *gin.Context) {
	id, okID := productIDParam(c)
	if !okID {
		return
	}
	text := c.Query("keyword")
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "keyword query parameter required")
		return
	}
	if err := h.keywordSvc.Remove(c.Request.Context(), userID(c), id, text); err != nil {
		failFor(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}

// ReorderKeywords godoc
// @ID          reorderKeywords
// @Summary     Reorder keywords
// @Description Sets the display order of a product's keywords and returns them in the new order.
// @Tags        Keywords
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
// @Param       body       body    []handlers.KeywordOrderItem  true  "New orders"
//
// @Success     200  {array}  domain.Keyword
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id}/keywords/order [put]
func (h *Handlers) ReorderKeywords(c *gin.Context) {
	id, okID := productIDParam(c)
	if !okID {
		return
	}
	var req []KeywordOrderItem
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "expected an array of {keyword, order}")
		return
	}
	orders := make([]services.KeywordOrder, 0, len(req))
	for _, it := range req {
		orders = append(orders, services.KeywordOrder{Keyword: it.Keyword, Order: it.Order})
	}
	kws, err := h.keywordSvc.Reorder(c.Request.Context(), userID(c), id, orders)
	if err != nil {
		failFor(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, kws)
}
