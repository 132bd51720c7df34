// Product HTTP handlers.
//
// This file exposes REST endpoints for product resources:
//   - GET    /products        (list, paginated, ETag support)
//   - POST   /products        (create)
//   - PUT    /products/{id}   (partial update, owner only)
//   - DELETE /products/{id}   (delete with keywords and history, owner only)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-rank-tracker/internal/domain"
	"github.com/tbourn/go-rank-tracker/internal/services"
)

// CreateProductRequest is the JSON payload for registering a product.
type CreateProductRequest struct {
	// ExternalID is the marketplace product id matched against search results.
	ExternalID string `json:"external_id" binding:"required" example:"8842771203"`
	// Name is the display name (1-255 chars).
	Name string `json:"name" binding:"required" example:"Trail running shoes"`
}

// UpdateProductRequest is the JSON payload for a partial product update.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	ExternalID *string `json:"external_id,omitempty" example:"8842771203"`
	Name       *string `json:"name,omitempty" example:"Trail running shoes v2"`
	Order      *int    `json:"order,omitempty" example:"3"`
}

// ProductView is a product with the number of rank samples stored for it.
type ProductView struct {
	domain.Product
	SampleCount int64 `json:"sample_count"`
}

// ListProductsResponse wraps a page of products and pagination information.
type ListProductsResponse struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List products (paginated)
// @Description Returns a page of products with their ordered keywords and sample counts. Anonymous callers see at most 100 products. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Products
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID"                      example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"abc123\")
// @Param       userId         query   string  false "Restrict to one owner"
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListProductsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	uid := scopeUser(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if fp, err := h.productSvc.Fingerprint(ctx, uid); err == nil {
		etag := fmt.Sprintf(`W/"%s:%d:%d"`, fp, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.productSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	counts, err := h.productSvc.SampleCounts(ctx, items)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	views := make([]ProductView, 0, len(items))
	for _, p := range items {
		if p.Keywords == nil {
			p.Keywords = []domain.Keyword{}
		}
		views = append(views, ProductView{Product: p, SampleCount: counts[p.ID]})
	}
	ok(c, http.StatusOK, ListProductsResponse{
		Products:   views,
		Pagination: newPagination(page, pageSize, total),
	})
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Register a product
// @Description Registers a product for the current user at the end of their list.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       body       body    handlers.CreateProductRequest  true  "Product payload"
//
// @Success     201  {object}  domain.Product
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing X-User-ID"
// @Failure     409  {object}  handlers.ErrorResponse  "External id already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "external_id and name required")
		return
	}
	p, err := h.productSvc.Create(c.Request.Context(), userID(c), req.ExternalID, req.Name)
	if err != nil {
		failFor(c, err, ErrCodeCreateFailed)
		return
	}
	if p.Keywords == nil {
		p.Keywords = []domain.Keyword{}
	}
	ok(c, http.StatusCreated, p)
}

// UpdateProduct godoc
// @ID          updateProduct
// @Summary     Update a product
// @Description Applies a partial update (name, external id, order) to a product owned by the current user.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateProductRequest  true  "Fields to change"
//
// @Success     200  {object} domain.Product
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Failure     409  {object} handlers.ErrorResponse "External id already registered"
// @Router      /products/{id} [put]
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, okID := productIDParam(c)
	if !okID {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.productSvc.Update(c.Request.Context(), userID(c), id, services.ProductUpdate{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Order:      req.Order,
	})
	if err != nil {
		failFor(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, p)
}

// DeleteProduct godoc
// @ID          deleteProduct
// @Summary     Delete a product
// @Description Deletes a product owned by the current user together with its keywords and rank history.
// @Tags        Products
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     403  {object} handlers.ErrorResponse "Not the owner"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [delete]
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, okID := productIDParam(c)
	if !okID {
		return
	}
	if err := h.productSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		failFor(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}

// productIDParam validates the :id path parameter, failing the request when
// it is not a UUID.
func productIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product id must be a UUID")
		return "", false
	}
	return id, true
}
