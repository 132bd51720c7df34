// Package handlers holds the Gin handlers of the rank tracker API.
//
// Every failure leaves through fail, which writes the ErrorResponse envelope
// and logs 5xx responses with the request-scoped logger:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "no_keywords",
//	  "message": "no keywords to refresh"
//	}
//
// failFor translates service errors into that envelope so individual
// handlers only name the code used for unexpected failures.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rank-tracker/internal/http/middleware"
	"github.com/tbourn/go-rank-tracker/internal/services"
)

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts with an ErrorResponse. Statuses >= 500 are logged.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is fail for the router's NoRoute and NoMethod handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// failFor maps a service error to its status and code. Unknown errors become
// a 500 carrying fallbackCode.
func failFor(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "X-User-ID header required")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrKeywordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateProduct), errors.Is(err, services.ErrDuplicateKeyword):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrNoCredentials):
		fail(c, http.StatusBadRequest, ErrCodeNoCredentials, err.Error())
	case errors.Is(err, services.ErrNoProducts):
		fail(c, http.StatusBadRequest, ErrCodeNoProducts, err.Error())
	case errors.Is(err, services.ErrNoKeywords):
		fail(c, http.StatusBadRequest, ErrCodeNoKeywords, err.Error())
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
