// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Every error response carries an HTTP status and one of
// these codes inside the ErrorResponse envelope:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "no_credentials",
//	  "message": "search API credentials are not configured"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Refresh preconditions and failures:
	ErrCodeNoCredentials = "no_credentials"
	ErrCodeNoProducts    = "no_products"
	ErrCodeNoKeywords    = "no_keywords"
	ErrCodeRefreshFailed = "refresh_failed"

	// Persistence failures on the CRUD surface:
	ErrCodeCreateFailed = "create_failed"
	ErrCodeUpdateFailed = "update_failed"
	ErrCodeListFailed   = "list_failed"
)
