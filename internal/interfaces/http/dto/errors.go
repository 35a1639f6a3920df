package dto

import (
	"net/http"
	"strings"
)

// Error codes produced outside the domain layer
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing here fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInternal:     http.StatusInternalServerError,

	"ALREADY_EXISTS":     http.StatusConflict,
	"DUPLICATE_SKU":      http.StatusConflict,
	"AMBIGUOUS_ROW_KEY":  http.StatusConflict,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED":  http.StatusUnprocessableEntity,
	"NO_ITEMS":           http.StatusUnprocessableEntity,
	"ITEM_NOT_FOUND":     http.StatusNotFound,
	"RESTRICTED_QUERY":   http.StatusForbidden,
	"PROTECTED_TABLE":    http.StatusForbidden,
	"UPSTREAM_FAILURE":   http.StatusBadGateway,
	"STORE_NOT_RESOLVED": http.StatusBadRequest,
	"FILE_TOO_LARGE":     http.StatusRequestEntityTooLarge,
	"AUDIO_TOO_LARGE":    http.StatusRequestEntityTooLarge,
	"EMPTY_FILE":         http.StatusBadRequest,
	"MISSING_HEADER":     http.StatusBadRequest,
	"NO_DATA_ROWS":       http.StatusBadRequest,
	"MISSING_COLUMN":     http.StatusBadRequest,
	"TOKEN_EXPIRED":      http.StatusUnauthorized,
	"INVALID_TOKEN":      http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// INVALID_* codes default to 400; anything unknown is a 500 so bugs
// surface instead of hiding behind client errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
