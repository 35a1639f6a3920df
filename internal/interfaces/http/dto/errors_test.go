package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"RESTRICTED_QUERY", http.StatusForbidden},
		{"PROTECTED_TABLE", http.StatusForbidden},
		{"UPSTREAM_FAILURE", http.StatusBadGateway},
		{"STORE_NOT_RESOLVED", http.StatusBadRequest},
		{"FILE_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"AUDIO_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"QUANTITY_EXCEEDED", http.StatusUnprocessableEntity},
		{"INVALID_FILE_TYPE", http.StatusBadRequest},
		{"INVALID_PROVINCE", http.StatusBadRequest},
		{"INVALID_TENANT_CODE", http.StatusBadRequest},
		{"SOMETHING_UNEXPECTED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}
