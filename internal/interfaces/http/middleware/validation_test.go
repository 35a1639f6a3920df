package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
	Tier  string `json:"tier" binding:"omitempty,oneof=basic standard premium"`
}

func bindSignup(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetupValidator()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var form signupForm
	return c.ShouldBindJSON(&form)
}

func TestFormatValidationErrorsUsesJSONFieldNames(t *testing.T) {
	err := bindSignup(t, `{"email":"not-an-email","name":"x","tier":"gold"}`)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 3)

	byField := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid email format", byField["email"])
	assert.Equal(t, "Must be at least 2 characters", byField["name"])
	assert.Equal(t, "Must be one of: basic standard premium", byField["tier"])
}

func TestFormatValidationErrorsRequiredFields(t *testing.T) {
	err := bindSignup(t, `{}`)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")

	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	err := bindSignup(t, `{"email":`)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")

	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
}
