package middleware

import (
	"net/http"
	"strings"

	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/dispensa/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth validates the bearer token and stores the claims in the
// request context.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortAuth(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortAuth(c, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}

		token := strings.TrimPrefix(header, BearerPrefix)
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				abortAuth(c, "TOKEN_EXPIRED", "Token has expired")
			default:
				abortAuth(c, "INVALID_TOKEN", "Invalid token")
			}
			return
		}

		c.Set(ClaimsKey, claims)

		if claims.TenantID != "" {
			ctx := c.Request.Context()
			ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), claims.TenantID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetClaims retrieves the validated claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// RequireSuperAdmin restricts a route to platform admins
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortAuth(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !claims.IsSuperAdmin() {
			abortForbidden(c, "Super admin access required")
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route to the named roles. Super admins
// always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortAuth(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		if claims.IsSuperAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abortForbidden(c, "Insufficient role for this operation")
	}
}

// ResolveTenant extracts the acting tenant: the token's tenant for
// tenant-bound users, or the X-Tenant-ID header for super admins
// operating on behalf of a tenant.
func ResolveTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortAuth(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		raw := claims.TenantID
		if claims.IsSuperAdmin() {
			if header := c.GetHeader("X-Tenant-ID"); header != "" {
				raw = header
			}
		}
		if raw == "" {
			abortWithCode(c, http.StatusBadRequest, "TENANT_NOT_RESOLVED", "Acting tenant could not be resolved")
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			abortWithCode(c, http.StatusBadRequest, "TENANT_NOT_RESOLVED", "Invalid tenant ID")
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func abortAuth(c *gin.Context, code, message string) {
	abortWithCode(c, http.StatusUnauthorized, code, message)
}

func abortForbidden(c *gin.Context, message string) {
	abortWithCode(c, http.StatusForbidden, "FORBIDDEN", message)
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
