package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Scope context keys
const (
	TenantIDKey = "scope_tenant_id"
	StoreIDKey  = "scope_store_id"
)

// ResolveStore extracts the acting store for store-scoped routes.
// Staff and store managers are pinned to the store in their token;
// tenant admins and super admins pick one with the X-Store-ID header.
func ResolveStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortAuth(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		raw := claims.StoreID
		if raw == "" {
			raw = c.GetHeader("X-Store-ID")
		}
		if raw == "" {
			abortWithCode(c, http.StatusBadRequest, "STORE_NOT_RESOLVED", "Acting store could not be resolved")
			return
		}

		storeID, err := uuid.Parse(raw)
		if err != nil {
			abortWithCode(c, http.StatusBadRequest, "STORE_NOT_RESOLVED", "Invalid store ID")
			return
		}

		c.Set(StoreIDKey, storeID)
		c.Next()
	}
}

// GetTenantID returns the resolved tenant ID, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetStoreID returns the resolved store ID, or uuid.Nil
func GetStoreID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(StoreIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
