package persistence

import "strings"

// ValidateSortOrder normalizes the sort direction, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the field against a whitelist, falling back to
// defaultField. Sorting is never built from raw client input.
func ValidateSortField(field string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(field)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for catalog products.
var ProductSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"sku":              true,
	"product_name":     true,
	"brand":            true,
	"category":         true,
	"unit_price":       true,
	"last_ingested_at": true,
}

// TenantSortFields contains allowed sort fields for tenants.
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"tier":       true,
}

// TenantUserSortFields contains allowed sort fields for tenant users.
var TenantUserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"name":       true,
	"role":       true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders.
var PurchaseOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_value":  true,
}
