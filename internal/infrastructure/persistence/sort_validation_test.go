package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder("  ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("sideways"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "sku", ValidateSortField("sku", ProductSortFields, "product_name"))
	assert.Equal(t, "product_name", ValidateSortField("", ProductSortFields, "product_name"))
	assert.Equal(t, "product_name", ValidateSortField("; DROP TABLE", ProductSortFields, "product_name"))
}

func TestProductSortFieldsMatchColumns(t *testing.T) {
	// Whitelist entries must name real catalog_products columns, or
	// sorting by them fails at query time.
	assert.True(t, ProductSortFields["brand"])
	assert.False(t, ProductSortFields["brand_name"])
}
