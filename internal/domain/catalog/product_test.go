package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedProvince(t *testing.T) {
	assert.True(t, IsSupportedProvince("ON"))
	assert.True(t, IsSupportedProvince("on"))
	assert.True(t, IsSupportedProvince("BC"))
	assert.False(t, IsSupportedProvince("QC"))
	assert.False(t, IsSupportedProvince(""))
}

func TestNewProduct(t *testing.T) {
	_, err := NewProduct("QC", "101557_28G___", "Flower 28g")
	assert.Error(t, err)

	_, err = NewProduct("ON", "", "Flower 28g")
	assert.Error(t, err)

	_, err = NewProduct("ON", "101557_28G___", "  ")
	assert.Error(t, err)

	p, err := NewProduct("on", " 101557_28G___ ", "Flower 28g")
	require.NoError(t, err)
	assert.Equal(t, "ON", p.Province)
	assert.Equal(t, "101557_28G___", p.SKU)
	assert.False(t, p.LastIngestedAt.IsZero())
}

func TestProduct_Touch(t *testing.T) {
	p, err := NewProduct("ON", "101557_28G___", "Flower 28g")
	require.NoError(t, err)

	before := p.LastIngestedAt
	version := p.Version
	p.Touch()
	assert.True(t, !p.LastIngestedAt.Before(before))
	assert.Equal(t, version+1, p.Version)
}
