package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/cache"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory catalog.Repository keyed on (province, sku).
type fakeProductRepo struct {
	products   map[string]*catalog.Product
	statsCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*catalog.Product)}
}

func (r *fakeProductRepo) key(province, sku string) string {
	return strings.ToUpper(province) + "/" + sku
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, province, sku string) (*catalog.Product, error) {
	if p, ok := r.products[r.key(province, sku)]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, province string, _ catalog.ProductFilter) ([]catalog.Product, int64, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.Province == strings.ToUpper(province) {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Upsert(_ context.Context, product *catalog.Product) (bool, error) {
	k := r.key(product.Province, product.SKU)
	_, existed := r.products[k]
	r.products[k] = product
	return !existed, nil
}

func (r *fakeProductRepo) Stats(_ context.Context, province string) (*catalog.Stats, error) {
	r.statsCalls++
	stats := &catalog.Stats{
		Province:   strings.ToUpper(province),
		Categories: make(map[string]int64),
	}
	for _, p := range r.products {
		if p.Province != stats.Province {
			continue
		}
		stats.TotalProducts++
		stats.Categories[p.Category]++
	}
	return stats, nil
}

func newTestService(repo *fakeProductRepo) *Service {
	return NewService(repo, cache.NewInMemoryStatsCache(), config.CatalogConfig{
		MaxUploadRows: 100,
		StatsCacheTTL: time.Minute,
	}, nil)
}

const sampleCSV = `SKU,Product Name,Brand,Category,THC Max,Unit Price
101557_28G___,Blue Dream 28g,Highland,Flower,22.5,89.99
102779_10X0.5G___,Pre-Roll 10 Pack,Valley Co,Pre-Rolls,24.9,34.50
`

func TestService_Import(t *testing.T) {
	t.Run("inserts new rows", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := newTestService(repo)

		result, err := svc.Import(context.Background(), "ON", "catalog.csv", strings.NewReader(sampleCSV))

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRecords)
		assert.Equal(t, 2, result.Inserted)
		assert.Equal(t, 0, result.Updated)
		assert.Empty(t, result.Errors)

		p, err := repo.FindBySKU(context.Background(), "ON", "101557_28G___")
		require.NoError(t, err)
		assert.Equal(t, "Blue Dream 28g", p.ProductName)
		assert.Equal(t, 22.5, p.THCMax)
		assert.Equal(t, 89.99, p.UnitPrice)
	})

	t.Run("second upload counts updates", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := newTestService(repo)

		_, err := svc.Import(context.Background(), "ON", "catalog.csv", strings.NewReader(sampleCSV))
		require.NoError(t, err)

		result, err := svc.Import(context.Background(), "ON", "catalog.csv", strings.NewReader(sampleCSV))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Inserted)
		assert.Equal(t, 2, result.Updated)
	})

	t.Run("rows without sku are reported, rest lands", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := newTestService(repo)

		csv := "SKU,Product Name\n,No SKU Product\n101557_28G___,Blue Dream\n"
		result, err := svc.Import(context.Background(), "ON", "catalog.csv", strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRecords)
		assert.Equal(t, 1, result.Inserted)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].Row)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		svc := newTestService(newFakeProductRepo())

		_, err := svc.Import(context.Background(), "ON", "catalog.pdf", strings.NewReader(sampleCSV))

		assert.ErrorIs(t, err, shared.ErrInvalidFileType)
	})

	t.Run("rejects unknown province", func(t *testing.T) {
		svc := newTestService(newFakeProductRepo())

		_, err := svc.Import(context.Background(), "QC", "catalog.csv", strings.NewReader(sampleCSV))

		assert.Error(t, err)
	})

	t.Run("rejects file without sku column", func(t *testing.T) {
		svc := newTestService(newFakeProductRepo())

		_, err := svc.Import(context.Background(), "ON", "catalog.csv",
			strings.NewReader("Name,Brand\nBlue Dream,Highland\n"))

		assert.Error(t, err)
	})

	t.Run("enforces max row count", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := NewService(repo, cache.NewInMemoryStatsCache(), config.CatalogConfig{
			MaxUploadRows: 1,
			StatsCacheTTL: time.Minute,
		}, nil)

		_, err := svc.Import(context.Background(), "ON", "catalog.csv", strings.NewReader(sampleCSV))

		assert.Error(t, err)
	})
}

func TestService_Stats(t *testing.T) {
	repo := newFakeProductRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Import(ctx, "ON", "catalog.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "ON")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.Categories["Flower"])

	// Second read is served from cache.
	calls := repo.statsCalls
	_, err = svc.Stats(ctx, "ON")
	require.NoError(t, err)
	assert.Equal(t, calls, repo.statsCalls)
}

func TestService_Browse_InvalidProvince(t *testing.T) {
	svc := newTestService(newFakeProductRepo())

	_, err := svc.Browse(context.Background(), "XX", BrowseRequest{})

	assert.Error(t, err)
}
