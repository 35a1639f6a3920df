package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.Repository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a catalog product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its upsert key (province, sku)
func (r *GormProductRepository) FindBySKU(ctx context.Context, province, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("province = ? AND sku = ?", strings.ToUpper(province), sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll returns one page of a province catalog plus the total match count
func (r *GormProductRepository) FindAll(ctx context.Context, province string, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("province = ?", strings.ToUpper(province))

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("product_name ILIKE ? OR brand ILIKE ? OR sku ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "product_name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "product_name" && filter.OrderBy == "" {
		orderDir = "ASC"
	}

	var products []catalog.Product
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Upsert writes a product keyed on (province, sku). Returns true when a
// new row was inserted, false when an existing row was refreshed.
func (r *GormProductRepository) Upsert(ctx context.Context, product *catalog.Product) (bool, error) {
	existing, err := r.FindBySKU(ctx, product.Province, product.SKU)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return false, err
		}
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	// Preserve row identity; the incoming product carries fresh data only.
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.Version = existing.Version + 1
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return false, err
	}
	return false, nil
}

// Stats aggregates a province catalog: total rows, per-category counts
// and the most recent ingestion time.
func (r *GormProductRepository) Stats(ctx context.Context, province string) (*catalog.Stats, error) {
	province = strings.ToUpper(province)
	stats := &catalog.Stats{
		Province:   province,
		Categories: make(map[string]int64),
	}

	base := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("province = ?", province)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		Category string
		Total    int64
	}
	var counts []categoryCount
	if err := base.Session(&gorm.Session{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		name := c.Category
		if name == "" {
			name = "Uncategorized"
		}
		stats.Categories[name] = c.Total
	}

	var lastUpdated sql.NullTime
	if err := base.Session(&gorm.Session{}).
		Select("MAX(last_ingested_at)").
		Scan(&lastUpdated).Error; err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		stats.LastUpdated = &t
	}

	return stats, nil
}
