package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Province codes for supported provincial distributors
const (
	ProvinceOntario         = "ON"
	ProvinceBritishColumbia = "BC"
	ProvinceAlberta         = "AB"
)

// IsSupportedProvince reports whether the province code has a catalog feed
func IsSupportedProvince(code string) bool {
	switch strings.ToUpper(code) {
	case ProvinceOntario, ProvinceBritishColumbia, ProvinceAlberta:
		return true
	}
	return false
}

// Product is a single row of a provincial product catalog.
// Rows are owned by the ingestion job; nothing mutates them outside an
// upload. The upsert key is (province, sku).
type Product struct {
	shared.BaseAggregateRoot
	Province string `gorm:"type:varchar(2);not null;uniqueIndex:idx_catalog_province_sku,priority:1"`
	SKU      string `gorm:"type:varchar(50);not null;uniqueIndex:idx_catalog_province_sku,priority:2"`

	// Identification
	ProductName   string `gorm:"type:varchar(300);not null"`
	Brand         string `gorm:"type:varchar(200);index"`
	Supplier      string `gorm:"type:varchar(200)"`
	GTIN          string `gorm:"type:varchar(14);index"`
	CaseGTIN      string `gorm:"type:varchar(14)"`
	VariantNumber string `gorm:"type:varchar(50)"`
	Description   string `gorm:"type:text"`
	ShortDesc     string `gorm:"type:varchar(500)"`

	// Category
	Category      string `gorm:"type:varchar(100);index"`
	Subcategory   string `gorm:"type:varchar(100)"`
	ProductForm   string `gorm:"type:varchar(100)"`
	Species       string `gorm:"type:varchar(50)"` // indica, sativa, hybrid, blend
	StrainName    string `gorm:"type:varchar(200)"`
	ConsumerType  string `gorm:"type:varchar(50)"` // recreational, medical
	FulfilmentTag string `gorm:"type:varchar(50)"`

	// Physical attributes
	NetContent     float64 `gorm:"type:decimal(10,3)"`
	NetContentUnit string  `gorm:"type:varchar(10)"`
	PackSize       int
	UnitsPerCase   int
	ItemWeightG    float64 `gorm:"type:decimal(10,3)"`
	ItemLengthCM   float64 `gorm:"type:decimal(10,2)"`
	ItemWidthCM    float64 `gorm:"type:decimal(10,2)"`
	ItemHeightCM   float64 `gorm:"type:decimal(10,2)"`
	CaseWeightKG   float64 `gorm:"type:decimal(10,3)"`

	// Potency
	THCMin     float64 `gorm:"type:decimal(10,4)"`
	THCMax     float64 `gorm:"type:decimal(10,4)"`
	THCUnit    string  `gorm:"type:varchar(10)"`
	CBDMin     float64 `gorm:"type:decimal(10,4)"`
	CBDMax     float64 `gorm:"type:decimal(10,4)"`
	CBDUnit    string  `gorm:"type:varchar(10)"`
	TotalTHC   float64 `gorm:"type:decimal(10,4)"`
	TotalCBD   float64 `gorm:"type:decimal(10,4)"`
	TerpenesPC float64 `gorm:"type:decimal(10,4)"`

	// Cultivation and processing
	GrowMethod       string `gorm:"type:varchar(100)"`
	GrowMedium       string `gorm:"type:varchar(100)"`
	GrowRegion       string `gorm:"type:varchar(100)"`
	DryingMethod     string `gorm:"type:varchar(100)"`
	TrimmingMethod   string `gorm:"type:varchar(100)"`
	ExtractionMethod string `gorm:"type:varchar(100)"`
	Irradiated       bool
	HarvestDate      *time.Time
	PackagedDate     *time.Time

	// Ingredients and allergens
	Ingredients string `gorm:"type:text"`
	Allergens   string `gorm:"type:text"`
	FoodRecipe  string `gorm:"type:text"`
	StorageCrit string `gorm:"type:varchar(200)"`
	ShelfLife   string `gorm:"type:varchar(100)"`

	// Device attributes (vapes, accessories)
	DeviceType        string `gorm:"type:varchar(100)"`
	BatteryType       string `gorm:"type:varchar(100)"`
	ChargerIncluded   bool
	HeatingElement    string `gorm:"type:varchar(100)"`
	CartridgeMaterial string `gorm:"type:varchar(100)"`
	ConcentrateType   string `gorm:"type:varchar(100)"`

	// Logistics and pricing
	UnitPrice           float64 `gorm:"type:decimal(12,2)"`
	CasePrice           float64 `gorm:"type:decimal(12,2)"`
	SuggestedRetail     float64 `gorm:"type:decimal(12,2)"`
	OrderableUnit       string  `gorm:"type:varchar(20)"`
	MinOrderQty         int
	InventoryStatus     string `gorm:"type:varchar(50)"`
	DiscontinuedFlag    bool
	EligibleForDelivery bool

	// Media
	ImageURL     string `gorm:"type:varchar(500)"`
	ThumbnailURL string `gorm:"type:varchar(500)"`
	VideoURL     string `gorm:"type:varchar(500)"`

	LastIngestedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "catalog_products"
}

// NewProduct creates a catalog product for an ingestion run
func NewProduct(province, sku, name string) (*Product, error) {
	province = strings.ToUpper(strings.TrimSpace(province))
	if !IsSupportedProvince(province) {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "Unsupported province code")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Province:          province,
		SKU:               sku,
		ProductName:       strings.TrimSpace(name),
		LastIngestedAt:    time.Now(),
	}, nil
}

// Touch marks the product as seen by the current ingestion run
func (p *Product) Touch() {
	now := time.Now()
	p.LastIngestedAt = now
	p.UpdatedAt = now
	p.IncrementVersion()
}

// Stats is the aggregate view of a province catalog
type Stats struct {
	Province      string           `json:"province"`
	TotalProducts int64            `json:"total_products"`
	LastUpdated   *time.Time       `json:"last_updated"`
	Categories    map[string]int64 `json:"categories"`
}

// ProductFilter narrows catalog browse queries
type ProductFilter struct {
	shared.Filter
	Category string
}

// Repository defines persistence operations for catalog products
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, province, sku string) (*Product, error)
	FindAll(ctx context.Context, province string, filter ProductFilter) ([]Product, int64, error)
	Upsert(ctx context.Context, product *Product) (created bool, err error)
	Stats(ctx context.Context, province string) (*Stats, error)
}
