package catalog

import (
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/infrastructure/fileimport"
	"github.com/google/uuid"
)

// BrowseRequest narrows a catalog browse query
type BrowseRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Category string `form:"category" binding:"omitempty,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,max=50"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductListResponse is one row of a catalog browse page
type ProductListResponse struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	ProductName  string    `json:"product_name"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Species      string    `json:"species"`
	THCMin       float64   `json:"thc_min"`
	THCMax       float64   `json:"thc_max"`
	CBDMin       float64   `json:"cbd_min"`
	CBDMax       float64   `json:"cbd_max"`
	NetContent   float64   `json:"net_content"`
	ContentUnit  string    `json:"net_content_unit"`
	UnitPrice    float64   `json:"unit_price"`
	PackSize     int       `json:"pack_size"`
	ImageURL     string    `json:"image_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
}

// ProductDetailResponse is the full catalog row
type ProductDetailResponse struct {
	ProductListResponse
	Supplier         string     `json:"supplier"`
	GTIN             string     `json:"gtin"`
	CaseGTIN         string     `json:"case_gtin"`
	Description      string     `json:"description"`
	StrainName       string     `json:"strain_name"`
	ProductForm      string     `json:"product_form"`
	GrowMethod       string     `json:"grow_method"`
	GrowRegion       string     `json:"grow_region"`
	ExtractionMethod string     `json:"extraction_method"`
	Ingredients      string     `json:"ingredients"`
	Allergens        string     `json:"allergens"`
	TerpenesPC       float64    `json:"terpenes_pc"`
	CasePrice        float64    `json:"case_price"`
	SuggestedRetail  float64    `json:"suggested_retail"`
	UnitsPerCase     int        `json:"units_per_case"`
	InventoryStatus  string     `json:"inventory_status"`
	HarvestDate      *time.Time `json:"harvest_date,omitempty"`
	PackagedDate     *time.Time `json:"packaged_date,omitempty"`
	LastIngestedAt   time.Time  `json:"last_ingested_at"`
}

// ImportResult is the outcome of one catalog upload
type ImportResult struct {
	Province     string                `json:"province"`
	TotalRecords int                   `json:"total_records"`
	Inserted     int                   `json:"inserted"`
	Updated      int                   `json:"updated"`
	Errors       []fileimport.RowError `json:"errors"`
	Duration     time.Duration         `json:"duration_ms" swaggertype:"integer"`
}

// ToProductListResponse converts a product to a browse row
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		ProductName:  p.ProductName,
		Brand:        p.Brand,
		Category:     p.Category,
		Subcategory:  p.Subcategory,
		Species:      p.Species,
		THCMin:       p.THCMin,
		THCMax:       p.THCMax,
		CBDMin:       p.CBDMin,
		CBDMax:       p.CBDMax,
		NetContent:   p.NetContent,
		ContentUnit:  p.NetContentUnit,
		UnitPrice:    p.UnitPrice,
		PackSize:     p.PackSize,
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.ThumbnailURL,
	}
}

// ToProductDetailResponse converts a product to its detail view
func ToProductDetailResponse(p *catalog.Product) *ProductDetailResponse {
	return &ProductDetailResponse{
		ProductListResponse: ToProductListResponse(p),
		Supplier:            p.Supplier,
		GTIN:                p.GTIN,
		CaseGTIN:            p.CaseGTIN,
		Description:         p.Description,
		StrainName:          p.StrainName,
		ProductForm:         p.ProductForm,
		GrowMethod:          p.GrowMethod,
		GrowRegion:          p.GrowRegion,
		ExtractionMethod:    p.ExtractionMethod,
		Ingredients:         p.Ingredients,
		Allergens:           p.Allergens,
		TerpenesPC:          p.TerpenesPC,
		CasePrice:           p.CasePrice,
		SuggestedRetail:     p.SuggestedRetail,
		UnitsPerCase:        p.UnitsPerCase,
		InventoryStatus:     p.InventoryStatus,
		HarvestDate:         p.HarvestDate,
		PackagedDate:        p.PackagedDate,
		LastIngestedAt:      p.LastIngestedAt,
	}
}
