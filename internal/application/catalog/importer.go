package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/fileimport"
)

// rowMapper resolves the column layout of a provincial export. Each
// distributor labels columns differently, so lookups go through
// normalized aliases.
type rowMapper struct {
	columns map[string]string // normalized header -> original header
}

// headerAliases maps a canonical field to the normalized headers the
// provincial exports use for it.
var headerAliases = map[string][]string{
	"sku":              {"sku", "itemnumber", "ocssku", "productsku"},
	"product_name":     {"productname", "name", "itemname"},
	"brand":            {"brand", "brandname"},
	"supplier":         {"supplier", "suppliername", "licensedproducer", "vendor"},
	"gtin":             {"gtin", "barcode", "upc", "eachgtin"},
	"case_gtin":        {"casegtin", "casebarcode"},
	"variant":          {"variantnumber", "variant"},
	"description":      {"description", "longdescription"},
	"short_desc":       {"shortdescription", "shortdesc"},
	"category":         {"category", "class"},
	"subcategory":      {"subcategory", "subclass"},
	"product_form":     {"productform", "form", "format"},
	"species":          {"species", "straintype", "planttype"},
	"strain_name":      {"strainname", "strain"},
	"consumer_type":    {"consumertype", "markettype"},
	"net_content":      {"netcontent", "size", "contentamount"},
	"net_content_unit": {"netcontentunit", "sizeunit", "contentuom"},
	"pack_size":        {"packsize", "unitsperpack", "packquantity"},
	"units_per_case":   {"unitspercase", "casequantity", "casepack"},
	"item_weight_g":    {"itemweightg", "weightg", "eachweight"},
	"case_weight_kg":   {"caseweightkg", "caseweight"},
	"thc_min":          {"thcmin", "thcrangemin", "minthc"},
	"thc_max":          {"thcmax", "thcrangemax", "maxthc"},
	"thc_unit":         {"thcunit", "thcuom"},
	"cbd_min":          {"cbdmin", "cbdrangemin", "mincbd"},
	"cbd_max":          {"cbdmax", "cbdrangemax", "maxcbd"},
	"cbd_unit":         {"cbdunit", "cbduom"},
	"total_thc":        {"totalthc"},
	"total_cbd":        {"totalcbd"},
	"terpenes":         {"terpenes", "terpenepercent", "totalterpenes"},
	"grow_method":      {"growmethod", "growingmethod"},
	"grow_medium":      {"growmedium"},
	"grow_region":      {"growregion", "growingregion", "regionofcultivation"},
	"drying_method":    {"dryingmethod"},
	"trimming_method":  {"trimmingmethod"},
	"extraction":       {"extractionmethod", "extractionprocess"},
	"irradiated":       {"irradiated", "irradiatedyn"},
	"harvest_date":     {"harvestdate"},
	"packaged_date":    {"packageddate", "packagedon"},
	"ingredients":      {"ingredients"},
	"allergens":        {"allergens"},
	"storage":          {"storagecriteria", "storage"},
	"shelf_life":       {"shelflife"},
	"device_type":      {"devicetype"},
	"battery_type":     {"batterytype"},
	"charger":          {"chargerincluded"},
	"heating_element":  {"heatingelement"},
	"cartridge":        {"cartridgematerial"},
	"concentrate":      {"concentratetype"},
	"unit_price":       {"unitprice", "priceperunit", "wholesaleprice"},
	"case_price":       {"caseprice", "pricepercase"},
	"retail_price":     {"suggestedretail", "suggestedretailprice", "msrp"},
	"orderable_unit":   {"orderableunit", "sellableunit"},
	"min_order_qty":    {"minorderqty", "minimumorderquantity", "moq"},
	"inventory_status": {"inventorystatus", "stockstatus", "availability"},
	"discontinued":     {"discontinued", "discontinuedflag", "delisted"},
	"delivery":         {"eligiblefordelivery", "deliveryeligible"},
	"image_url":        {"imageurl", "image"},
	"thumbnail_url":    {"thumbnailurl", "thumbnail"},
	"video_url":        {"videourl", "video"},
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func newRowMapper(headers []string) *rowMapper {
	columns := make(map[string]string, len(headers))
	for _, h := range headers {
		columns[normalizeHeader(h)] = h
	}
	return &rowMapper{columns: columns}
}

// get returns the row value for a canonical field, or "".
func (m *rowMapper) get(row *fileimport.Row, field string) string {
	for _, alias := range headerAliases[field] {
		if original, ok := m.columns[alias]; ok {
			if v := row.Get(original); v != "" {
				return v
			}
		}
	}
	return ""
}

// has reports whether any alias of the field is present in the file.
func (m *rowMapper) has(field string) bool {
	for _, alias := range headerAliases[field] {
		if _, ok := m.columns[alias]; ok {
			return true
		}
	}
	return false
}

// validate checks that the file carries the two columns nothing can be
// ingested without.
func (m *rowMapper) validate() error {
	if !m.has("sku") {
		return shared.NewDomainError("MISSING_COLUMN", "File has no SKU column")
	}
	if !m.has("product_name") {
		return shared.NewDomainError("MISSING_COLUMN", "File has no product name column")
	}
	return nil
}

// toProduct builds a catalog product from one file row.
func (m *rowMapper) toProduct(province string, row *fileimport.Row) (*catalog.Product, *fileimport.RowError) {
	sku := m.get(row, "sku")
	name := m.get(row, "product_name")

	product, err := catalog.NewProduct(province, sku, name)
	if err != nil {
		re := fileimport.NewRowError(row.LineNumber, "", err.Error())
		return nil, &re
	}

	product.Brand = m.get(row, "brand")
	product.Supplier = m.get(row, "supplier")
	product.GTIN = m.get(row, "gtin")
	product.CaseGTIN = m.get(row, "case_gtin")
	product.VariantNumber = m.get(row, "variant")
	product.Description = m.get(row, "description")
	product.ShortDesc = m.get(row, "short_desc")

	product.Category = m.get(row, "category")
	product.Subcategory = m.get(row, "subcategory")
	product.ProductForm = m.get(row, "product_form")
	product.Species = strings.ToLower(m.get(row, "species"))
	product.StrainName = m.get(row, "strain_name")
	product.ConsumerType = strings.ToLower(m.get(row, "consumer_type"))

	product.NetContent = parseFloat(m.get(row, "net_content"))
	product.NetContentUnit = m.get(row, "net_content_unit")
	product.PackSize = parseInt(m.get(row, "pack_size"))
	product.UnitsPerCase = parseInt(m.get(row, "units_per_case"))
	product.ItemWeightG = parseFloat(m.get(row, "item_weight_g"))
	product.CaseWeightKG = parseFloat(m.get(row, "case_weight_kg"))

	product.THCMin = parseFloat(m.get(row, "thc_min"))
	product.THCMax = parseFloat(m.get(row, "thc_max"))
	product.THCUnit = m.get(row, "thc_unit")
	product.CBDMin = parseFloat(m.get(row, "cbd_min"))
	product.CBDMax = parseFloat(m.get(row, "cbd_max"))
	product.CBDUnit = m.get(row, "cbd_unit")
	product.TotalTHC = parseFloat(m.get(row, "total_thc"))
	product.TotalCBD = parseFloat(m.get(row, "total_cbd"))
	product.TerpenesPC = parseFloat(m.get(row, "terpenes"))

	product.GrowMethod = m.get(row, "grow_method")
	product.GrowMedium = m.get(row, "grow_medium")
	product.GrowRegion = m.get(row, "grow_region")
	product.DryingMethod = m.get(row, "drying_method")
	product.TrimmingMethod = m.get(row, "trimming_method")
	product.ExtractionMethod = m.get(row, "extraction")
	product.Irradiated = parseBool(m.get(row, "irradiated"))
	product.HarvestDate = parseDate(m.get(row, "harvest_date"))
	product.PackagedDate = parseDate(m.get(row, "packaged_date"))

	product.Ingredients = m.get(row, "ingredients")
	product.Allergens = m.get(row, "allergens")
	product.StorageCrit = m.get(row, "storage")
	product.ShelfLife = m.get(row, "shelf_life")

	product.DeviceType = m.get(row, "device_type")
	product.BatteryType = m.get(row, "battery_type")
	product.ChargerIncluded = parseBool(m.get(row, "charger"))
	product.HeatingElement = m.get(row, "heating_element")
	product.CartridgeMaterial = m.get(row, "cartridge")
	product.ConcentrateType = m.get(row, "concentrate")

	product.UnitPrice = parseFloat(m.get(row, "unit_price"))
	product.CasePrice = parseFloat(m.get(row, "case_price"))
	product.SuggestedRetail = parseFloat(m.get(row, "retail_price"))
	product.OrderableUnit = m.get(row, "orderable_unit")
	product.MinOrderQty = parseInt(m.get(row, "min_order_qty"))
	product.InventoryStatus = m.get(row, "inventory_status")
	product.DiscontinuedFlag = parseBool(m.get(row, "discontinued"))
	product.EligibleForDelivery = parseBool(m.get(row, "delivery"))

	product.ImageURL = m.get(row, "image_url")
	product.ThumbnailURL = m.get(row, "thumbnail_url")
	product.VideoURL = m.get(row, "video_url")

	return product, nil
}

// parseFloat is lenient: currency symbols, percent signs and thousands
// separators show up in real exports.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	return int(parseFloat(s))
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
