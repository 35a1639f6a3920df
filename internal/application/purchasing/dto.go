package purchasing

import (
	"time"

	"github.com/dispensa/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListRequest narrows purchase order list queries
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=draft pending approved ordered shipped partial received cancelled"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	SortBy   string `form:"sort_by" binding:"omitempty,max=50"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateItemRequest is one line item on a new order
type CreateItemRequest struct {
	SKU             string          `json:"sku" binding:"required,max=50"`
	ProductName     string          `json:"product_name" binding:"max=300"`
	Category        string          `json:"category" binding:"max=100"`
	Brand           string          `json:"brand" binding:"max=200"`
	UnitOfMeasure   string          `json:"unit_of_measure" binding:"max=20"`
	QuantityOrdered int             `json:"quantity_ordered" binding:"required,min=1"`
	UnitCost        decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchLot        string          `json:"batch_lot" binding:"max=50"`
	GTIN            string          `json:"gtin" binding:"max=14"`
	CaseGTIN        string          `json:"case_gtin" binding:"max=14"`
	THCContent      string          `json:"thc_content" binding:"max=50"`
	CBDContent      string          `json:"cbd_content" binding:"max=50"`
	PackagedDate    *time.Time      `json:"packaged_date"`
}

// CreateOrderRequest creates a purchase order with its items
type CreateOrderRequest struct {
	SupplierName string              `json:"supplier_name" binding:"required,min=1,max=200"`
	ExpectedDate *time.Time          `json:"expected_date"`
	ASNNumber    string              `json:"asn_number" binding:"max=50"`
	Notes        string              `json:"notes" binding:"max=2000"`
	Submit       bool                `json:"submit"`
	Items        []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReceiveRequest records received quantities keyed by line item ID
type ReceiveRequest struct {
	Quantities map[uuid.UUID]int `json:"quantities" binding:"required"`
}

// CancelRequest cancels an order with a reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TransitionRequest requests a status change
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved ordered shipped partial received cancelled"`
}

// ItemResponse represents a purchase order line item
type ItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	Category            string          `json:"category,omitempty"`
	Brand               string          `json:"brand,omitempty"`
	UnitOfMeasure       string          `json:"unit_of_measure,omitempty"`
	QuantityOrdered     int             `json:"quantity_ordered"`
	QuantityReceived    int             `json:"quantity_received"`
	QuantityOutstanding int             `json:"quantity_outstanding"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	LineTotal           decimal.Decimal `json:"line_total"`
	BatchLot            string          `json:"batch_lot,omitempty"`
	GTIN                string          `json:"gtin,omitempty"`
	CaseGTIN            string          `json:"case_gtin,omitempty"`
	THCContent          string          `json:"thc_content,omitempty"`
	CBDContent          string          `json:"cbd_content,omitempty"`
	PackagedDate        *time.Time      `json:"packaged_date,omitempty"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	StoreID        uuid.UUID       `json:"store_id"`
	OrderNumber    string          `json:"order_number"`
	SupplierName   string          `json:"supplier_name"`
	Status         string          `json:"status"`
	Message        string          `json:"message,omitempty"`
	AllowedActions []string        `json:"allowed_actions"`
	Items          []ItemResponse  `json:"items,omitempty"`
	ItemCount      int             `json:"item_count"`
	TotalValue     decimal.Decimal `json:"total_value"`
	ExpectedDate   *time.Time      `json:"expected_date,omitempty"`
	ASNNumber      string          `json:"asn_number,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	SubmittedAt    *time.Time      `json:"submitted_at,omitempty"`
	ReceivedAt     *time.Time      `json:"received_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// SummaryResponse is the dashboard summary card payload
type SummaryResponse struct {
	Pending    int64           `json:"pending"`
	InTransit  int64           `json:"in_transit"`
	ThisMonth  int64           `json:"this_month"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ToItemResponse maps a domain item to its API representation
func ToItemResponse(i *purchasing.Item) ItemResponse {
	return ItemResponse{
		ID:                  i.ID,
		SKU:                 i.SKU,
		ProductName:         i.DisplayName(),
		Category:            i.Category,
		Brand:               i.Brand,
		UnitOfMeasure:       i.UnitOfMeasure,
		QuantityOrdered:     i.QuantityOrdered,
		QuantityReceived:    i.QuantityReceived,
		QuantityOutstanding: i.QuantityOutstanding(),
		UnitCost:            i.UnitCost,
		LineTotal:           i.LineTotal,
		BatchLot:            i.BatchLot,
		GTIN:                i.GTIN,
		CaseGTIN:            i.CaseGTIN,
		THCContent:          i.THCContent,
		CBDContent:          i.CBDContent,
		PackagedDate:        i.PackagedDate,
	}
}

// ToOrderResponse maps a domain order to its API representation
func ToOrderResponse(o *purchasing.PurchaseOrder, withItems bool) *OrderResponse {
	actions := make([]string, 0)
	for _, a := range o.Status.AllowedActions() {
		actions = append(actions, string(a))
	}

	resp := &OrderResponse{
		ID:             o.ID,
		StoreID:        o.StoreID,
		OrderNumber:    o.OrderNumber,
		SupplierName:   o.SupplierName,
		Status:         o.Status.String(),
		AllowedActions: actions,
		ItemCount:      o.ItemCount(),
		TotalValue:     o.TotalValue,
		ExpectedDate:   o.ExpectedDate,
		ASNNumber:      o.ASNNumber,
		Notes:          o.Notes,
		SubmittedAt:    o.SubmittedAt,
		ReceivedAt:     o.ReceivedAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
	if withItems {
		resp.Items = make([]ItemResponse, 0, len(o.Items))
		for idx := range o.Items {
			resp.Items = append(resp.Items, ToItemResponse(&o.Items[idx]))
		}
	}
	return resp
}
