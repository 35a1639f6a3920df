package purchasing

import (
	"fmt"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a purchase order
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusOrdered   Status = "ordered"
	StatusShipped   Status = "shipped"
	StatusPartial   Status = "partial"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid purchase order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusOrdered,
		StatusShipped, StatusPartial, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusPending || target == StatusCancelled
	case StatusPending:
		return target == StatusApproved || target == StatusReceived || target == StatusCancelled
	case StatusApproved:
		return target == StatusOrdered || target == StatusCancelled
	case StatusOrdered:
		return target == StatusShipped || target == StatusPartial || target == StatusReceived
	case StatusShipped:
		return target == StatusPartial || target == StatusReceived
	case StatusPartial:
		return target == StatusPartial || target == StatusReceived
	case StatusReceived, StatusCancelled:
		return false // terminal states
	}
	return false
}

// IsTerminal returns true for received and cancelled orders
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// InTransit returns true while goods are on their way
func (s Status) InTransit() bool {
	return s == StatusOrdered || s == StatusShipped || s == StatusPartial
}

// Action is a user-facing order action exposed per status
type Action string

const (
	ActionMarkReceived      Action = "mark_received"
	ActionMarkFullyReceived Action = "mark_fully_received"
	ActionCancel            Action = "cancel"
)

// AllowedActions lists the receipt/cancel actions the dashboard shows
// for the status: pending orders can be received or cancelled, partial
// orders can only be fully received, every other status shows neither.
func (s Status) AllowedActions() []Action {
	switch s {
	case StatusPending:
		return []Action{ActionMarkReceived, ActionCancel}
	case StatusPartial:
		return []Action{ActionMarkFullyReceived}
	}
	return nil
}

// Item represents a line item in a purchase order
type Item struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU              string          `gorm:"type:varchar(50);not null"`
	ProductName      string          `gorm:"type:varchar(300)"` // may be absent in the feed
	Category         string          `gorm:"type:varchar(100)"`
	Brand            string          `gorm:"type:varchar(200)"`
	UnitOfMeasure    string          `gorm:"type:varchar(20)"`
	QuantityOrdered  int             `gorm:"not null"`
	QuantityReceived int             `gorm:"not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	BatchLot         string          `gorm:"type:varchar(50)"`
	GTIN             string          `gorm:"type:varchar(14)"`
	CaseGTIN         string          `gorm:"type:varchar(14)"`
	THCContent       string          `gorm:"type:varchar(50)"`
	CBDContent       string          `gorm:"type:varchar(50)"`
	PackagedDate     *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "purchase_order_items"
}

// NewItem creates a purchase order line item
func NewItem(orderID uuid.UUID, sku string, quantity int, unitCost decimal.Decimal) (*Item, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &Item{
		ID:              uuid.New(),
		OrderID:         orderID,
		SKU:             sku,
		QuantityOrdered: quantity,
		UnitCost:        unitCost,
		LineTotal:       unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DisplayName returns the product name, falling back to a name derived
// from the SKU when the feed did not supply one.
func (i *Item) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return ProductNameFromSKU(i.SKU)
}

// QuantityOutstanding returns the quantity still to be received
func (i *Item) QuantityOutstanding() int {
	outstanding := i.QuantityOrdered - i.QuantityReceived
	if outstanding < 0 {
		return 0
	}
	return outstanding
}

// IsFullyReceived returns true once the ordered quantity has arrived
func (i *Item) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// Receive records a received quantity against the line
func (i *Item) Receive(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if i.QuantityReceived+quantity > i.QuantityOrdered {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d, only %d outstanding", quantity, i.QuantityOutstanding()))
	}
	i.QuantityReceived += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// PurchaseOrder is the aggregate root for an inbound supplier order.
// It is tenant-owned and scoped to a single store; status transitions
// are validated here, the API layer only relays requested targets.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierName string          `gorm:"type:varchar(200);not null"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'draft';index"`
	Items        []Item          `gorm:"foreignKey:OrderID;references:ID"`
	ExpectedDate *time.Time      `gorm:"index"`
	ASNNumber    string          `gorm:"type:varchar(50)"` // advance shipping notice reference
	TotalValue   decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	Notes        string          `gorm:"type:text"`
	SubmittedAt  *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order for a store
func NewPurchaseOrder(tenantID, storeID uuid.UUID, orderNumber, supplierName string) (*PurchaseOrder, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StoreID:             storeID,
		OrderNumber:         orderNumber,
		SupplierName:        supplierName,
		Status:              StatusDraft,
		Items:               make([]Item, 0),
		TotalValue:          decimal.Zero,
	}, nil
}

// AddItem appends a line item; only allowed while the order is a draft
func (o *PurchaseOrder) AddItem(sku string, quantity int, unitCost decimal.Decimal) (*Item, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	for _, item := range o.Items {
		if item.SKU == sku {
			return nil, shared.NewDomainError("DUPLICATE_SKU", "SKU already exists on this order")
		}
	}

	item, err := NewItem(o.ID, sku, quantity, unitCost)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return item, nil
}

// Transition moves the order to the target status when the state
// machine allows it. Receipt statuses must go through Receive or
// MarkFullyReceived so quantities stay consistent.
func (o *PurchaseOrder) Transition(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	now := time.Now()
	switch target {
	case StatusPending:
		if len(o.Items) == 0 {
			return shared.NewDomainError("NO_ITEMS", "Cannot submit an order without items")
		}
		o.SubmittedAt = &now
	case StatusReceived:
		o.markAllReceived()
		o.ReceivedAt = &now
	}
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Receive records per-item receipts and derives the resulting status:
// partial until every line is fully received, then received.
func (o *PurchaseOrder) Receive(quantities map[uuid.UUID]int) error {
	if !o.Status.CanTransitionTo(StatusPartial) && !o.Status.CanTransitionTo(StatusReceived) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive goods for an order in %s status", o.Status))
	}
	if len(quantities) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Receive quantities cannot be empty")
	}

	for itemID, qty := range quantities {
		item := o.GetItem(itemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Item %s not found on order", itemID))
		}
		if err := item.Receive(qty); err != nil {
			return err
		}
	}

	now := time.Now()
	if o.allItemsReceived() {
		o.Status = StatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = StatusPartial
	}
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// MarkFullyReceived closes out a partially received order
func (o *PurchaseOrder) MarkFullyReceived() error {
	if o.Status != StatusPartial && o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark an order in %s status as received", o.Status))
	}
	return o.Transition(StatusReceived)
}

// Cancel cancels the order before any goods movement
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel an order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// GetItem returns an item by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *Item {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal)
	}
	o.TotalValue = total
}

func (o *PurchaseOrder) allItemsReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *PurchaseOrder) markAllReceived() {
	now := time.Now()
	for idx := range o.Items {
		o.Items[idx].QuantityReceived = o.Items[idx].QuantityOrdered
		o.Items[idx].UpdatedAt = now
	}
}
