package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is a closed set with an enforced transition table. Free-text
// statuses are never accepted.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipping  OrderStatus = "shipping"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipping, OrderCancelled},
	OrderShipping:  {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// ValidOrderStatus reports whether s names a known status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether moving from -> to is a legal step.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return CanTransition(s, OrderCancelled)
}

// Order is one purchase by one customer against one address. Line items may
// span batches from multiple farms. All money fields are recomputed
// server-side from line items at placement time.
type Order struct {
	BaseModel
	OrderNumber string      `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User       `json:"user,omitempty"`
	AddressID   uuid.UUID   `gorm:"type:uuid;not null" json:"address_id"`
	Address     *Address    `json:"address,omitempty"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Subtotal    int64       `gorm:"not null" json:"subtotal"`
	DeliveryFee int64       `gorm:"not null" json:"delivery_fee"`
	Discount    int64       `gorm:"not null;default:0" json:"discount"`
	Total       int64       `gorm:"not null" json:"total"`
	Note        string      `gorm:"type:text" json:"note"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem binds an order to a harvest batch, snapshotting name and price
// at purchase time. Owned by its order; references the batch.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id"`
	BatchID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"batch_id"`
	Batch       *HarvestBatch `json:"batch,omitempty"`
	ProductName string        `gorm:"type:varchar(255);not null" json:"product_name"`
	FarmID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"farm_id"`
	QuantityKg  float64       `gorm:"not null" json:"quantity_kg"`
	PricePerKg  int64         `gorm:"not null" json:"price_per_kg"`
	LineTotal   int64         `gorm:"not null" json:"line_total"`
}

// NewOrderNumber builds a human-readable, collision-safe order number:
// date prefix for operators, UUID fragment for uniqueness. Replaces
// count-then-format numbering, which duplicates under concurrent placement.
func NewOrderNumber(now time.Time) string {
	return "ORD-" + now.Format("20060102") + "-" + uuid.New().String()[:8]
}
