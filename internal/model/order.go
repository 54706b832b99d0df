package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// orderTransitions encodes the status state machine. Delivered, cancelled
// and refunded are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled, OrderRefunded},
	OrderProcessing: {OrderShipped, OrderCancelled, OrderRefunded},
	OrderShipped:    {OrderDelivered, OrderRefunded},
	OrderDelivered:  {},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Address is a snapshotted postal address embedded into orders.
type Address struct {
	FirstName string `gorm:"type:varchar(100)" json:"first_name" validate:"required"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name" validate:"required"`
	Address1  string `gorm:"type:varchar(255)" json:"address1" validate:"required"`
	Address2  string `gorm:"type:varchar(255)" json:"address2"`
	City      string `gorm:"type:varchar(100)" json:"city" validate:"required"`
	State     string `gorm:"type:varchar(100)" json:"state"`
	Zipcode   string `gorm:"type:varchar(20)" json:"zipcode" validate:"required"`
	Country   string `gorm:"type:varchar(100)" json:"country" validate:"required"`
}

// Order is immutable once created, except for the status, payment and
// tracking fields.
type Order struct {
	BaseModel
	OrderNumber string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	Email string `gorm:"type:varchar(255);not null" json:"email"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"shipping_cost"`
	Tax          decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"tax"`
	Discount     decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"discount"`
	Total        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`
	CouponCode   string          `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`

	PaymentMethod string        `gorm:"type:varchar(100)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentRef    string        `gorm:"type:varchar(200)" json:"payment_ref,omitempty"`

	Status         OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TrackingNumber string      `gorm:"type:varchar(200)" json:"tracking_number,omitempty"`
	Notes          string      `gorm:"type:text" json:"notes"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	// StockRestoredAt guards cancellation against double-crediting stock.
	StockRestoredAt *time.Time `json:"stock_restored_at,omitempty"`

	Items []OrderItem `json:"items"`
}

func (o *Order) CustomerName() string {
	return o.ShippingAddress.FirstName + " " + o.ShippingAddress.LastName
}

// OrderItem snapshots product name, SKU and price at time of purchase,
// decoupled from live Product state.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID  *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	VariantID  *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	SupplierID *uuid.UUID      `gorm:"type:uuid" json:"supplier_id,omitempty"`
	Name       string          `gorm:"type:varchar(200);not null" json:"name"`
	SKU        string          `gorm:"type:varchar(100);not null" json:"sku"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
