package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is owned by exactly one of an authenticated user or an anonymous
// session key, never both.
type Cart struct {
	BaseModel
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"type:varchar(255);index" json:"session_key,omitempty"`
	Items      []CartItem `json:"items"`
}

// Total sums each line's frozen price times quantity over the loaded items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities over the loaded items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	VariantID *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity" validate:"required,gt=0"`
	// Price is snapshotted at add time and stays frozen until the line is
	// removed and re-added.
	Price decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
}

func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
