package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	BaseModel
	Code         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	DiscountType DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"value"`
	MinimumOrder decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"minimum_order"`
	ValidFrom    time.Time       `gorm:"not null" json:"valid_from"`
	ValidTo      time.Time       `gorm:"not null" json:"valid_to"`
	UsageLimit   int             `gorm:"default:1" json:"usage_limit"`
	UsedCount    int             `gorm:"default:0" json:"used_count"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`

	// Optional restriction: when either set is non-empty the coupon only
	// applies to carts containing at least one matching line.
	Products   []Product  `gorm:"many2many:coupon_products;" json:"products,omitempty" validate:"-"`
	Categories []Category `gorm:"many2many:coupon_categories;" json:"categories,omitempty" validate:"-"`
}

// IsValid reports whether the coupon can be redeemed at the given instant.
func (c *Coupon) IsValid(now time.Time) bool {
	return c.IsActive &&
		!now.Before(c.ValidFrom) &&
		!now.After(c.ValidTo) &&
		c.UsedCount < c.UsageLimit
}

// IsExpired distinguishes a coupon outside its validity window from one that
// is disabled or used up.
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.Before(c.ValidFrom) || now.After(c.ValidTo)
}

// AppliesTo checks the product/category restriction against a cart line.
func (c *Coupon) AppliesTo(productID uuid.UUID, categoryID *uuid.UUID) bool {
	if len(c.Products) == 0 && len(c.Categories) == 0 {
		return true
	}
	for _, p := range c.Products {
		if p.ID == productID {
			return true
		}
	}
	if categoryID != nil {
		for _, cat := range c.Categories {
			if cat.ID == *categoryID {
				return true
			}
		}
	}
	return false
}
