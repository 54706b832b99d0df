package model

import "github.com/shopspring/decimal"

// SiteSettings is a singleton row consumed by the pricing evaluator. It is
// read once per operation and passed by value, never looked up mid-flow.
type SiteSettings struct {
	BaseModel
	SiteName     string `gorm:"type:varchar(200);default:'Storefront'" json:"site_name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone"`

	// Free shipping above this subtotal
	ShippingThreshold   decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"shipping_threshold"`
	DefaultShippingCost decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"default_shipping_cost"`
	// Percentage applied to subtotal + shipping
	TaxRate  decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"tax_rate"`
	Currency string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`
}
