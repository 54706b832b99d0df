package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductDraft        ProductStatus = "draft"
	ProductActive       ProductStatus = "active"
	ProductOutOfStock   ProductStatus = "out_of_stock"
	ProductDiscontinued ProductStatus = "discontinued"
)

type Category struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Slug        string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"type:varchar(500)" json:"image_url"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}

type Supplier struct {
	BaseModel
	Name            string          `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	CompanyName     string          `gorm:"type:varchar(200)" json:"company_name"`
	Email           string          `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	Address         string          `gorm:"type:text" json:"address"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	ShippingTimeMin int             `json:"shipping_time_min"`
	ShippingTimeMax int             `json:"shipping_time_max"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"shipping_cost"`
}

type Product struct {
	BaseModel
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`

	Name             string `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Slug             string `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug" validate:"required"`
	SKU              string `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku" validate:"required"`
	Description      string `gorm:"type:text" json:"description"`
	ShortDescription string `gorm:"type:varchar(500)" json:"short_description"`

	// Pricing. ProfitMargin is derived, recomputed on every save.
	CostPrice      decimal.Decimal  `gorm:"type:decimal(16,2);not null" json:"cost_price"`
	SellingPrice   decimal.Decimal  `gorm:"type:decimal(16,2);not null" json:"selling_price" validate:"required"`
	CompareAtPrice *decimal.Decimal `gorm:"type:decimal(16,2)" json:"compare_at_price,omitempty"`
	ProfitMargin   decimal.Decimal  `gorm:"type:decimal(7,2)" json:"profit_margin"`

	// Inventory
	StockQuantity     int  `gorm:"default:0" json:"stock_quantity"`
	LowStockThreshold int  `gorm:"default:5" json:"low_stock_threshold"`
	TrackInventory    bool `gorm:"default:true" json:"track_inventory"`
	AllowBackorder    bool `gorm:"default:false" json:"allow_backorder"`

	ImageURL string `gorm:"type:varchar(500)" json:"image_url"`

	Status       ProductStatus `gorm:"type:varchar(20);default:'draft'" json:"status" validate:"omitempty,oneof=draft active out_of_stock discontinued"`
	IsFeatured   bool          `gorm:"default:false" json:"is_featured"`
	IsBestseller bool          `gorm:"default:false" json:"is_bestseller"`
	PublishedAt  *time.Time    `json:"published_at,omitempty"`

	Variants []ProductVariant `json:"variants,omitempty" validate:"-"`
}

// BeforeSave recomputes the derived pricing fields and stamps the first
// publication time.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.SellingPrice.IsPositive() {
		p.ProfitMargin = p.SellingPrice.Sub(p.CostPrice).
			Div(p.SellingPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	} else {
		p.ProfitMargin = decimal.Zero
	}
	if p.Status == ProductActive && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	return nil
}

func (p *Product) IsInStock() bool {
	return !p.TrackInventory || p.StockQuantity > 0 || p.AllowBackorder
}

// IsLowStock is a derived predicate, not a stored state.
func (p *Product) IsLowStock() bool {
	return p.TrackInventory && p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}

// DiscountPercentage against the compare-at price, for storefront badges.
func (p *Product) DiscountPercentage() int {
	if p.CompareAtPrice == nil || !p.CompareAtPrice.GreaterThan(p.SellingPrice) {
		return 0
	}
	return int(p.CompareAtPrice.Sub(p.SellingPrice).
		Div(*p.CompareAtPrice).
		Mul(decimal.NewFromInt(100)).
		IntPart())
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"-" validate:"-"`

	Name string `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	SKU  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku" validate:"required"`
	// Open attribute set, e.g. {"size": "XL", "color": "Red"}
	Attributes      map[string]string `gorm:"serializer:json;type:jsonb" json:"attributes"`
	PriceAdjustment decimal.Decimal   `gorm:"type:decimal(16,2);default:0" json:"price_adjustment"`
	StockQuantity   int               `gorm:"default:0" json:"stock_quantity"`
	IsActive        bool              `gorm:"default:true" json:"is_active"`
}

// UnitPrice is the effective selling price of this variant.
func (v *ProductVariant) UnitPrice(product *Product) decimal.Decimal {
	return product.SellingPrice.Add(v.PriceAdjustment)
}
