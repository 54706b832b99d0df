package service

import (
	"time"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is the priced breakdown of a cart at one instant. All arithmetic is
// fixed-point decimal; tax and discount are quantized to cents and the total
// is a plain sum of cent-quantized terms.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`

	Coupon *model.Coupon `json:"-"`
}

type PricingService interface {
	// Quote prices the given cart lines under the site settings, optionally
	// applying a coupon code.
	Quote(items []model.CartItem, settings model.SiteSettings, couponCode string, now time.Time) (*Quote, error)
}

type pricingService struct {
	couponRepo repository.CouponRepository
}

func NewPricingService(couponRepo repository.CouponRepository) PricingService {
	return &pricingService{couponRepo: couponRepo}
}

func (s *pricingService) Quote(items []model.CartItem, settings model.SiteSettings, couponCode string, now time.Time) (*Quote, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}

	shipping := settings.DefaultShippingCost
	if subtotal.GreaterThanOrEqual(settings.ShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Add(shipping).Mul(settings.TaxRate).Div(oneHundred).Round(2)

	quote := &Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: decimal.Zero,
		Currency: settings.Currency,
	}

	if couponCode != "" {
		coupon, err := s.couponRepo.FindByCode(couponCode)
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCouponInvalid
		}
		if err != nil {
			return nil, err
		}
		discount, err := couponDiscount(coupon, items, subtotal, now)
		if err != nil {
			return nil, err
		}
		quote.Discount = discount
		quote.Coupon = coupon
	}

	quote.Total = subtotal.Add(shipping).Add(tax).Sub(quote.Discount)
	return quote, nil
}

// couponDiscount validates a coupon against the cart and computes the
// discount it grants.
func couponDiscount(coupon *model.Coupon, items []model.CartItem, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !coupon.IsActive || coupon.UsedCount >= coupon.UsageLimit {
		return decimal.Zero, ErrCouponInvalid
	}
	if coupon.IsExpired(now) {
		return decimal.Zero, ErrCouponExpired
	}
	if subtotal.LessThan(coupon.MinimumOrder) {
		return decimal.Zero, ErrCouponMinimumNotMet
	}
	if !couponMatchesCart(coupon, items) {
		return decimal.Zero, ErrCouponInvalid
	}

	if coupon.DiscountType == model.DiscountPercentage {
		return subtotal.Mul(coupon.Value).Div(oneHundred).Round(2), nil
	}
	// Fixed amount, capped at the subtotal so a total can reach zero but
	// never go negative.
	if coupon.Value.GreaterThan(subtotal) {
		return subtotal, nil
	}
	return coupon.Value, nil
}

func couponMatchesCart(coupon *model.Coupon, items []model.CartItem) bool {
	if len(coupon.Products) == 0 && len(coupon.Categories) == 0 {
		return true
	}
	for _, item := range items {
		if item.Product != nil {
			if coupon.AppliesTo(item.ProductID, item.Product.CategoryID) {
				return true
			}
		} else if coupon.AppliesTo(item.ProductID, nil) {
			return true
		}
	}
	return false
}
