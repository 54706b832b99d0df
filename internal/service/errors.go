package service

import (
	"errors"

	"go-store-api/internal/repository"
)

// Domain error taxonomy. Checkout-time failures leave cart and inventory
// untouched.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrCartNotFound        = errors.New("cart not found")
	ErrItemNotFound        = errors.New("cart item not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductUnavailable  = errors.New("product is not available for purchase")
	ErrVariantMismatch     = errors.New("variant does not belong to product")
	ErrInsufficientStock   = repository.ErrInsufficientStock
	ErrCouponInvalid       = errors.New("coupon is invalid")
	ErrCouponExpired       = errors.New("coupon is expired")
	ErrCouponMinimumNotMet = errors.New("cart subtotal is below the coupon minimum order")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrAlreadyReviewed     = errors.New("product already reviewed by this user")
	ErrSKUExists           = errors.New("SKU already exists")
)

// errOrderNumberCollision is retried internally and never surfaced.
var errOrderNumberCollision = errors.New("order number collision")
