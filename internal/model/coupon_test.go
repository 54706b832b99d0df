package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validCoupon(now time.Time) Coupon {
	return Coupon{
		Code:         "TEST",
		DiscountType: DiscountPercentage,
		ValidFrom:    now.Add(-time.Hour),
		ValidTo:      now.Add(time.Hour),
		UsageLimit:   10,
		IsActive:     true,
	}
}

func TestCoupon_IsValid(t *testing.T) {
	now := time.Now()

	c := validCoupon(now)
	assert.True(t, c.IsValid(now))

	c = validCoupon(now)
	c.IsActive = false
	assert.False(t, c.IsValid(now))

	c = validCoupon(now)
	c.UsedCount = c.UsageLimit
	assert.False(t, c.IsValid(now))

	c = validCoupon(now)
	assert.False(t, c.IsValid(now.Add(2*time.Hour)), "past the window")
	assert.False(t, c.IsValid(now.Add(-2*time.Hour)), "before the window")

	// Boundary instants are inclusive.
	c = validCoupon(now)
	assert.True(t, c.IsValid(c.ValidFrom))
	assert.True(t, c.IsValid(c.ValidTo))
}

func TestCoupon_IsExpired(t *testing.T) {
	now := time.Now()
	c := validCoupon(now)

	assert.False(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(now.Add(2*time.Hour)))
	assert.True(t, c.IsExpired(now.Add(-2*time.Hour)))

	// A disabled coupon inside its window is invalid but not expired.
	c.IsActive = false
	assert.False(t, c.IsExpired(now))
}

func TestCoupon_AppliesTo(t *testing.T) {
	now := time.Now()
	productID := uuid.New()
	categoryID := uuid.New()

	unrestricted := validCoupon(now)
	assert.True(t, unrestricted.AppliesTo(uuid.New(), nil))

	byProduct := validCoupon(now)
	restricted := Product{}
	restricted.ID = productID
	byProduct.Products = []Product{restricted}
	assert.True(t, byProduct.AppliesTo(productID, nil))
	assert.False(t, byProduct.AppliesTo(uuid.New(), nil))

	byCategory := validCoupon(now)
	cat := Category{}
	cat.ID = categoryID
	byCategory.Categories = []Category{cat}
	assert.True(t, byCategory.AppliesTo(uuid.New(), &categoryID))
	assert.False(t, byCategory.AppliesTo(uuid.New(), nil))
}
