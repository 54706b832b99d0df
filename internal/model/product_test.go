package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestProduct_BeforeSaveComputesMargin(t *testing.T) {
	p := Product{CostPrice: d("60.00"), SellingPrice: d("100.00")}
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "40.00", p.ProfitMargin.StringFixed(2))

	p = Product{CostPrice: d("10.00"), SellingPrice: d("0")}
	require.NoError(t, p.BeforeSave(nil))
	assert.True(t, p.ProfitMargin.IsZero())
}

func TestProduct_BeforeSaveStampsPublishedAt(t *testing.T) {
	p := Product{SellingPrice: d("10.00"), Status: ProductActive}
	require.NoError(t, p.BeforeSave(nil))
	require.NotNil(t, p.PublishedAt)

	first := *p.PublishedAt
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, first, *p.PublishedAt, "publication time is stamped once")

	draft := Product{SellingPrice: d("10.00"), Status: ProductDraft}
	require.NoError(t, draft.BeforeSave(nil))
	assert.Nil(t, draft.PublishedAt)
}

func TestProduct_IsInStock(t *testing.T) {
	p := Product{TrackInventory: true, StockQuantity: 0}
	assert.False(t, p.IsInStock())

	p.StockQuantity = 1
	assert.True(t, p.IsInStock())

	p.StockQuantity = 0
	p.AllowBackorder = true
	assert.True(t, p.IsInStock())

	p = Product{TrackInventory: false}
	assert.True(t, p.IsInStock())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := Product{TrackInventory: true, StockQuantity: 3, LowStockThreshold: 5}
	assert.True(t, p.IsLowStock())

	p.StockQuantity = 0
	assert.False(t, p.IsLowStock(), "out of stock is not low stock")

	p.StockQuantity = 6
	assert.False(t, p.IsLowStock())

	p = Product{TrackInventory: false, StockQuantity: 1, LowStockThreshold: 5}
	assert.False(t, p.IsLowStock())
}

func TestProduct_DiscountPercentage(t *testing.T) {
	compare := d("100.00")
	p := Product{SellingPrice: d("75.00"), CompareAtPrice: &compare}
	assert.Equal(t, 25, p.DiscountPercentage())

	p.CompareAtPrice = nil
	assert.Equal(t, 0, p.DiscountPercentage())

	lower := d("50.00")
	p.CompareAtPrice = &lower
	assert.Equal(t, 0, p.DiscountPercentage(), "compare-at below selling is ignored")
}

func TestProductVariant_UnitPrice(t *testing.T) {
	p := Product{SellingPrice: d("20.00")}

	v := ProductVariant{PriceAdjustment: d("5.50")}
	assert.Equal(t, "25.50", v.UnitPrice(&p).StringFixed(2))

	discounted := ProductVariant{PriceAdjustment: d("-2.00")}
	assert.Equal(t, "18.00", discounted.UnitPrice(&p).StringFixed(2))
}

func TestCart_Totals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Price: d("19.99"), Quantity: 2},
		{Price: d("4.50"), Quantity: 3},
	}}
	assert.Equal(t, "53.48", cart.Total().StringFixed(2))
	assert.Equal(t, 5, cart.ItemCount())
}
