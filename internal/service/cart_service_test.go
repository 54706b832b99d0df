package service

import (
	"testing"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	products *fakeProductRepo
	stock    *fakeStockRepo
	carts    *fakeCartRepo
	svc      CartService
}

func newCartFixture() *cartFixture {
	products := newFakeProductRepo()
	stock := newFakeStockRepo()
	carts := newFakeCartRepo(products)
	return &cartFixture{
		products: products,
		stock:    stock,
		carts:    carts,
		svc:      NewCartService(carts, products, stock, &fakeTxRunner{}),
	}
}

func (f *cartFixture) activeProduct(price string, stockQty int) *model.Product {
	p := f.products.add(&model.Product{
		Name:           "Widget",
		SKU:            "SKU-" + uuid.NewString()[:8],
		SellingPrice:   dec(price),
		Status:         model.ProductActive,
		TrackInventory: true,
		StockQuantity:  stockQty,
	})
	f.stock.set(repository.StockRef{ProductID: p.ID}, stockQty)
	return p
}

func guestOwner() repository.CartOwner {
	return repository.SessionOwner(uuid.NewString())
}

func TestAddItem_FreezesPrice(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("25.00", 10)
	owner := guestOwner()

	cart, err := f.svc.AddItem(owner, product.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "25.00", cart.Items[0].Price.StringFixed(2))

	// A later price change does not touch the stored line.
	product.SellingPrice = dec("99.00")
	require.NoError(t, f.products.Update(product))

	cart, err = f.svc.GetCart(owner)
	require.NoError(t, err)
	assert.Equal(t, "25.00", cart.Items[0].Price.StringFixed(2))
	assert.Equal(t, "50.00", cart.Total().StringFixed(2))
}

func TestAddItem_SumsIdenticalLines(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 20)
	owner := guestOwner()

	_, err := f.svc.AddItem(owner, product.ID, nil, 2)
	require.NoError(t, err)
	cart, err := f.svc.AddItem(owner, product.ID, nil, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_VariantAdjustsPrice(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("20.00", 10)
	variant := f.products.addVariant(&model.ProductVariant{
		ProductID:       product.ID,
		SKU:             "SKU-VAR",
		PriceAdjustment: dec("5.50"),
		StockQuantity:   10,
	})
	f.stock.set(repository.StockRef{ProductID: product.ID, VariantID: &variant.ID}, 10)

	cart, err := f.svc.AddItem(guestOwner(), product.ID, &variant.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "25.50", cart.Items[0].Price.StringFixed(2))
}

func TestAddItem_VariantOfDifferentProduct(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("20.00", 10)
	other := f.activeProduct("30.00", 10)
	variant := f.products.addVariant(&model.ProductVariant{ProductID: other.ID, SKU: "X"})

	_, err := f.svc.AddItem(guestOwner(), product.ID, &variant.ID, 1)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 3)

	_, err := f.svc.AddItem(guestOwner(), product.ID, nil, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddItem_BackorderBypassesStock(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 0)
	product.AllowBackorder = true

	cart, err := f.svc.AddItem(guestOwner(), product.ID, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())
}

func TestAddItem_InactiveProduct(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 10)
	product.Status = model.ProductDraft

	_, err := f.svc.AddItem(guestOwner(), product.ID, nil, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	cart, err := f.svc.AddItem(owner, product.ID, nil, 2)
	require.NoError(t, err)

	cart, err = f.svc.UpdateQuantity(owner, cart.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_IncreaseRecheckedAgainstStock(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 5)
	owner := guestOwner()

	cart, err := f.svc.AddItem(owner, product.ID, nil, 2)
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(owner, cart.Items[0].ID, 9)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	cart, err = f.svc.UpdateQuantity(owner, cart.Items[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestRemoveItem_UnknownLine(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.svc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(owner, uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMergeOnLogin_MovesGuestLines(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 20)
	sessionKey := uuid.NewString()
	userID := uuid.New()

	_, err := f.svc.AddItem(repository.SessionOwner(sessionKey), product.ID, nil, 2)
	require.NoError(t, err)
	// The user already has their own line for the same product; merge does
	// not de-duplicate.
	_, err = f.svc.AddItem(repository.UserOwner(userID), product.ID, nil, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.MergeOnLogin(sessionKey, userID))

	userCart, err := f.svc.GetCart(repository.UserOwner(userID))
	require.NoError(t, err)
	assert.Len(t, userCart.Items, 2)
	assert.Equal(t, 3, userCart.ItemCount())

	// The guest cart is gone; a fresh one would be empty.
	guestCart, err := f.svc.GetCart(repository.SessionOwner(sessionKey))
	require.NoError(t, err)
	assert.Empty(t, guestCart.Items)
}

func TestMergeOnLogin_NoGuestCart(t *testing.T) {
	f := newCartFixture()
	assert.NoError(t, f.svc.MergeOnLogin(uuid.NewString(), uuid.New()))
}

func TestClear_EmptiesCart(t *testing.T) {
	f := newCartFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.svc.AddItem(owner, product.ID, nil, 3)
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(owner))

	cart, err := f.svc.GetCart(owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total().IsZero())
}
