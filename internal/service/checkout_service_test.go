package service

import (
	"strings"
	"testing"
	"time"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	products *fakeProductRepo
	stock    *fakeStockRepo
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
	coupons  *fakeCouponRepo
	settings *fakeSettingsRepo
	notifier *fakeNotifier
	cartSvc  CartService
	svc      CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	products := newFakeProductRepo()
	stock := newFakeStockRepo()
	carts := newFakeCartRepo(products)
	orders := newFakeOrderRepo()
	coupons := newFakeCouponRepo()
	settings := &fakeSettingsRepo{settings: model.SiteSettings{
		ShippingThreshold:   dec("50.00"),
		DefaultShippingCost: dec("5.99"),
		TaxRate:             dec("10"),
		Currency:            "USD",
	}}
	notifier := newFakeNotifier()
	txRunner := &fakeTxRunner{}

	f := &checkoutFixture{
		products: products,
		stock:    stock,
		carts:    carts,
		orders:   orders,
		coupons:  coupons,
		settings: settings,
		notifier: notifier,
		cartSvc:  NewCartService(carts, products, stock, txRunner),
	}
	f.svc = NewCheckoutService(
		carts, orders, stock, coupons, settings,
		NewPricingService(coupons),
		txRunner, notifier, nil,
	)
	return f
}

func (f *checkoutFixture) activeProduct(price string, stockQty int) *model.Product {
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

func (f *checkoutFixture) available(p *model.Product) int {
	n, _ := f.stock.Available(repository.StockRef{ProductID: p.ID})
	return n
}

func checkoutRequest() *CheckoutRequest {
	address := model.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address1:  "12 Analytical Row",
		City:      "London",
		Zipcode:   "N1 9GU",
		Country:   "UK",
	}
	return &CheckoutRequest{
		Email:           "ada@example.com",
		ShippingAddress: address,
		BillingAddress:  address,
		PaymentMethod:   "card",
	}
}

func TestCheckout_CreatesOrderAndDrainsStock(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("30.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 2)
	require.NoError(t, err)

	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Len(t, order.OrderNumber, 12)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)

	// 60 subtotal -> free shipping, 10% tax
	assert.Equal(t, "60.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "6.00", order.Tax.StringFixed(2))
	assert.Equal(t, "66.00", order.Total.StringFixed(2))

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].Name)
	assert.Equal(t, product.SKU, order.Items[0].SKU)
	assert.Equal(t, "30.00", order.Items[0].Price.StringFixed(2))

	assert.Equal(t, 8, f.available(product))

	cart, err := f.cartSvc.GetCart(owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "checkout clears the cart")

	select {
	case notified := <-f.notifier.created:
		assert.Equal(t, order.OrderNumber, notified.OrderNumber)
	case <-time.After(time.Second):
		t.Fatal("expected an order notification")
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Checkout(guestOwner(), checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 5)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 5)
	require.NoError(t, err)
	// Someone else bought the remaining stock between add and checkout.
	f.stock.set(repository.StockRef{ProductID: product.ID}, 3)

	_, err = f.svc.Checkout(owner, checkoutRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Empty(t, f.orders.orders, "no order row is written on failure")
	cart, err := f.cartSvc.GetCart(owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "the cart survives a failed checkout")
}

func TestCheckout_ExactStockDrain(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 4)
	first := guestOwner()
	second := guestOwner()

	// Both customers add while stock is still available.
	_, err := f.cartSvc.AddItem(first, product.ID, nil, 4)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(second, product.ID, nil, 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(first, checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, f.available(product))

	// The first checkout drained the counter; the second fails at reserve
	// time even though the line was added successfully.
	_, err = f.svc.Checkout(second, checkoutRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCheckout_ConsumesCoupon(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("100.00", 10)
	owner := guestOwner()

	coupon := f.coupons.add(&model.Coupon{
		Code:         "SAVE10",
		DiscountType: model.DiscountPercentage,
		Value:        dec("10"),
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidTo:      time.Now().Add(time.Hour),
		UsageLimit:   2,
		IsActive:     true,
	})

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)

	req := checkoutRequest()
	req.CouponCode = "SAVE10"
	order, err := f.svc.Checkout(owner, req)
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, "10.00", order.Discount.StringFixed(2))
	assert.Equal(t, 1, coupon.UsedCount)
}

func TestCheckout_CouponExhaustedInFlight(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("100.00", 10)
	owner := guestOwner()

	coupon := f.coupons.add(&model.Coupon{
		Code:         "LAST",
		DiscountType: model.DiscountFixed,
		Value:        dec("5.00"),
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidTo:      time.Now().Add(time.Hour),
		UsageLimit:   1,
		IsActive:     true,
	})

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)

	// A concurrent order already took the last redemption.
	coupon.UsedCount = coupon.UsageLimit

	req := checkoutRequest()
	req.CouponCode = "LAST"
	_, err = f.svc.Checkout(owner, req)
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_NotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.notifier.err = assert.AnError
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)

	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)
	require.NotNil(t, order)

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 3)
	require.NoError(t, err)
	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)
	require.Equal(t, 7, f.available(product))

	cancelled, err := f.svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.StockRestoredAt)
	assert.Equal(t, 10, f.available(product))

	// Cancelled is terminal; a repeat attempt is rejected and the counter
	// is not credited again.
	_, err = f.svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 10, f.available(product))
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)
	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)

	order, err = f.svc.UpdateStatus(order.ID, model.OrderProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderProcessing, order.Status)

	order, err = f.svc.UpdateStatus(order.ID, model.OrderShipped, "TRACK-123")
	require.NoError(t, err)
	assert.NotNil(t, order.ShippedAt)
	assert.Equal(t, "TRACK-123", order.TrackingNumber)

	order, err = f.svc.UpdateStatus(order.ID, model.OrderDelivered, "")
	require.NoError(t, err)
	assert.NotNil(t, order.DeliveredAt)

	_, err = f.svc.UpdateStatus(order.ID, model.OrderProcessing, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_SkippingStatesRejected(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)
	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(order.ID, model.OrderDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RefundMarksPayment(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)
	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)

	order, err = f.svc.UpdateStatus(order.ID, model.OrderRefunded, "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, order.PaymentStatus)
}

func TestTrackOrder_RequiresMatchingEmail(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)
	order, err := f.svc.Checkout(owner, checkoutRequest())
	require.NoError(t, err)

	found, err := f.svc.TrackOrder(order.OrderNumber, "ADA@example.com")
	require.NoError(t, err, "email match is case-insensitive")
	assert.Equal(t, order.ID, found.ID)

	_, err = f.svc.TrackOrder(order.OrderNumber, "mallory@example.com")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.TrackOrder("ORD-FFFFFFFF", "ada@example.com")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCheckout_ValidationRejectsMissingFields(t *testing.T) {
	f := newCheckoutFixture()
	product := f.activeProduct("10.00", 10)
	owner := guestOwner()

	_, err := f.cartSvc.AddItem(owner, product.ID, nil, 1)
	require.NoError(t, err)

	req := checkoutRequest()
	req.Email = "not-an-email"
	_, err = f.svc.Checkout(owner, req)
	assert.Error(t, err)
	assert.Empty(t, f.orders.orders)
}
