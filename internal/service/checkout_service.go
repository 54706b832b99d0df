package service

import (
	"fmt"
	"strings"
	"time"

	"go-store-api/internal/model"
	"go-store-api/internal/notify"
	"go-store-api/internal/repository"
	"go-store-api/internal/ws"
	"go-store-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const orderNumberAttempts = 10

// CheckoutRequest carries the customer-facing checkout form.
type CheckoutRequest struct {
	Email           string        `json:"email" validate:"required,email"`
	Phone           string        `json:"phone"`
	ShippingAddress model.Address `json:"shipping_address" validate:"required"`
	BillingAddress  model.Address `json:"billing_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	CouponCode      string        `json:"coupon_code"`
	Notes           string        `json:"notes"`
}

type CheckoutService interface {
	Quote(owner repository.CartOwner, couponCode string) (*Quote, error)
	Checkout(owner repository.CartOwner, req *CheckoutRequest) (*model.Order, error)
	CancelOrder(orderID uuid.UUID) (*model.Order, error)
	UpdateStatus(orderID uuid.UUID, next model.OrderStatus, trackingNumber string) (*model.Order, error)
	TrackOrder(number, email string) (*model.Order, error)
	GetOrder(orderID uuid.UUID) (*model.Order, error)
	ListForUser(userID uuid.UUID) ([]model.Order, error)
	List(status model.OrderStatus, page, perPage int) (*repository.OrderPage, error)
}

type checkoutService struct {
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	stockRepo    repository.StockRepository
	couponRepo   repository.CouponRepository
	settingsRepo repository.SettingsRepository
	pricing      PricingService
	txRunner     repository.TxRunner
	notifier     notify.Notifier
	wsHub        *ws.Hub
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	couponRepo repository.CouponRepository,
	settingsRepo repository.SettingsRepository,
	pricing PricingService,
	txRunner repository.TxRunner,
	notifier notify.Notifier,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		couponRepo:   couponRepo,
		settingsRepo: settingsRepo,
		pricing:      pricing,
		txRunner:     txRunner,
		notifier:     notifier,
		wsHub:        hub,
	}
}

// Quote prices the owner's current cart without committing anything. This
// backs the checkout preview and coupon validation endpoints.
func (s *checkoutService) Quote(owner repository.CartOwner, couponCode string) (*Quote, error) {
	cart, err := s.cartRepo.FindByOwner(owner)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	return s.pricing.Quote(cart.Items, *settings, couponCode, time.Now())
}

// Checkout converts the owner's cart into a persisted order as a single
// all-or-nothing unit: stock is reserved line by line under row locks, the
// order and its snapshotted items are inserted, coupon usage is consumed and
// the cart is cleared. Any failure rolls the whole unit back.
func (s *checkoutService) Checkout(owner repository.CartOwner, req *CheckoutRequest) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	cart, err := s.cartRepo.FindByOwner(owner)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(cart.Items, *settings, req.CouponCode, time.Now())
	if err != nil {
		return nil, err
	}

	var order *model.Order
	err = s.txRunner.Transaction(func(tx *gorm.DB) error {
		for _, item := range cart.Items {
			ref := repository.StockRef{ProductID: item.ProductID, VariantID: item.VariantID}
			if err := s.stockRepo.Reserve(tx, ref, item.Quantity); err != nil {
				return err
			}
		}

		number, err := s.uniqueOrderNumber(tx)
		if err != nil {
			return err
		}

		order = &model.Order{
			OrderNumber:     number,
			UserID:          owner.UserID,
			Email:           req.Email,
			Phone:           req.Phone,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Subtotal:        quote.Subtotal,
			ShippingCost:    quote.Shipping,
			Tax:             quote.Tax,
			Discount:        quote.Discount,
			Total:           quote.Total,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   model.PaymentPending,
			Status:          model.OrderPending,
			Notes:           req.Notes,
			Items:           snapshotItems(cart.Items),
		}
		if quote.Coupon != nil {
			order.CouponCode = quote.Coupon.Code
		}

		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		if quote.Coupon != nil {
			if err := s.couponRepo.ConsumeUsage(tx, quote.Coupon.ID); err != nil {
				if err == repository.ErrCouponExhausted {
					return ErrCouponInvalid
				}
				return err
			}
		}

		return s.cartRepo.ClearItems(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	// Notification is fire-and-forget; failure never rolls back the order.
	notify.Dispatch(s.notifier, order)
	s.broadcastOrder("order_created", order)

	return order, nil
}

// snapshotItems freezes product name, SKU and unit price into order lines,
// decoupled from future product edits.
func snapshotItems(items []model.CartItem) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		productID := item.ProductID
		line := model.OrderItem{
			ProductID: &productID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.SKU = item.Product.SKU
			line.SupplierID = item.Product.SupplierID
		}
		if item.Variant != nil {
			line.SKU = item.Variant.SKU
		}
		out = append(out, line)
	}
	return out
}

// uniqueOrderNumber generates ORD-XXXXXXXX numbers, regenerating on
// collision. The unique index on order_number backstops races between
// concurrent checkouts.
func (s *checkoutService) uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		number := "ORD-" + strings.ToUpper(raw[:8])
		exists, err := s.orderRepo.NumberExists(tx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", errOrderNumberCollision
}

// CancelOrder transitions an order to cancelled and restores each line's
// quantity onto the corresponding stock counter exactly once.
func (s *checkoutService) CancelOrder(orderID uuid.UUID) (*model.Order, error) {
	return s.transition(orderID, model.OrderCancelled, "")
}

func (s *checkoutService) UpdateStatus(orderID uuid.UUID, next model.OrderStatus, trackingNumber string) (*model.Order, error) {
	return s.transition(orderID, next, trackingNumber)
}

func (s *checkoutService) transition(orderID uuid.UUID, next model.OrderStatus, trackingNumber string) (*model.Order, error) {
	var order *model.Order
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			return ErrOrderNotFound
		}
		if !order.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		now := time.Now()
		switch next {
		case model.OrderCancelled:
			// StockRestoredAt guards against double-crediting; the row lock
			// makes the check-and-set atomic.
			if order.StockRestoredAt == nil {
				if err := s.restoreStock(tx, order); err != nil {
					return err
				}
				order.StockRestoredAt = &now
			}
		case model.OrderShipped:
			order.ShippedAt = &now
			if trackingNumber != "" {
				order.TrackingNumber = trackingNumber
			}
		case model.OrderDelivered:
			order.DeliveredAt = &now
		case model.OrderRefunded:
			order.PaymentStatus = model.PaymentRefunded
		}

		order.Status = next
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastOrder("order_"+string(next), order)
	return order, nil
}

func (s *checkoutService) restoreStock(tx *gorm.DB, order *model.Order) error {
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		ref := repository.StockRef{ProductID: *item.ProductID, VariantID: item.VariantID}
		if err := s.stockRepo.Release(tx, ref, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// TrackOrder looks an order up by number; for guest orders the email must
// match so order numbers alone do not leak order contents.
func (s *checkoutService) TrackOrder(number, email string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !strings.EqualFold(order.Email, email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *checkoutService) GetOrder(orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *checkoutService) ListForUser(userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindByUser(userID)
}

func (s *checkoutService) List(status model.OrderStatus, page, perPage int) (*repository.OrderPage, error) {
	return s.orderRepo.FindAll(status, page, perPage)
}

func (s *checkoutService) broadcastOrder(action string, order *model.Order) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.BroadcastEvent("order_update", action, map[string]interface{}{
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total":        order.Total,
		"items":        len(order.Items),
	})
}
