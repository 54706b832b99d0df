package handler

import (
	"errors"

	"go-store-api/internal/middleware"
	"go-store-api/internal/model"
	"go-store-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(s service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

type quoteRequest struct {
	CouponCode string `json:"coupon_code"`
}

type updateStatusRequest struct {
	Status         model.OrderStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number"`
}

// Quote prices the current cart, optionally with a coupon applied. It is
// also the coupon validation endpoint: an invalid code comes back as 422.
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var req quoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	quote, err := h.service.Quote(middleware.CartOwner(c), req.CouponCode)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(quote)
}

func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Checkout(middleware.CartOwner(c), &req)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order placed", "data": order})
}

// TrackOrder is the guest-facing lookup: order number plus the email the
// order was placed with.
func (h *CheckoutHandler) TrackOrder(c *fiber.Ctx) error {
	number := c.Query("number")
	email := c.Query("email")
	if number == "" || email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "number and email are required"})
	}

	order, err := h.service.TrackOrder(number, email)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

func (h *CheckoutHandler) MyOrders(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	orders, err := h.service.ListForUser(*userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *CheckoutHandler) GetMyOrder(c *fiber.Ctx) error {
	order, ok, err := h.ownOrder(c)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return c.JSON(order)
}

// CancelMyOrder lets a customer cancel their own order while the state
// machine still allows it.
func (h *CheckoutHandler) CancelMyOrder(c *fiber.Ctx) error {
	order, ok, err := h.ownOrder(c)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	cancelled, err := h.service.CancelOrder(order.ID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled", "data": cancelled})
}

// ownOrder loads the order from the :id param and enforces that it belongs
// to the authenticated user. On failure it writes the response itself and
// returns ok=false.
func (h *CheckoutHandler) ownOrder(c *fiber.Ctx) (*model.Order, bool, error) {
	userID := middleware.UserID(c)
	if userID == nil {
		return nil, false, c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, false, c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return nil, false, orderError(c, err)
	}
	if order.UserID == nil || *order.UserID != *userID {
		return nil, false, c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return order, true, nil
}

// Admin endpoints.

func (h *CheckoutHandler) ListOrders(c *fiber.Ctx) error {
	page, err := h.service.List(
		model.OrderStatus(c.Query("status")),
		c.QueryInt("page", 1),
		c.QueryInt("per_page", 20),
	)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(page)
}

func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

func (h *CheckoutHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateStatus(orderID, req.Status, req.TrackingNumber)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

func (h *CheckoutHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.CancelOrder(orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled", "data": order})
}

func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	case errors.Is(err, service.ErrEmptyCart):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrCouponInvalid),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponMinimumNotMet):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
