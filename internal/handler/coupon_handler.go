package handler

import (
	"strings"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"
	"go-store-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CouponHandler is the admin coupon CRUD surface. Storefront redemption
// happens through the checkout quote, not here.
type CouponHandler struct {
	couponRepo repository.CouponRepository
}

func NewCouponHandler(couponRepo repository.CouponRepository) *CouponHandler {
	return &CouponHandler{couponRepo: couponRepo}
}

func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.couponRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(coupons)
}

func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid coupon ID"})
	}

	coupon, err := h.couponRepo.FindByID(couponID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Coupon not found"})
	}
	return c.JSON(coupon)
}

func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var coupon model.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))

	if errs := validator.ValidateStruct(coupon); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed",
			"field": firstErr.FailedField,
			"tag":   firstErr.Tag,
		})
	}
	if !coupon.ValidTo.After(coupon.ValidFrom) {
		return c.Status(400).JSON(fiber.Map{"error": "valid_to must be after valid_from"})
	}

	if err := h.couponRepo.Create(&coupon); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Coupon created", "data": coupon})
}

func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid coupon ID"})
	}

	existing, err := h.couponRepo.FindByID(couponID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Coupon not found"})
	}

	var coupon model.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// Code and usage counters are immutable after creation.
	existing.DiscountType = coupon.DiscountType
	existing.Value = coupon.Value
	existing.MinimumOrder = coupon.MinimumOrder
	existing.ValidFrom = coupon.ValidFrom
	existing.ValidTo = coupon.ValidTo
	existing.UsageLimit = coupon.UsageLimit
	existing.IsActive = coupon.IsActive

	if err := h.couponRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Coupon updated", "data": existing})
}

func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid coupon ID"})
	}

	if err := h.couponRepo.Delete(couponID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Coupon deleted"})
}
