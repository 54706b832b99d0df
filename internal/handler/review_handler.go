package handler

import (
	"errors"

	"go-store-api/internal/middleware"
	"go-store-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

func (h *ReviewHandler) AddReview(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	review, err := h.service.AddReview(*userID, productID, &req)
	if err != nil {
		return reviewError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Review submitted for moderation", "data": review})
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	var req service.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	review, err := h.service.UpdateReview(*userID, reviewID, &req)
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review updated", "data": review})
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	if err := h.service.DeleteReview(*userID, reviewID); err != nil {
		return reviewError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}

func (h *ReviewHandler) MyReviews(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reviews, err := h.service.ListByUser(*userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reviews)
}

// Admin moderation.

func (h *ReviewHandler) ListPending(c *fiber.Ctx) error {
	reviews, err := h.service.ListPending()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	review, err := h.service.Approve(reviewID)
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review approved", "data": review})
}

func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Review not found"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReviewed):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
