package handler

import (
	"go-store-api/internal/middleware"
	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountHandler covers the customer self-service surface: shipping
// addresses, the wishlist and newsletter subscription. These are thin CRUD
// operations, so the handler talks to the repositories directly.
type AccountHandler struct {
	addressRepo    repository.AddressRepository
	wishlistRepo   repository.WishlistRepository
	newsletterRepo repository.NewsletterRepository
}

func NewAccountHandler(
	addressRepo repository.AddressRepository,
	wishlistRepo repository.WishlistRepository,
	newsletterRepo repository.NewsletterRepository,
) *AccountHandler {
	return &AccountHandler{
		addressRepo:    addressRepo,
		wishlistRepo:   wishlistRepo,
		newsletterRepo: newsletterRepo,
	}
}

func (h *AccountHandler) ListAddresses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	addresses, err := h.addressRepo.FindByUser(*userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(addresses)
}

func (h *AccountHandler) CreateAddress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var address model.ShippingAddress
	if err := c.BodyParser(&address); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	address.UserID = *userID

	if err := h.addressRepo.Create(&address); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if address.IsDefault {
		if err := h.addressRepo.SetDefault(*userID, address.ID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}
	return c.Status(201).JSON(fiber.Map{"message": "Address created", "data": address})
}

func (h *AccountHandler) UpdateAddress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid address ID"})
	}

	existing, err := h.addressRepo.FindByID(*userID, addressID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Address not found"})
	}

	var address model.ShippingAddress
	if err := c.BodyParser(&address); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Address = address.Address
	existing.Phone = address.Phone
	if err := h.addressRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if address.IsDefault && !existing.IsDefault {
		if err := h.addressRepo.SetDefault(*userID, existing.ID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		existing.IsDefault = true
	}
	return c.JSON(fiber.Map{"message": "Address updated", "data": existing})
}

func (h *AccountHandler) DeleteAddress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid address ID"})
	}

	if err := h.addressRepo.Delete(*userID, addressID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}

func (h *AccountHandler) SetDefaultAddress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid address ID"})
	}

	if err := h.addressRepo.SetDefault(*userID, addressID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Default address updated"})
}

func (h *AccountHandler) GetWishlist(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := h.wishlistRepo.FindByUser(*userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// ToggleWishlist adds the product to the wishlist if absent, removes it
// otherwise.
func (h *AccountHandler) ToggleWishlist(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	wishlisted, err := h.wishlistRepo.Toggle(*userID, productID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"wishlisted": wishlisted})
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AccountHandler) SubscribeNewsletter(c *fiber.Ctx) error {
	var req newsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email is required"})
	}

	if err := h.newsletterRepo.Subscribe(req.Email); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Subscribed"})
}

func (h *AccountHandler) UnsubscribeNewsletter(c *fiber.Ctx) error {
	var req newsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email is required"})
	}

	if err := h.newsletterRepo.Unsubscribe(req.Email); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed"})
}
