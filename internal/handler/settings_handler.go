package handler

import (
	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingsRepo.Get()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	existing, err := h.settingsRepo.Get()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	var settings model.SiteSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.SiteName = settings.SiteName
	existing.ContactEmail = settings.ContactEmail
	existing.ContactPhone = settings.ContactPhone
	existing.ShippingThreshold = settings.ShippingThreshold
	existing.DefaultShippingCost = settings.DefaultShippingCost
	existing.TaxRate = settings.TaxRate
	existing.Currency = settings.Currency

	if err := h.settingsRepo.Update(existing); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Settings updated", "data": existing})
}
