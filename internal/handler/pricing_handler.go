package handler

import (
	"strconv"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/service"
	"go-materials-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PricingHandler struct {
	service        service.PricingService
	priceLevelRepo repository.PriceLevelRepository
}

func NewPricingHandler(s service.PricingService, plRepo repository.PriceLevelRepository) *PricingHandler {
	return &PricingHandler{service: s, priceLevelRepo: plRepo}
}

// GetPrice resolves the unit price for ?type=wholesale&qty=60 style queries.
func (h *PricingHandler) GetPrice(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	levelType := model.PriceLevelType(c.Query("type", string(model.PriceLevelRetail)))
	qty, err := strconv.Atoi(c.Query("qty", "1"))
	if err != nil || qty < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quantity"})
	}

	price, err := h.service.PriceFor(productID, levelType, qty)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	discount, _ := h.service.DiscountPercent(productID, price)

	return c.JSON(fiber.Map{
		"product_id":       productID,
		"level_type":       levelType,
		"quantity":         qty,
		"unit_price":       price,
		"discount_percent": discount,
	})
}

func (h *PricingHandler) GetPriceLevels(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	levels, err := h.priceLevelRepo.FindByProduct(productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(levels)
}

func (h *PricingHandler) CreatePriceLevel(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var level model.PriceLevel
	if err := c.BodyParser(&level); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	level.ProductID = productID
	level.CreatedBy = getUserID(c)
	level.UpdatedBy = getUserID(c)

	if errs := validator.ValidateStruct(&level); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: Field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}
	if !level.Price.IsPositive() {
		return c.Status(400).JSON(fiber.Map{"error": "Price must be greater than zero"})
	}

	if err := h.priceLevelRepo.Create(&level); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create price level"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Price level created", "data": level})
}

func (h *PricingHandler) UpdatePriceLevel(c *fiber.Ctx) error {
	levelID, err := parseUUID(c.Params("levelId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price level ID"})
	}

	existing, err := h.priceLevelRepo.FindByID(levelID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Price level not found"})
	}

	var req struct {
		MinQuantity *int             `json:"min_quantity"`
		Price       *decimal.Decimal `json:"price"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.MinQuantity != nil {
		existing.MinQuantity = *req.MinQuantity
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedBy = getUserID(c)

	if err := h.priceLevelRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update price level"})
	}
	return c.JSON(fiber.Map{"message": "Price level updated", "data": existing})
}

func (h *PricingHandler) DeactivatePriceLevel(c *fiber.Ctx) error {
	levelID, err := parseUUID(c.Params("levelId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price level ID"})
	}

	if err := h.priceLevelRepo.Deactivate(levelID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate price level"})
	}
	return c.JSON(fiber.Map{"message": "Price level deactivated"})
}
