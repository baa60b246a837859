package handler

import (
	"errors"

	"go-materials-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// AdjustStockRequest untuk rekonsiliasi stock opname: stok aktual hasil hitung fisik.
type AdjustStockRequest struct {
	ActualStock int    `json:"actual_stock" validate:"gte=0"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
}

func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var req service.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.StockIn(&req, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock in recorded", "data": movement})
}

func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var req service.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.StockOut(&req, getUserID(c), getUserName(c))
	if err != nil {
		if errors.Is(err, service.ErrInsufficientStock) {
			// Recoverable: caller memutuskan blok penjualan atau backorder.
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock out recorded", "data": movement})
}

func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.AdjustTo(productID, req.ActualStock, req.Reason, req.Notes, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if movement == nil {
		return c.JSON(fiber.Map{"message": "Stock already matches, nothing to adjust"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": movement})
}

func (h *StockHandler) ReserveStock(c *fiber.Ctx) error {
	var req service.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.ReserveStock(&req, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock reserved", "data": movement})
}

func (h *StockHandler) ReleaseReservation(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("orderId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	cleared, err := h.service.ReleaseReservation(orderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Reservation released", "cleared": cleared})
}

func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetAllMovements()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

func (h *StockHandler) GetMovement(c *fiber.Ctx) error {
	movementID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	movement, err := h.service.GetMovementByID(movementID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Movement not found"})
	}
	return c.JSON(movement)
}

func (h *StockHandler) GetProductStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	stock, err := h.service.CurrentStock(productID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	reserved, err := h.service.ReservedQuantity(productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	needsReorder, _ := h.service.NeedsReordering(productID)

	return c.JSON(fiber.Map{
		"product_id":       productID,
		"stock":            stock,
		"reserved":         reserved,
		"needs_reordering": needsReorder,
	})
}
