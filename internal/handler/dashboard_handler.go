package handler

import (
	"strconv"

	"go-materials-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 {
		days = 7
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(data)
}
