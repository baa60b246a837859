package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback jika tidak ada (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
