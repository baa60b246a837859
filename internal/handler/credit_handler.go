package handler

import (
	"errors"

	"go-materials-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditHandler struct {
	service service.CreditService
}

func NewCreditHandler(s service.CreditService) *CreditHandler {
	return &CreditHandler{service: s}
}

type GrantCreditRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Notes       string          `json:"notes"`
}

type UseCreditRequest struct {
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

func (h *CreditHandler) GrantCredit(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var req GrantCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	credit, err := h.service.GrantCredit(customerID, req.CreditLimit, req.Notes, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Credit account created", "data": credit})
}

func (h *CreditHandler) GetCreditInfo(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	info, err := h.service.GetCustomerCreditInfo(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(info)
}

// ValidateCredit adalah endpoint pre-check order flow: approve/decline plus
// alasan, bukan error.
func (h *CreditHandler) ValidateCredit(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	amount, err := decimal.NewFromString(c.Query("amount", "0"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid amount"})
	}

	result, err := h.service.ValidateCreditLimit(customerID, amount)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(result)
}

func (h *CreditHandler) UseCredit(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var req UseCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	term, err := h.service.UseCredit(req.OrderID, customerID, req.Amount, getUserID(c), getUserName(c))
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCredit) || errors.Is(err, service.ErrCreditInactive) {
			// Penolakan kredit adalah outcome user-facing, bukan server error,
			// dan tidak pernah diam-diam di-downgrade jadi cash sale.
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Credit used, payment term opened", "data": term})
}

func (h *CreditHandler) RecordPayment(c *fiber.Ctx) error {
	termID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment term ID"})
	}

	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RecordPayment(termID, req.Amount, req.Method, req.Reference, getUserID(c), getUserName(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Payment recorded"})
}

func (h *CreditHandler) UpdateCreditLimit(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var req UpdateCreditLimitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	credit, err := h.service.UpdateCreditLimit(customerID, req.CreditLimit, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Credit limit updated", "data": credit})
}

func (h *CreditHandler) ToggleCreditStatus(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	credit, err := h.service.ToggleCreditStatus(customerID, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Credit status toggled", "data": credit})
}

func (h *CreditHandler) GetOverdueAmount(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	overdue, err := h.service.GetOverdueAmount(customerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"customer_id": customerID, "overdue_amount": overdue})
}

func (h *CreditHandler) GetPaymentTerms(c *fiber.Ctx) error {
	terms, err := h.service.GetAllPaymentTerms()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(terms)
}

func (h *CreditHandler) GetPaymentTerm(c *fiber.Ctx) error {
	termID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment term ID"})
	}

	term, err := h.service.GetPaymentTermByID(termID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Payment term not found"})
	}
	return c.JSON(term)
}

func (h *CreditHandler) RefreshOverdue(c *fiber.Ctx) error {
	updated, err := h.service.RefreshOverdueStatus()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Overdue statuses refreshed", "updated": updated})
}
