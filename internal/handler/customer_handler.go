package handler

import (
	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerHandler(repo repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customerRepo: repo}
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	customer, err := h.customerRepo.FindByID(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&customer); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: Field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	if customer.Type == "" {
		customer.Type = model.PriceLevelRetail
	}

	userID := getUserID(c)
	customer.CreatedBy = userID
	customer.UpdatedBy = userID
	customer.CreatedByUserID = &userID

	if err := h.customerRepo.Create(&customer); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create customer"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	existing, err := h.customerRepo.FindByID(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}

	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Address = req.Address
	if req.Type != "" {
		existing.Type = req.Type
	}
	existing.PaymentTermDays = req.PaymentTermDays
	existing.UpdatedBy = getUserID(c)

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: Field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	if err := h.customerRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update customer"})
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": existing})
}
