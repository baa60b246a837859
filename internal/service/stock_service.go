package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/ws"
	"go-materials-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock remaining")
	ErrMissingOrderReference = errors.New("reservation requires an order reference")
)

// StockMovementRequest adalah input untuk satu posting movement.
type StockMovementRequest struct {
	ProductID   uuid.UUID           `json:"product_id" validate:"uuid_required"`
	Quantity    int                 `json:"quantity" validate:"required,gt=0"`
	Reference   model.ReferenceType `json:"reference_type" validate:"omitempty,oneof=none order purchase stock_opname"`
	ReferenceID *uuid.UUID          `json:"reference_id"`
	Notes       string              `json:"notes"`
	// AllowNegative hanya dihormati untuk stock out; override eksplisit
	// dari caller, bukan default.
	AllowNegative bool `json:"allow_negative"`
}

type StockService interface {
	StockIn(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error)
	StockOut(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error)
	AdjustTo(productID uuid.UUID, actualStock int, reason, notes, userID, userName string) (*model.StockMovement, error)
	ReserveStock(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error)
	ReleaseReservation(orderID uuid.UUID) (int64, error)
	ValidateStockAvailability(productID uuid.UUID, quantity int) (bool, error)
	CurrentStock(productID uuid.UUID) (int, error)
	ReservedQuantity(productID uuid.UUID) (decimal.Decimal, error)
	NeedsReordering(productID uuid.UUID) (bool, error)
	GetAllMovements() ([]model.StockMovement, error)
	GetMovementByID(id uuid.UUID) (*model.StockMovement, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, mRepo repository.StockMovementRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *stockService) StockIn(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error) {
	return s.postMovement(model.MovementIn, req, nil, userID, userName)
}

func (s *stockService) StockOut(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error) {
	return s.postMovement(model.MovementOut, req, nil, userID, userName)
}

// ReserveStock selalu menunjuk satu order: tanpa order ID, reservasinya tidak
// akan pernah bisa ditutup oleh ReleaseReservation maupun stock out.
func (s *stockService) ReserveStock(req *StockMovementRequest, userID, userName string) (*model.StockMovement, error) {
	if req.ReferenceID == nil {
		return nil, ErrMissingOrderReference
	}
	req.Reference = model.ReferenceOrder
	return s.postMovement(model.MovementReserved, req, nil, userID, userName)
}

// AdjustTo merekonsiliasi hasil stock opname fisik. Delta nol = tidak ada
// movement yang ditulis, return nil.
func (s *stockService) AdjustTo(productID uuid.UUID, actualStock int, reason, notes, userID, userName string) (*model.StockMovement, error) {
	current, err := s.CurrentStock(productID)
	if err != nil {
		return nil, err
	}

	delta := actualStock - current
	if delta == 0 {
		return nil, nil
	}

	adjType := model.AdjustmentIncrease
	if delta < 0 {
		adjType = model.AdjustmentDecrease
		delta = -delta
	}

	req := &StockMovementRequest{
		ProductID: productID,
		Quantity:  delta,
		Reference: model.ReferenceStockOpname,
		Notes:     notes,
	}
	switch {
	case reason != "" && notes != "":
		req.Notes = fmt.Sprintf("%s: %s", reason, notes)
	case reason != "":
		req.Notes = reason
	}

	return s.postMovement(model.MovementAdjustment, req, &adjType, userID, userName)
}

// postMovement adalah satu-satunya jalur tulis ke ledger: lock product row,
// hitung previous/new stock, tulis movement dan update stok dalam satu
// transaksi. Movement reserved tidak menyentuh on-hand stock.
func (s *stockService) postMovement(movementType model.MovementType, req *StockMovementRequest, adjType *model.AdjustmentType, userID, userName string) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	reference := req.Reference
	if reference == "" {
		reference = model.ReferenceNone
	}

	movement := &model.StockMovement{
		ProductID:      req.ProductID,
		Type:           movementType,
		Quantity:       decimal.NewFromInt(int64(req.Quantity)),
		AdjustmentType: adjType,
		ReferenceType:  reference,
		ReferenceID:    req.ReferenceID,
		Notes:          req.Notes,
		IsReserved:     movementType == model.MovementReserved,
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdate(tx, req.ProductID)
		if err != nil {
			return ErrProductNotFound
		}

		if movementType == model.MovementOut && !req.AllowNegative && req.Quantity > product.Stock {
			return ErrInsufficientStock
		}

		movement.Unit = product.Unit
		movement.PreviousStock = product.Stock
		movement.NewStock = product.Stock + movement.SignedDelta()
		movement.CreatedBy = userID
		movement.UpdatedBy = userID
		movement.CreatedByUserID = &userID

		if movement.NewStock != product.Stock {
			if err := s.productRepo.UpdateStock(tx, product.ID, movement.NewStock, userID); err != nil {
				return err
			}
		}

		if err := s.movementRepo.Create(tx, movement); err != nil {
			return err
		}

		// Stock out atas order yang sebelumnya direservasi: tutup reservasinya
		// supaya tidak dihitung dobel oleh checkout.
		if movementType == model.MovementOut && reference == model.ReferenceOrder && req.ReferenceID != nil {
			if _, err := s.movementRepo.ClearReservations(tx, *req.ReferenceID); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcastMovement(movement, userName)
	return movement, nil
}

// ReleaseReservation menutup reservasi aktif satu order. Ini aksi kompensasi
// saat kredit ditolak setelah stok sempat direservasi.
func (s *stockService) ReleaseReservation(orderID uuid.UUID) (int64, error) {
	var cleared int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n, err := s.movementRepo.ClearReservations(tx, orderID)
		cleared = n
		return err
	})
	return cleared, err
}

func (s *stockService) ValidateStockAvailability(productID uuid.UUID, quantity int) (bool, error) {
	current, err := s.CurrentStock(productID)
	if err != nil {
		return false, err
	}
	return current >= quantity, nil
}

func (s *stockService) CurrentStock(productID uuid.UUID) (int, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return 0, ErrProductNotFound
	}
	return product.Stock, nil
}

func (s *stockService) ReservedQuantity(productID uuid.UUID) (decimal.Decimal, error) {
	return s.movementRepo.ReservedQuantity(s.db, productID)
}

func (s *stockService) NeedsReordering(productID uuid.UUID) (bool, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return false, ErrProductNotFound
	}
	return product.NeedsReordering(), nil
}

func (s *stockService) GetAllMovements() ([]model.StockMovement, error) {
	return s.movementRepo.FindAll()
}

func (s *stockService) GetMovementByID(id uuid.UUID) (*model.StockMovement, error) {
	return s.movementRepo.FindByID(id)
}

func (s *stockService) broadcastMovement(movement *model.StockMovement, userName string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "movement_posted",
			"movement": map[string]interface{}{
				"id":             movement.ID,
				"product_id":     movement.ProductID,
				"movement_type":  movement.Type,
				"quantity":       movement.Quantity,
				"previous_stock": movement.PreviousStock,
				"new_stock":      movement.NewStock,
			},
			"message": fmt.Sprintf("%s posted %s of %s units", userName, movement.Type, movement.Quantity),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
