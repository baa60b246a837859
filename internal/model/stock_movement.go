package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementReserved   MovementType = "reserved"
)

// IsValid reports whether the movement type is one of the allowed set.
// Invalid types are a programmer error and must be rejected before any write.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReserved:
		return true
	}
	return false
}

type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// ReferenceType tags the document a movement originated from.
// "none" movements are manual postings from the back-office.
type ReferenceType string

const (
	ReferenceNone        ReferenceType = "none"
	ReferenceOrder       ReferenceType = "order"
	ReferencePurchase    ReferenceType = "purchase"
	ReferenceStockOpname ReferenceType = "stock_opname"
)

func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceNone, ReferenceOrder, ReferencePurchase, ReferenceStockOpname:
		return true
	}
	return false
}

var (
	ErrInvalidMovementType = errors.New("invalid stock movement type")
	ErrInvalidQuantity     = errors.New("movement quantity must be a positive whole number")
	ErrInvalidReference    = errors.New("invalid movement reference type")
)

// StockMovement adalah satu baris log append-only. Tidak pernah di-update
// atau dihapus; koreksi dilakukan lewat movement adjustment baru.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product     `json:"product,omitempty" validate:"-"`
	Type      MovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=in out adjustment reserved"`

	// Kuantitas selalu positif; arah ditentukan oleh Type.
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"`
	PreviousStock int             `gorm:"not null" json:"previous_stock"`
	NewStock      int             `gorm:"not null" json:"new_stock"`

	// Reserved movements flag stok yang di-earmark untuk order pending,
	// tanpa mengubah on-hand stock.
	IsReserved     bool            `gorm:"default:false" json:"is_reserved"`
	AdjustmentType *AdjustmentType `gorm:"type:varchar(10)" json:"adjustment_type,omitempty"`

	ReferenceType ReferenceType `gorm:"type:varchar(20);default:'none'" json:"reference_type"`
	ReferenceID   *uuid.UUID    `gorm:"type:uuid" json:"reference_id,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// Validate enforces the construction rules before a movement is written.
func (m *StockMovement) Validate() error {
	if !m.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMovementType, m.Type)
	}
	if !m.Quantity.IsPositive() || !m.Quantity.IsInteger() {
		return ErrInvalidQuantity
	}
	if m.ReferenceType != "" && !m.ReferenceType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReference, m.ReferenceType)
	}
	return nil
}

// SignedDelta returns the stock delta this movement applies:
// in/adjustment-increase tambah, out/adjustment-decrease kurang,
// reserved tidak mengubah on-hand sama sekali.
func (m *StockMovement) SignedDelta() int {
	qty := int(m.Quantity.IntPart())
	switch m.Type {
	case MovementIn:
		return qty
	case MovementOut:
		return -qty
	case MovementAdjustment:
		if m.AdjustmentType != nil && *m.AdjustmentType == AdjustmentDecrease {
			return -qty
		}
		return qty
	}
	return 0
}
