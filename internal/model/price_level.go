package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceLevelType is the customer segment a tiered price applies to.
type PriceLevelType string

const (
	PriceLevelRetail      PriceLevelType = "retail"
	PriceLevelWholesale   PriceLevelType = "wholesale"
	PriceLevelContractor  PriceLevelType = "contractor"
	PriceLevelDistributor PriceLevelType = "distributor"
)

func (t PriceLevelType) IsValid() bool {
	switch t {
	case PriceLevelRetail, PriceLevelWholesale, PriceLevelContractor, PriceLevelDistributor:
		return true
	}
	return false
}

// PriceLevel adalah satu breakpoint harga: berlaku untuk segmen LevelType
// mulai kuantitas MinQuantity. Beberapa baris per product/segmen = tangga harga.
// Dikelola merchandising; read-only bagi ledger core.
type PriceLevel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	LevelType   PriceLevelType  `gorm:"type:varchar(20);not null;index" json:"level_type" validate:"required,oneof=retail wholesale contractor distributor"`
	MinQuantity int             `gorm:"default:1" json:"min_quantity" validate:"gte=1"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
}
