package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU          string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Stock        int    `gorm:"default:0" json:"stock"`
	ReorderLevel int    `gorm:"default:0" json:"reorder_level"`
	Unit         string `gorm:"type:varchar(20)" json:"unit"`

	// Harga dasar + harga khusus per segmen. Nil = fallback ke Price.
	Price           decimal.Decimal  `gorm:"type:decimal(15,2);default:0" json:"price"`
	WholesalePrice  *decimal.Decimal `gorm:"type:decimal(15,2)" json:"wholesale_price,omitempty"`
	ContractorPrice *decimal.Decimal `gorm:"type:decimal(15,2)" json:"contractor_price,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Relasi
	StockMovements []StockMovement `json:"stock_movements,omitempty"`
	PriceLevels    []PriceLevel    `json:"price_levels,omitempty"`
}

// NeedsReordering reports whether on-hand stock has dropped to the reorder threshold.
func (p *Product) NeedsReordering() bool {
	return p.Stock <= p.ReorderLevel
}
