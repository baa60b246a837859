package model

// Customer adalah pembeli toko: retail umum, toko grosir, kontraktor, atau
// distributor. Type menentukan tangga harga yang dipakai PricingService;
// PaymentTermDays > 0 berarti customer boleh belanja tempo.
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`

	Type            PriceLevelType `gorm:"type:varchar(20);default:'retail'" json:"type" validate:"omitempty,oneof=retail wholesale contractor distributor"`
	PaymentTermDays int            `gorm:"default:0" json:"payment_term_days" validate:"gte=0"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`

	// Relasi
	Credit       *CustomerCredit `json:"credit,omitempty"`
	PaymentTerms []PaymentTerm   `json:"payment_terms,omitempty"`
}
