package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerCredit menyimpan plafon kredit (tempo) satu customer.
// Invariant: AvailableCredit == CreditLimit - CurrentDebt, selalu.
// Baris ini hanya dimutasi oleh CreditService di dalam transaksi ber-lock.
type CustomerCredit struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `json:"customer,omitempty" validate:"-"`

	CreditLimit     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"credit_limit"`
	CurrentDebt     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"current_debt"`
	AvailableCredit decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"available_credit"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
}

// recompute menurunkan ulang AvailableCredit dari limit dan debt.
// Dipanggil pada setiap mutasi; nilai tersimpan tidak pernah dipercaya lintas write.
func (c *CustomerCredit) recompute() {
	c.AvailableCredit = c.CreditLimit.Sub(c.CurrentDebt)
}

// HasSufficientCredit checks whether the account is active and the amount fits
// within the remaining available credit.
func (c *CustomerCredit) HasSufficientCredit(amount decimal.Decimal) bool {
	return c.IsActive && c.AvailableCredit.GreaterThanOrEqual(amount)
}

// UseCredit debits the account. Returns false and leaves the account untouched
// when the amount does not fit; there is never a partial debit.
func (c *CustomerCredit) UseCredit(amount decimal.Decimal) bool {
	if !c.HasSufficientCredit(amount) {
		return false
	}
	c.CurrentDebt = c.CurrentDebt.Add(amount)
	c.recompute()
	return true
}

// ReleaseCredit pays debt back down. Debt never goes below zero, even when the
// caller releases more than is outstanding.
func (c *CustomerCredit) ReleaseCredit(amount decimal.Decimal) {
	release := decimal.Min(amount, c.CurrentDebt)
	c.CurrentDebt = c.CurrentDebt.Sub(release)
	c.recompute()
}

// SetCreditLimit updates the limit and re-derives available credit.
func (c *CustomerCredit) SetCreditLimit(limit decimal.Decimal) {
	c.CreditLimit = limit
	c.recompute()
}

// CreditUtilization returns debt as a percentage of the limit, 0 when no limit.
func (c *CustomerCredit) CreditUtilization() float64 {
	if !c.CreditLimit.IsPositive() {
		return 0
	}
	utilization, _ := c.CurrentDebt.Div(c.CreditLimit).Mul(decimal.NewFromInt(100)).Float64()
	return utilization
}

// CreditInfo is the read-only projection served to presentation layers.
type CreditInfo struct {
	CreditLimit              decimal.Decimal `json:"credit_limit"`
	CurrentDebt              decimal.Decimal `json:"current_debt"`
	AvailableCredit          decimal.Decimal `json:"available_credit"`
	CreditUtilizationPercent float64         `json:"credit_utilization_percent"`
	IsActive                 bool            `json:"is_active"`
}

// ToInfo converts the account to its presentation projection.
func (c *CustomerCredit) ToInfo() CreditInfo {
	return CreditInfo{
		CreditLimit:              c.CreditLimit,
		CurrentDebt:              c.CurrentDebt,
		AvailableCredit:          c.AvailableCredit,
		CreditUtilizationPercent: c.CreditUtilization(),
		IsActive:                 c.IsActive,
	}
}
