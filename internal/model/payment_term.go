package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentTermStatus string

const (
	PaymentTermPending PaymentTermStatus = "pending"
	PaymentTermPartial PaymentTermStatus = "partial"
	PaymentTermPaid    PaymentTermStatus = "paid"
	PaymentTermOverdue PaymentTermStatus = "overdue"
)

// PaymentTerm adalah satu kewajiban kredit per order: jatuh tempo, total
// terhutang, dan pelacakan pembayaran parsial. Baris historis, tidak pernah dihapus.
type PaymentTerm struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id" validate:"uuid_required"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `json:"customer,omitempty" validate:"-"`

	DueDate     time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	Amount      decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount  decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	Status      PaymentTermStatus `gorm:"type:varchar(10);default:'pending';index" json:"status"`
	PaymentDate *time.Time        `gorm:"type:date" json:"payment_date,omitempty"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
}

// RemainingAmount is what is still owed. Never negative for a valid term.
func (p *PaymentTerm) RemainingAmount() decimal.Decimal {
	remaining := p.Amount.Sub(p.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyPaid reports whether paid amount covers the total owed.
func (p *PaymentTerm) IsFullyPaid() bool {
	return p.PaidAmount.GreaterThanOrEqual(p.Amount)
}

// IsOverdue reports whether the due date has passed without full payment.
func (p *PaymentTerm) IsOverdue(now time.Time) bool {
	return p.DueDate.Before(now) && !p.IsFullyPaid()
}

// AddPayment menambah PaidAmount dan menghitung ulang status:
// paid ketika lunas (sekaligus mengunci PaymentDate), partial ketika sudah ada
// pembayaran. Term yang overdue kembali ke partial/paid di sini; batch refresh
// yang menandai overdue lagi kalau masih lewat tempo.
// Method ini TIDAK menyentuh CustomerCredit; orchestrator yang wajib memanggil
// ReleaseCredit dengan jumlah yang sama agar dua ledger tetap konsisten.
func (p *PaymentTerm) AddPayment(amount decimal.Decimal, notes string, now time.Time) {
	p.PaidAmount = p.PaidAmount.Add(amount)

	if p.IsFullyPaid() {
		p.Status = PaymentTermPaid
		paidAt := now
		p.PaymentDate = &paidAt
	} else if p.PaidAmount.IsPositive() {
		p.Status = PaymentTermPartial
	}

	if notes != "" {
		p.AppendNote(notes, now)
	}
}

// MarkOverdue flips the status to overdue; no-op once fully paid.
func (p *PaymentTerm) MarkOverdue() {
	if p.Status != PaymentTermPaid {
		p.Status = PaymentTermOverdue
	}
}

// AppendNote adds a timestamped note line, preserving earlier lines.
func (p *PaymentTerm) AppendNote(note string, now time.Time) {
	line := fmt.Sprintf("[%s] %s", now.Format("2006-01-02 15:04"), note)
	if strings.TrimSpace(p.Notes) == "" {
		p.Notes = line
		return
	}
	p.Notes = p.Notes + "\n" + line
}
