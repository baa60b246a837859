package repository

import (
	"time"

	"go-materials-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentTermRepository interface {
	Create(tx *gorm.DB, term *model.PaymentTerm) error
	FindAll() ([]model.PaymentTerm, error)
	FindByID(id uuid.UUID) (*model.PaymentTerm, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PaymentTerm, error)
	FindByOrderID(orderID uuid.UUID) (*model.PaymentTerm, error)
	FindByCustomer(customerID uuid.UUID) ([]model.PaymentTerm, error)
	Save(tx *gorm.DB, term *model.PaymentTerm) error
	// MarkOverdue adalah bulk update idempotent: semua term lewat jatuh tempo
	// yang belum paid ditandai overdue dalam satu statement.
	MarkOverdue(now time.Time) (int64, error)
	// SumOverdueByCustomer menjumlah sisa hutang (amount - paid_amount) term
	// yang sudah lewat jatuh tempo untuk satu customer.
	SumOverdueByCustomer(customerID uuid.UUID, now time.Time) (decimal.Decimal, error)
	SumOverdue(now time.Time) (decimal.Decimal, error)
	SumOutstanding() (decimal.Decimal, error)
}

type paymentTermRepo struct {
	db *gorm.DB
}

func NewPaymentTermRepo(db *gorm.DB) PaymentTermRepository {
	return &paymentTermRepo{db}
}

func (r *paymentTermRepo) Create(tx *gorm.DB, term *model.PaymentTerm) error {
	return tx.Create(term).Error
}

func (r *paymentTermRepo) FindAll() ([]model.PaymentTerm, error) {
	var terms []model.PaymentTerm
	err := r.db.Preload("Customer").Order("due_date ASC").Find(&terms).Error
	return terms, err
}

func (r *paymentTermRepo) FindByID(id uuid.UUID) (*model.PaymentTerm, error) {
	var term model.PaymentTerm
	err := r.db.Preload("Customer").First(&term, "id = ?", id).Error
	return &term, err
}

func (r *paymentTermRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PaymentTerm, error) {
	var term model.PaymentTerm
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&term, "id = ?", id).Error
	return &term, err
}

func (r *paymentTermRepo) FindByOrderID(orderID uuid.UUID) (*model.PaymentTerm, error) {
	var term model.PaymentTerm
	err := r.db.First(&term, "order_id = ?", orderID).Error
	return &term, err
}

func (r *paymentTermRepo) FindByCustomer(customerID uuid.UUID) ([]model.PaymentTerm, error) {
	var terms []model.PaymentTerm
	err := r.db.Where("customer_id = ?", customerID).Order("due_date ASC").Find(&terms).Error
	return terms, err
}

func (r *paymentTermRepo) Save(tx *gorm.DB, term *model.PaymentTerm) error {
	return tx.Save(term).Error
}

func (r *paymentTermRepo) MarkOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&model.PaymentTerm{}).
		Where("due_date < ? AND status NOT IN ?", now, []model.PaymentTermStatus{model.PaymentTermPaid, model.PaymentTermOverdue}).
		Update("status", model.PaymentTermOverdue)
	return res.RowsAffected, res.Error
}

func (r *paymentTermRepo) SumOverdueByCustomer(customerID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.PaymentTerm{}).
		Where("customer_id = ? AND due_date < ? AND status <> ?", customerID, now, model.PaymentTermPaid).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *paymentTermRepo) SumOverdue(now time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.PaymentTerm{}).
		Where("due_date < ? AND status <> ?", now, model.PaymentTermPaid).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *paymentTermRepo) SumOutstanding() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.PaymentTerm{}).
		Where("status <> ?", model.PaymentTermPaid).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Scan(&total).Error
	return total, err
}
