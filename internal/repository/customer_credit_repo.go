package repository

import (
	"go-materials-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerCreditRepository interface {
	Create(credit *model.CustomerCredit) error
	FindByCustomerID(customerID uuid.UUID) (*model.CustomerCredit, error)
	// FindByCustomerIDForUpdate mengambil akun kredit dengan row lock; semua
	// mutasi debt/limit wajib lewat sini agar dua order serentak tidak
	// double-spend available credit.
	FindByCustomerIDForUpdate(tx *gorm.DB, customerID uuid.UUID) (*model.CustomerCredit, error)
	Save(tx *gorm.DB, credit *model.CustomerCredit) error
}

type customerCreditRepo struct {
	db *gorm.DB
}

func NewCustomerCreditRepo(db *gorm.DB) CustomerCreditRepository {
	return &customerCreditRepo{db}
}

func (r *customerCreditRepo) Create(credit *model.CustomerCredit) error {
	return r.db.Create(credit).Error
}

func (r *customerCreditRepo) FindByCustomerID(customerID uuid.UUID) (*model.CustomerCredit, error) {
	var credit model.CustomerCredit
	err := r.db.First(&credit, "customer_id = ?", customerID).Error
	return &credit, err
}

func (r *customerCreditRepo) FindByCustomerIDForUpdate(tx *gorm.DB, customerID uuid.UUID) (*model.CustomerCredit, error) {
	var credit model.CustomerCredit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&credit, "customer_id = ?", customerID).Error
	return &credit, err
}

func (r *customerCreditRepo) Save(tx *gorm.DB, credit *model.CustomerCredit) error {
	return tx.Save(credit).Error
}
