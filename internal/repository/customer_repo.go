package repository

import (
	"go-materials-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Preload("Credit").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Preload("Credit").Preload("PaymentTerms").First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}
