package repository

import (
	"go-materials-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceLevelRepository interface {
	Create(level *model.PriceLevel) error
	Update(level *model.PriceLevel) error
	FindByID(id uuid.UUID) (*model.PriceLevel, error)
	FindByProduct(productID uuid.UUID) ([]model.PriceLevel, error)
	// FindMatching mengembalikan breakpoint aktif yang memenuhi qty, diurut
	// min_quantity menurun: kandidat pertama adalah breakpoint tertinggi
	// yang tercapai.
	FindMatching(productID uuid.UUID, levelType model.PriceLevelType, quantity int) ([]model.PriceLevel, error)
	Deactivate(id uuid.UUID) error
}

type priceLevelRepo struct {
	db *gorm.DB
}

func NewPriceLevelRepo(db *gorm.DB) PriceLevelRepository {
	return &priceLevelRepo{db}
}

func (r *priceLevelRepo) Create(level *model.PriceLevel) error {
	return r.db.Create(level).Error
}

func (r *priceLevelRepo) Update(level *model.PriceLevel) error {
	return r.db.Save(level).Error
}

func (r *priceLevelRepo) FindByID(id uuid.UUID) (*model.PriceLevel, error) {
	var level model.PriceLevel
	err := r.db.First(&level, "id = ?", id).Error
	return &level, err
}

func (r *priceLevelRepo) FindByProduct(productID uuid.UUID) ([]model.PriceLevel, error) {
	var levels []model.PriceLevel
	err := r.db.Where("product_id = ?", productID).
		Order("level_type ASC, min_quantity ASC").
		Find(&levels).Error
	return levels, err
}

func (r *priceLevelRepo) FindMatching(productID uuid.UUID, levelType model.PriceLevelType, quantity int) ([]model.PriceLevel, error) {
	var levels []model.PriceLevel
	err := r.db.Where("product_id = ? AND level_type = ? AND min_quantity <= ? AND is_active = ?",
		productID, levelType, quantity, true).
		Order("min_quantity DESC").
		Find(&levels).Error
	return levels, err
}

func (r *priceLevelRepo) Deactivate(id uuid.UUID) error {
	return r.db.Model(&model.PriceLevel{}).Where("id = ?", id).Update("is_active", false).Error
}
