package repository

import (
	"time"

	"go-materials-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	// Create menulis satu movement di dalam tx yang sama dengan update stok product.
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll() ([]model.StockMovement, error)
	FindByID(id uuid.UUID) (*model.StockMovement, error)
	FindByProduct(productID uuid.UUID) ([]model.StockMovement, error)
	// ReservedQuantity menjumlah reservasi yang masih aktif untuk satu product.
	ReservedQuantity(tx *gorm.DB, productID uuid.UUID) (decimal.Decimal, error)
	// ClearReservations menutup reservasi aktif yang menunjuk satu order.
	ClearReservations(tx *gorm.DB, orderID uuid.UUID) (int64, error)
	GetMovementChart(startDate, endDate time.Time) ([]MovementChartData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// MovementChartData untuk chart pergerakan stok per hari
type MovementChartData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindAll() ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").Preload("CreatedByUser").Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&movement, "id = ?", id).Error
	return &movement, err
}

func (r *stockMovementRepo) FindByProduct(productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) ReservedQuantity(tx *gorm.DB, productID uuid.UUID) (decimal.Decimal, error) {
	var reserved decimal.Decimal
	err := tx.Model(&model.StockMovement{}).
		Where("product_id = ? AND type = ? AND is_reserved = ?", productID, model.MovementReserved, true).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error
	return reserved, err
}

func (r *stockMovementRepo) ClearReservations(tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	res := tx.Model(&model.StockMovement{}).
		Where("reference_type = ? AND reference_id = ? AND type = ? AND is_reserved = ?",
			model.ReferenceOrder, orderID, model.MovementReserved, true).
		Update("is_reserved", false)
	return res.RowsAffected, res.Error
}

func (r *stockMovementRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	// Total Products
	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)

	// Low Stock Count (stock sudah menyentuh reorder level)
	r.db.Model(&model.Product{}).Where("stock <= reorder_level").Count(&stats.LowStockCount)

	// Total Valuation (SUM of stock * price)
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}

func (r *stockMovementRepo) GetMovementChart(startDate, endDate time.Time) ([]MovementChartData, error) {
	var results []MovementChartData

	// Aggregate movements per hari; reservasi tidak dihitung.
	// Kolom quantity decimal: SUM di-cast ke integer supaya bisa di-scan ke int
	// di postgres (numeric di-render "130.00").
	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			CAST(COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE 0 END), 0) AS INTEGER) as inbound,
			CAST(COALESCE(SUM(CASE WHEN type = 'out' THEN quantity ELSE 0 END), 0) AS INTEGER) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data MovementChartData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
