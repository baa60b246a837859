package service

import (
	"testing"
	"time"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(repository.NewStockMovementRepo(db), repository.NewPaymentTermRepo(db))

	// Dua produk: satu di atas reorder level, satu sudah menyentuhnya.
	seedProduct(t, db, 100) // reorder level 10, harga 50rb
	seedProduct(t, db, 5)

	customer := seedCustomer(t, db, 30)
	require.NoError(t, db.Create(&model.PaymentTerm{
		OrderID:    uuid.New(),
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, 10),
		Amount:     decimal.NewFromInt(10_000_000),
		PaidAmount: decimal.NewFromInt(4_000_000),
		Status:     model.PaymentTermPartial,
	}).Error)
	require.NoError(t, db.Create(&model.PaymentTerm{
		OrderID:    uuid.New(),
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, -5),
		Amount:     decimal.NewFromInt(5_000_000),
		Status:     model.PaymentTermOverdue,
	}).Error)
	require.NoError(t, db.Create(&model.PaymentTerm{
		OrderID:     uuid.New(),
		CustomerID:  customer.ID,
		DueDate:     time.Now().AddDate(0, 0, -20),
		Amount:      decimal.NewFromInt(3_000_000),
		PaidAmount:  decimal.NewFromInt(3_000_000),
		Status:      model.PaymentTermPaid,
		PaymentDate: func() *time.Time { d := time.Now(); return &d }(),
	}).Error)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockCount)
	// 100 sak + 5 sak @ 50rb.
	assert.True(t, stats.TotalValuation.Equal(decimal.NewFromInt(5_250_000)), "valuation = %s", stats.TotalValuation)
	// Piutang berjalan: sisa 6jt (partial) + 5jt (overdue); yang paid tidak dihitung.
	assert.True(t, stats.OutstandingReceivables.Equal(decimal.NewFromInt(11_000_000)))
	assert.True(t, stats.OverdueReceivables.Equal(decimal.NewFromInt(5_000_000)))
}

func TestDashboardService_GetStockMovement(t *testing.T) {
	db := setupTestDB(t)
	stockSvc := NewStockService(repository.NewProductRepo(db), repository.NewStockMovementRepo(db), db, nil)
	svc := NewDashboardService(repository.NewStockMovementRepo(db), repository.NewPaymentTermRepo(db))

	product := seedProduct(t, db, 0)
	_, err := stockSvc.StockIn(&StockMovementRequest{ProductID: product.ID, Quantity: 100}, "user-1", "Budi")
	require.NoError(t, err)
	_, err = stockSvc.StockIn(&StockMovementRequest{ProductID: product.ID, Quantity: 30}, "user-1", "Budi")
	require.NoError(t, err)
	_, err = stockSvc.StockOut(&StockMovementRequest{ProductID: product.ID, Quantity: 30}, "user-1", "Budi")
	require.NoError(t, err)

	// Reservasi tidak boleh masuk hitungan in/out harian.
	orderID := uuid.New()
	_, err = stockSvc.ReserveStock(&StockMovementRequest{
		ProductID:   product.ID,
		Quantity:    10,
		Reference:   model.ReferenceOrder,
		ReferenceID: &orderID,
	}, "user-1", "Budi")
	require.NoError(t, err)

	chart, err := svc.GetStockMovement(7)
	require.NoError(t, err)

	require.Len(t, chart, 1)
	assert.Equal(t, 130, chart[0].Inbound)
	assert.Equal(t, 30, chart[0].Outbound)
}
