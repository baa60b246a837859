package service

import (
	"testing"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB membuka SQLite in-memory dan migrate semua model,
// dipakai semua test service di package ini.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.StockMovement{}, &model.PriceLevel{},
		&model.Customer{}, &model.CustomerCredit{}, &model.PaymentTerm{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	))
	return db
}

func newStockService(t *testing.T) (StockService, *gorm.DB) {
	db := setupTestDB(t)
	return NewStockService(repository.NewProductRepo(db), repository.NewStockMovementRepo(db), db, nil), db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *model.Product {
	product := &model.Product{
		SKU:          "SMN-50-" + uuid.NewString()[:8],
		Name:         "Semen 50kg",
		Stock:        stock,
		ReorderLevel: 10,
		Unit:         "sak",
		Price:        decimal.NewFromInt(50_000),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func movementCount(t *testing.T, db *gorm.DB, productID uuid.UUID) int64 {
	var count int64
	require.NoError(t, db.Model(&model.StockMovement{}).Where("product_id = ?", productID).Count(&count).Error)
	return count
}

func TestStockService_StockIn(t *testing.T) {
	svc, db := newStockService(t)
	product := seedProduct(t, db, 40)

	movement, err := svc.StockIn(&StockMovementRequest{
		ProductID: product.ID,
		Quantity:  100,
		Reference: model.ReferencePurchase,
		Notes:     "kiriman supplier",
	}, "user-1", "Budi")

	require.NoError(t, err)
	assert.Equal(t, model.MovementIn, movement.Type)
	assert.Equal(t, 40, movement.PreviousStock)
	assert.Equal(t, 140, movement.NewStock)
	assert.Equal(t, "sak", movement.Unit)

	stock, err := svc.CurrentStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 140, stock)
}

func TestStockService_StockOut(t *testing.T) {
	t.Run("insufficient stock leaves ledger and product untouched", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 10)

		_, err := svc.StockOut(&StockMovementRequest{
			ProductID: product.ID,
			Quantity:  25,
		}, "user-1", "Budi")

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.EqualValues(t, 0, movementCount(t, db, product.ID))

		stock, err := svc.CurrentStock(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, stock)
	})

	t.Run("allow_negative overrides the guard", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 10)

		movement, err := svc.StockOut(&StockMovementRequest{
			ProductID:     product.ID,
			Quantity:      25,
			AllowNegative: true,
		}, "user-1", "Budi")

		require.NoError(t, err)
		assert.Equal(t, -15, movement.NewStock)
	})

	t.Run("exact remaining stock is allowed", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 25)

		movement, err := svc.StockOut(&StockMovementRequest{
			ProductID: product.ID,
			Quantity:  25,
		}, "user-1", "Budi")

		require.NoError(t, err)
		assert.Equal(t, 0, movement.NewStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := newStockService(t)

		_, err := svc.StockOut(&StockMovementRequest{
			ProductID: uuid.New(),
			Quantity:  1,
		}, "user-1", "Budi")

		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestStockService_AdjustTo(t *testing.T) {
	t.Run("records the delta from a physical count", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)

		movement, err := svc.AdjustTo(product.ID, 90, "stock opname gudang", "3 sak rusak", "user-1", "Budi")

		require.NoError(t, err)
		assert.Equal(t, model.MovementAdjustment, movement.Type)
		require.NotNil(t, movement.AdjustmentType)
		assert.Equal(t, model.AdjustmentDecrease, *movement.AdjustmentType)
		assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, model.ReferenceStockOpname, movement.ReferenceType)
		assert.Equal(t, "stock opname gudang: 3 sak rusak", movement.Notes)

		stock, err := svc.CurrentStock(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, stock)
	})

	t.Run("count above system stock adjusts upward", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)

		movement, err := svc.AdjustTo(product.ID, 110, "", "", "user-1", "Budi")

		require.NoError(t, err)
		require.NotNil(t, movement.AdjustmentType)
		assert.Equal(t, model.AdjustmentIncrease, *movement.AdjustmentType)
		assert.Equal(t, 110, movement.NewStock)
	})

	t.Run("zero delta writes nothing", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)

		movement, err := svc.AdjustTo(product.ID, 100, "stock opname", "", "user-1", "Budi")

		require.NoError(t, err)
		assert.Nil(t, movement)
		assert.EqualValues(t, 0, movementCount(t, db, product.ID))
	})
}

func TestStockService_Reservations(t *testing.T) {
	t.Run("reserving never changes on-hand stock", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)
		orderID := uuid.New()

		movement, err := svc.ReserveStock(&StockMovementRequest{
			ProductID:   product.ID,
			Quantity:    40,
			Reference:   model.ReferenceOrder,
			ReferenceID: &orderID,
		}, "user-1", "Budi")

		require.NoError(t, err)
		assert.True(t, movement.IsReserved)
		assert.Equal(t, 100, movement.NewStock)

		stock, err := svc.CurrentStock(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, stock)

		reserved, err := svc.ReservedQuantity(product.ID)
		require.NoError(t, err)
		assert.True(t, reserved.Equal(decimal.NewFromInt(40)))
	})

	t.Run("stock out against the order closes its reservation", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)
		orderID := uuid.New()

		_, err := svc.ReserveStock(&StockMovementRequest{
			ProductID:   product.ID,
			Quantity:    40,
			Reference:   model.ReferenceOrder,
			ReferenceID: &orderID,
		}, "user-1", "Budi")
		require.NoError(t, err)

		_, err = svc.StockOut(&StockMovementRequest{
			ProductID:   product.ID,
			Quantity:    40,
			Reference:   model.ReferenceOrder,
			ReferenceID: &orderID,
		}, "user-1", "Budi")
		require.NoError(t, err)

		reserved, err := svc.ReservedQuantity(product.ID)
		require.NoError(t, err)
		assert.True(t, reserved.IsZero())
	})

	t.Run("reservation without an order reference is rejected", func(t *testing.T) {
		// Tanpa order ID reservasi jadi yatim: tidak bisa ditutup release
		// maupun stock out.
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)

		_, err := svc.ReserveStock(&StockMovementRequest{
			ProductID: product.ID,
			Quantity:  40,
		}, "user-1", "Budi")

		assert.ErrorIs(t, err, ErrMissingOrderReference)
		assert.EqualValues(t, 0, movementCount(t, db, product.ID))
	})

	t.Run("release is the compensation path when credit is declined", func(t *testing.T) {
		svc, db := newStockService(t)
		product := seedProduct(t, db, 100)
		orderID := uuid.New()

		_, err := svc.ReserveStock(&StockMovementRequest{
			ProductID:   product.ID,
			Quantity:    40,
			Reference:   model.ReferenceOrder,
			ReferenceID: &orderID,
		}, "user-1", "Budi")
		require.NoError(t, err)

		cleared, err := svc.ReleaseReservation(orderID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, cleared)

		reserved, err := svc.ReservedQuantity(product.ID)
		require.NoError(t, err)
		assert.True(t, reserved.IsZero())

		// Release kedua tidak menemukan reservasi aktif lagi.
		cleared, err = svc.ReleaseReservation(orderID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, cleared)
	})
}

func TestStockService_ValidateStockAvailability(t *testing.T) {
	svc, db := newStockService(t)
	product := seedProduct(t, db, 30)

	ok, err := svc.ValidateStockAvailability(product.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ValidateStockAvailability(product.ID, 31)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockService_NeedsReordering(t *testing.T) {
	svc, db := newStockService(t)
	product := seedProduct(t, db, 100) // reorder level 10

	needs, err := svc.NeedsReordering(product.ID)
	require.NoError(t, err)
	assert.False(t, needs)

	_, err = svc.StockOut(&StockMovementRequest{ProductID: product.ID, Quantity: 90}, "user-1", "Budi")
	require.NoError(t, err)

	needs, err = svc.NeedsReordering(product.ID)
	require.NoError(t, err)
	assert.True(t, needs)
}
