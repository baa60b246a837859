package service

import (
	"testing"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(repository.NewProductRepo(db), nil)

	t.Run("initial stock is always zero", func(t *testing.T) {
		// Saldo stok hanya lahir dari movement; stok pembukaan diposting
		// sebagai stock in terpisah.
		product := &model.Product{
			SKU:   "BSI-10",
			Name:  "Besi Beton 10mm",
			Stock: 250,
			Unit:  "batang",
			Price: decimal.NewFromInt(75_000),
		}

		require.NoError(t, svc.CreateProduct(product, "user-1", "Budi"))
		assert.Equal(t, 0, product.Stock)

		saved, err := svc.GetProductByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, saved.Stock)
	})

	t.Run("duplicate SKU is rejected", func(t *testing.T) {
		dup := &model.Product{
			SKU:   "BSI-10",
			Name:  "Besi Beton 10mm (dobel)",
			Price: decimal.NewFromInt(75_000),
		}
		assert.ErrorIs(t, svc.CreateProduct(dup, "user-1", "Budi"), ErrSKUExists)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		assert.Error(t, svc.CreateProduct(&model.Product{Name: "Tanpa SKU"}, "user-1", "Budi"))
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(repository.NewProductRepo(db), nil)
	product := seedProduct(t, db, 80)

	update := &model.Product{
		SKU:          product.SKU,
		Name:         "Semen 50kg (baru)",
		Stock:        999, // harus diabaikan
		ReorderLevel: 20,
		Unit:         "sak",
		Price:        decimal.NewFromInt(52_000),
	}

	updated, err := svc.UpdateProduct(product.ID, update, "user-1", "Budi")
	require.NoError(t, err)

	assert.Equal(t, "Semen 50kg (baru)", updated.Name)
	assert.Equal(t, 20, updated.ReorderLevel)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(52_000)))
	// Stok tidak pernah diubah lewat update katalog.
	assert.Equal(t, 80, updated.Stock)
}
