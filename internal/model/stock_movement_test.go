package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockMovement_Validate(t *testing.T) {
	valid := StockMovement{
		Type:     MovementIn,
		Quantity: decimal.NewFromInt(10),
	}
	assert.NoError(t, valid.Validate())

	t.Run("rejects unknown movement type", func(t *testing.T) {
		m := StockMovement{Type: "transfer", Quantity: decimal.NewFromInt(10)}
		assert.ErrorIs(t, m.Validate(), ErrInvalidMovementType)
	})

	t.Run("rejects zero and negative quantity", func(t *testing.T) {
		m := StockMovement{Type: MovementIn, Quantity: decimal.Zero}
		assert.ErrorIs(t, m.Validate(), ErrInvalidQuantity)

		m.Quantity = decimal.NewFromInt(-5)
		assert.ErrorIs(t, m.Validate(), ErrInvalidQuantity)
	})

	t.Run("rejects fractional quantity", func(t *testing.T) {
		// Stok dihitung per satuan utuh (sak, batang, lembar).
		m := StockMovement{Type: MovementIn, Quantity: decimal.NewFromFloat(2.5)}
		assert.ErrorIs(t, m.Validate(), ErrInvalidQuantity)
	})

	t.Run("rejects unknown reference type", func(t *testing.T) {
		m := StockMovement{Type: MovementIn, Quantity: decimal.NewFromInt(1), ReferenceType: "invoice"}
		assert.ErrorIs(t, m.Validate(), ErrInvalidReference)
	})
}

func TestStockMovement_SignedDelta(t *testing.T) {
	increase := AdjustmentIncrease
	decrease := AdjustmentDecrease

	tests := []struct {
		name     string
		movement StockMovement
		want     int
	}{
		{"stock in adds", StockMovement{Type: MovementIn, Quantity: decimal.NewFromInt(25)}, 25},
		{"stock out subtracts", StockMovement{Type: MovementOut, Quantity: decimal.NewFromInt(25)}, -25},
		{"adjustment increase adds", StockMovement{Type: MovementAdjustment, Quantity: decimal.NewFromInt(3), AdjustmentType: &increase}, 3},
		{"adjustment decrease subtracts", StockMovement{Type: MovementAdjustment, Quantity: decimal.NewFromInt(3), AdjustmentType: &decrease}, -3},
		{"reservation never touches on-hand stock", StockMovement{Type: MovementReserved, Quantity: decimal.NewFromInt(40)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.movement.SignedDelta())
		})
	}
}
