package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCreditAccount(limit int64) *CustomerCredit {
	credit := &CustomerCredit{
		CurrentDebt: decimal.Zero,
		IsActive:    true,
	}
	credit.SetCreditLimit(decimal.NewFromInt(limit))
	return credit
}

func TestCustomerCredit_UseCredit(t *testing.T) {
	t.Run("debits within the limit", func(t *testing.T) {
		credit := newCreditAccount(50_000_000)

		ok := credit.UseCredit(decimal.NewFromInt(30_000_000))

		assert.True(t, ok)
		assert.True(t, credit.CurrentDebt.Equal(decimal.NewFromInt(30_000_000)))
		assert.True(t, credit.AvailableCredit.Equal(decimal.NewFromInt(20_000_000)))
	})

	t.Run("declines when amount exceeds available credit", func(t *testing.T) {
		credit := newCreditAccount(50_000_000)
		credit.UseCredit(decimal.NewFromInt(30_000_000))

		ok := credit.UseCredit(decimal.NewFromInt(25_000_000))

		assert.False(t, ok)
		// Penolakan tidak boleh mengubah saldo sama sekali.
		assert.True(t, credit.CurrentDebt.Equal(decimal.NewFromInt(30_000_000)))
		assert.True(t, credit.AvailableCredit.Equal(decimal.NewFromInt(20_000_000)))
	})

	t.Run("declines on inactive account regardless of balance", func(t *testing.T) {
		credit := newCreditAccount(50_000_000)
		credit.IsActive = false

		assert.False(t, credit.UseCredit(decimal.NewFromInt(1_000_000)))
		assert.True(t, credit.CurrentDebt.IsZero())
	})

	t.Run("exact remaining credit is allowed", func(t *testing.T) {
		credit := newCreditAccount(10_000_000)

		assert.True(t, credit.UseCredit(decimal.NewFromInt(10_000_000)))
		assert.True(t, credit.AvailableCredit.IsZero())
	})
}

func TestCustomerCredit_ReleaseCredit(t *testing.T) {
	t.Run("pays debt back down", func(t *testing.T) {
		credit := newCreditAccount(50_000_000)
		credit.UseCredit(decimal.NewFromInt(30_000_000))

		credit.ReleaseCredit(decimal.NewFromInt(30_000_000))

		assert.True(t, credit.CurrentDebt.IsZero())
		assert.True(t, credit.AvailableCredit.Equal(decimal.NewFromInt(50_000_000)))
	})

	t.Run("debt never goes below zero", func(t *testing.T) {
		credit := newCreditAccount(50_000_000)
		credit.UseCredit(decimal.NewFromInt(5_000_000))

		credit.ReleaseCredit(decimal.NewFromInt(99_000_000))

		assert.True(t, credit.CurrentDebt.IsZero())
		assert.True(t, credit.AvailableCredit.Equal(credit.CreditLimit))
	})
}

func TestCustomerCredit_SetCreditLimit(t *testing.T) {
	credit := newCreditAccount(50_000_000)
	credit.UseCredit(decimal.NewFromInt(30_000_000))

	// Menurunkan limit di bawah debt berjalan: available jadi negatif,
	// bukan error. Order baru tertolak sampai debt turun.
	credit.SetCreditLimit(decimal.NewFromInt(20_000_000))

	assert.True(t, credit.AvailableCredit.Equal(decimal.NewFromInt(-10_000_000)))
	assert.False(t, credit.HasSufficientCredit(decimal.NewFromInt(1)))
}

func TestCustomerCredit_CreditUtilization(t *testing.T) {
	credit := newCreditAccount(50_000_000)
	credit.UseCredit(decimal.NewFromInt(30_000_000))
	assert.InDelta(t, 60.0, credit.CreditUtilization(), 0.001)

	zeroLimit := newCreditAccount(0)
	assert.Equal(t, 0.0, zeroLimit.CreditUtilization())
}

func TestCustomerCredit_ToInfo(t *testing.T) {
	credit := newCreditAccount(50_000_000)
	credit.UseCredit(decimal.NewFromInt(10_000_000))

	info := credit.ToInfo()

	assert.True(t, info.CreditLimit.Equal(credit.CreditLimit))
	assert.True(t, info.CurrentDebt.Equal(credit.CurrentDebt))
	assert.True(t, info.AvailableCredit.Equal(credit.AvailableCredit))
	assert.InDelta(t, 20.0, info.CreditUtilizationPercent, 0.001)
	assert.True(t, info.IsActive)
}
