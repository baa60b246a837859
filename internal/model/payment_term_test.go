package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTerm(amount int64, dueIn time.Duration) *PaymentTerm {
	return &PaymentTerm{
		DueDate:    time.Now().Add(dueIn),
		Amount:     decimal.NewFromInt(amount),
		PaidAmount: decimal.Zero,
		Status:     PaymentTermPending,
	}
}

func TestPaymentTerm_AddPayment(t *testing.T) {
	now := time.Now()

	t.Run("partial payment moves pending to partial", func(t *testing.T) {
		term := newTerm(10_000_000, 30*24*time.Hour)

		term.AddPayment(decimal.NewFromInt(4_000_000), "", now)

		assert.Equal(t, PaymentTermPartial, term.Status)
		assert.True(t, term.RemainingAmount().Equal(decimal.NewFromInt(6_000_000)))
		assert.Nil(t, term.PaymentDate)
	})

	t.Run("final payment settles the term", func(t *testing.T) {
		term := newTerm(10_000_000, 30*24*time.Hour)
		term.AddPayment(decimal.NewFromInt(4_000_000), "", now)

		term.AddPayment(decimal.NewFromInt(6_000_000), "", now)

		assert.Equal(t, PaymentTermPaid, term.Status)
		assert.True(t, term.RemainingAmount().IsZero())
		require.NotNil(t, term.PaymentDate)
		assert.WithinDuration(t, now, *term.PaymentDate, time.Second)
	})

	t.Run("partial payment on an overdue term goes back to partial", func(t *testing.T) {
		// Status overdue hanya di-set ulang oleh batch refresh, bukan di sini.
		term := newTerm(10_000_000, -24*time.Hour)
		term.MarkOverdue()

		term.AddPayment(decimal.NewFromInt(1_000_000), "", now)

		assert.Equal(t, PaymentTermPartial, term.Status)
		assert.True(t, term.IsOverdue(now))
	})

	t.Run("payment note is appended with a timestamp", func(t *testing.T) {
		term := newTerm(5_000_000, 30*24*time.Hour)

		term.AddPayment(decimal.NewFromInt(2_000_000), "transfer BCA", now)
		term.AddPayment(decimal.NewFromInt(3_000_000), "cash", now)

		lines := strings.Split(term.Notes, "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "transfer BCA")
		assert.Contains(t, lines[1], "cash")
	})
}

func TestPaymentTerm_RemainingAmount(t *testing.T) {
	term := newTerm(10_000_000, 30*24*time.Hour)
	assert.True(t, term.RemainingAmount().Equal(decimal.NewFromInt(10_000_000)))

	// Overpayment (dalam toleransi pembulatan) tidak boleh bikin sisa negatif.
	term.PaidAmount = decimal.NewFromInt(10_000_001)
	assert.True(t, term.RemainingAmount().IsZero())
	assert.True(t, term.IsFullyPaid())
}

func TestPaymentTerm_IsOverdue(t *testing.T) {
	now := time.Now()

	t.Run("past due and unpaid", func(t *testing.T) {
		term := newTerm(10_000_000, -24*time.Hour)
		assert.True(t, term.IsOverdue(now))
	})

	t.Run("past due but fully paid", func(t *testing.T) {
		term := newTerm(10_000_000, -24*time.Hour)
		term.AddPayment(decimal.NewFromInt(10_000_000), "", now)
		assert.False(t, term.IsOverdue(now))
	})

	t.Run("not yet due", func(t *testing.T) {
		term := newTerm(10_000_000, 24*time.Hour)
		assert.False(t, term.IsOverdue(now))
	})
}

func TestPaymentTerm_MarkOverdue(t *testing.T) {
	term := newTerm(10_000_000, -24*time.Hour)
	term.MarkOverdue()
	assert.Equal(t, PaymentTermOverdue, term.Status)

	// Term yang sudah lunas tidak boleh dibalikkan jadi overdue.
	paid := newTerm(10_000_000, -24*time.Hour)
	paid.AddPayment(decimal.NewFromInt(10_000_000), "", time.Now())
	paid.MarkOverdue()
	assert.Equal(t, PaymentTermPaid, paid.Status)
}
