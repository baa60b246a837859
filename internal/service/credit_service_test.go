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
	"gorm.io/gorm"
)

func newCreditService(t *testing.T) (CreditService, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewCreditService(
		repository.NewCustomerCreditRepo(db),
		repository.NewPaymentTermRepo(db),
		repository.NewCustomerRepo(db),
		db, nil,
	)
	return svc, db
}

func seedCustomer(t *testing.T, db *gorm.DB, termDays int) *model.Customer {
	customer := &model.Customer{
		Name:            "Toko Sumber Jaya",
		Type:            model.PriceLevelWholesale,
		PaymentTermDays: termDays,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func grantCredit(t *testing.T, svc CreditService, customerID uuid.UUID, limit int64) *model.CustomerCredit {
	credit, err := svc.GrantCredit(customerID, decimal.NewFromInt(limit), "", "user-1")
	require.NoError(t, err)
	return credit
}

func TestCreditService_GrantCredit(t *testing.T) {
	svc, db := newCreditService(t)
	customer := seedCustomer(t, db, 30)

	t.Run("creates the account on first grant", func(t *testing.T) {
		credit := grantCredit(t, svc, customer.ID, 50_000_000)

		assert.True(t, credit.CreditLimit.Equal(decimal.NewFromInt(50_000_000)))
		assert.True(t, credit.AvailableCredit.Equal(decimal.NewFromInt(50_000_000)))
		assert.True(t, credit.IsActive)
	})

	t.Run("rejects a second account for the same customer", func(t *testing.T) {
		_, err := svc.GrantCredit(customer.ID, decimal.NewFromInt(10_000_000), "", "user-1")
		assert.ErrorIs(t, err, ErrCreditAccountExists)
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		_, err := svc.GrantCredit(uuid.New(), decimal.NewFromInt(10_000_000), "", "user-1")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("rejects negative limit", func(t *testing.T) {
		_, err := svc.GrantCredit(customer.ID, decimal.NewFromInt(-1), "", "user-1")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestCreditService_UseCredit(t *testing.T) {
	t.Run("debits credit and opens a payment term", func(t *testing.T) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 30)
		grantCredit(t, svc, customer.ID, 50_000_000)
		orderID := uuid.New()

		term, err := svc.UseCredit(orderID, customer.ID, decimal.NewFromInt(30_000_000), "user-1", "Budi")

		require.NoError(t, err)
		assert.Equal(t, orderID, term.OrderID)
		assert.Equal(t, model.PaymentTermPending, term.Status)
		assert.True(t, term.Amount.Equal(decimal.NewFromInt(30_000_000)))
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), term.DueDate, time.Minute)

		info, err := svc.GetCustomerCreditInfo(customer.ID)
		require.NoError(t, err)
		assert.True(t, info.CurrentDebt.Equal(decimal.NewFromInt(30_000_000)))
		assert.True(t, info.AvailableCredit.Equal(decimal.NewFromInt(20_000_000)))
	})

	t.Run("decline leaves no payment term behind", func(t *testing.T) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 30)
		grantCredit(t, svc, customer.ID, 50_000_000)

		_, err := svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(30_000_000), "user-1", "Budi")
		require.NoError(t, err)

		_, err = svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(25_000_000), "user-1", "Budi")
		assert.ErrorIs(t, err, ErrInsufficientCredit)

		var count int64
		require.NoError(t, db.Model(&model.PaymentTerm{}).Where("customer_id = ?", customer.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		info, err := svc.GetCustomerCreditInfo(customer.ID)
		require.NoError(t, err)
		assert.True(t, info.CurrentDebt.Equal(decimal.NewFromInt(30_000_000)))
	})

	t.Run("cash-only customer cannot buy on terms", func(t *testing.T) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 0)

		_, err := svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(1_000_000), "user-1", "Budi")
		assert.ErrorIs(t, err, ErrNotCreditCustomer)
	})

	t.Run("inactive account is declined", func(t *testing.T) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 30)
		grantCredit(t, svc, customer.ID, 50_000_000)
		_, err := svc.ToggleCreditStatus(customer.ID, "user-1")
		require.NoError(t, err)

		_, err = svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(1_000_000), "user-1", "Budi")
		assert.ErrorIs(t, err, ErrCreditInactive)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 30)

		_, err := svc.UseCredit(uuid.New(), customer.ID, decimal.Zero, "user-1", "Budi")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestCreditService_ValidateCreditLimit(t *testing.T) {
	svc, db := newCreditService(t)
	customer := seedCustomer(t, db, 30)

	t.Run("no account", func(t *testing.T) {
		result, err := svc.ValidateCreditLimit(customer.ID, decimal.NewFromInt(1_000_000))
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, CreditDeclineNoAccount, result.Reason)
	})

	grantCredit(t, svc, customer.ID, 50_000_000)

	t.Run("approved within limit", func(t *testing.T) {
		result, err := svc.ValidateCreditLimit(customer.ID, decimal.NewFromInt(50_000_000))
		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Empty(t, result.Reason)
	})

	t.Run("over limit", func(t *testing.T) {
		result, err := svc.ValidateCreditLimit(customer.ID, decimal.NewFromInt(50_000_001))
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, CreditDeclineOverLimit, result.Reason)
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := svc.ToggleCreditStatus(customer.ID, "user-1")
		require.NoError(t, err)

		result, err := svc.ValidateCreditLimit(customer.ID, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, CreditDeclineInactive, result.Reason)
	})
}

func TestCreditService_RecordPayment(t *testing.T) {
	setup := func(t *testing.T) (CreditService, *gorm.DB, *model.Customer, *model.PaymentTerm) {
		svc, db := newCreditService(t)
		customer := seedCustomer(t, db, 30)
		grantCredit(t, svc, customer.ID, 50_000_000)
		term, err := svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(10_000_000), "user-1", "Budi")
		require.NoError(t, err)
		return svc, db, customer, term
	}

	t.Run("partial payment updates term and releases credit together", func(t *testing.T) {
		svc, _, customer, term := setup(t)

		require.NoError(t, svc.RecordPayment(term.ID, decimal.NewFromInt(4_000_000), "transfer", "TRX-001", "user-1", "Budi"))

		updated, err := svc.GetPaymentTermByID(term.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentTermPartial, updated.Status)
		assert.True(t, updated.RemainingAmount().Equal(decimal.NewFromInt(6_000_000)))
		assert.Contains(t, updated.Notes, "TRX-001")

		info, err := svc.GetCustomerCreditInfo(customer.ID)
		require.NoError(t, err)
		assert.True(t, info.CurrentDebt.Equal(decimal.NewFromInt(6_000_000)))
	})

	t.Run("final payment settles the term and clears the debt", func(t *testing.T) {
		svc, _, customer, term := setup(t)
		require.NoError(t, svc.RecordPayment(term.ID, decimal.NewFromInt(4_000_000), "", "", "user-1", "Budi"))

		require.NoError(t, svc.RecordPayment(term.ID, decimal.NewFromInt(6_000_000), "", "", "user-1", "Budi"))

		updated, err := svc.GetPaymentTermByID(term.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentTermPaid, updated.Status)
		assert.NotNil(t, updated.PaymentDate)

		info, err := svc.GetCustomerCreditInfo(customer.ID)
		require.NoError(t, err)
		assert.True(t, info.CurrentDebt.IsZero())
	})

	t.Run("overpayment beyond tolerance is rejected atomically", func(t *testing.T) {
		svc, _, customer, term := setup(t)

		err := svc.RecordPayment(term.ID, decimal.NewFromInt(10_000_001), "", "", "user-1", "Budi")
		assert.ErrorIs(t, err, ErrPaymentExceedsRemaining)

		updated, err := svc.GetPaymentTermByID(term.ID)
		require.NoError(t, err)
		assert.True(t, updated.PaidAmount.IsZero())

		info, err := svc.GetCustomerCreditInfo(customer.ID)
		require.NoError(t, err)
		assert.True(t, info.CurrentDebt.Equal(decimal.NewFromInt(10_000_000)))
	})

	t.Run("unknown term", func(t *testing.T) {
		svc, _ := newCreditService(t)
		err := svc.RecordPayment(uuid.New(), decimal.NewFromInt(1), "", "", "user-1", "Budi")
		assert.ErrorIs(t, err, ErrPaymentTermNotFound)
	})
}

func TestCreditService_RefreshOverdueStatus(t *testing.T) {
	svc, db := newCreditService(t)
	customer := seedCustomer(t, db, 30)
	grantCredit(t, svc, customer.ID, 50_000_000)

	pastDue := &model.PaymentTerm{
		OrderID:    uuid.New(),
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, -5),
		Amount:     decimal.NewFromInt(10_000_000),
		PaidAmount: decimal.NewFromInt(4_000_000),
		Status:     model.PaymentTermPartial,
	}
	require.NoError(t, db.Create(pastDue).Error)

	paidPastDue := &model.PaymentTerm{
		OrderID:    uuid.New(),
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, -5),
		Amount:     decimal.NewFromInt(2_000_000),
		PaidAmount: decimal.NewFromInt(2_000_000),
		Status:     model.PaymentTermPaid,
	}
	require.NoError(t, db.Create(paidPastDue).Error)

	notYetDue := &model.PaymentTerm{
		OrderID:    uuid.New(),
		CustomerID: customer.ID,
		DueDate:    time.Now().AddDate(0, 0, 10),
		Amount:     decimal.NewFromInt(5_000_000),
		Status:     model.PaymentTermPending,
	}
	require.NoError(t, db.Create(notYetDue).Error)

	marked, err := svc.RefreshOverdueStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	updated, err := svc.GetPaymentTermByID(pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentTermOverdue, updated.Status)

	untouched, err := svc.GetPaymentTermByID(paidPastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentTermPaid, untouched.Status)

	// Run kedua tidak menandai ulang apa pun.
	marked, err = svc.RefreshOverdueStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 0, marked)

	// Sisa hutang term overdue = amount - paid_amount.
	overdue, err := svc.GetOverdueAmount(customer.ID)
	require.NoError(t, err)
	assert.True(t, overdue.Equal(decimal.NewFromInt(6_000_000)))
}

func TestCreditService_UpdateCreditLimit(t *testing.T) {
	svc, db := newCreditService(t)
	customer := seedCustomer(t, db, 30)
	grantCredit(t, svc, customer.ID, 50_000_000)
	_, err := svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(30_000_000), "user-1", "Budi")
	require.NoError(t, err)

	// Limit boleh turun di bawah debt berjalan; available jadi negatif.
	updated, err := svc.UpdateCreditLimit(customer.ID, decimal.NewFromInt(20_000_000), "user-1")
	require.NoError(t, err)
	assert.True(t, updated.AvailableCredit.Equal(decimal.NewFromInt(-10_000_000)))

	_, err = svc.UseCredit(uuid.New(), customer.ID, decimal.NewFromInt(1), "user-1", "Budi")
	assert.ErrorIs(t, err, ErrInsufficientCredit)

	_, err = svc.UpdateCreditLimit(customer.ID, decimal.NewFromInt(-1), "user-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
