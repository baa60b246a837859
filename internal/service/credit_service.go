package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCreditAccountNotFound   = errors.New("customer has no credit account")
	ErrCreditAccountExists     = errors.New("customer already has a credit account")
	ErrCreditInactive          = errors.New("credit account is inactive")
	ErrInsufficientCredit      = errors.New("insufficient available credit")
	ErrNotCreditCustomer       = errors.New("customer has no payment terms configured")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrPaymentExceedsRemaining = errors.New("payment exceeds remaining amount on term")
	ErrPaymentTermNotFound     = errors.New("payment term not found")
	ErrCustomerNotFound        = errors.New("customer not found")
)

// Alasan penolakan validasi kredit, dikonsumsi order flow sebagai outcome
// user-facing (bukan exception).
const (
	CreditDeclineNoAccount = "no_account"
	CreditDeclineInactive  = "inactive"
	CreditDeclineOverLimit = "over_limit"
)

// paymentTolerance mengizinkan selisih pembulatan kecil saat melunasi term;
// caller tetap diharapkan clamp ke RemainingAmount.
var paymentTolerance = decimal.NewFromFloat(0.01)

// CreditValidationResult is the approve/decline outcome of a credit check.
type CreditValidationResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type CreditService interface {
	GrantCredit(customerID uuid.UUID, limit decimal.Decimal, notes, userID string) (*model.CustomerCredit, error)
	ValidateCreditLimit(customerID uuid.UUID, amount decimal.Decimal) (*CreditValidationResult, error)
	// UseCredit mendebit available credit untuk satu order tempo dan membuka
	// PaymentTerm dengan due date = now + payment_term_days customer.
	UseCredit(orderID, customerID uuid.UUID, amount decimal.Decimal, userID, userName string) (*model.PaymentTerm, error)
	RecordPayment(paymentTermID uuid.UUID, amount decimal.Decimal, method, reference, userID, userName string) error
	GetOverdueAmount(customerID uuid.UUID) (decimal.Decimal, error)
	GetCustomerCreditInfo(customerID uuid.UUID) (*model.CreditInfo, error)
	UpdateCreditLimit(customerID uuid.UUID, limit decimal.Decimal, userID string) (*model.CustomerCredit, error)
	ToggleCreditStatus(customerID uuid.UUID, userID string) (*model.CustomerCredit, error)
	RefreshOverdueStatus() (int64, error)
	GetAllPaymentTerms() ([]model.PaymentTerm, error)
	GetPaymentTermByID(id uuid.UUID) (*model.PaymentTerm, error)
}

type creditService struct {
	creditRepo   repository.CustomerCreditRepository
	termRepo     repository.PaymentTermRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCreditService(cRepo repository.CustomerCreditRepository, tRepo repository.PaymentTermRepository, custRepo repository.CustomerRepository, db *gorm.DB, hub *ws.Hub) CreditService {
	return &creditService{
		creditRepo:   cRepo,
		termRepo:     tRepo,
		customerRepo: custRepo,
		db:           db,
		wsHub:        hub,
	}
}

// GrantCredit membuat akun kredit customer secara lazy, saat pertama kali
// customer diberi plafon.
func (s *creditService) GrantCredit(customerID uuid.UUID, limit decimal.Decimal, notes, userID string) (*model.CustomerCredit, error) {
	if limit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		return nil, ErrCustomerNotFound
	}

	existing, _ := s.creditRepo.FindByCustomerID(customerID)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, ErrCreditAccountExists
	}

	credit := &model.CustomerCredit{
		CustomerID:  customerID,
		CreditLimit: limit,
		CurrentDebt: decimal.Zero,
		IsActive:    true,
		Notes:       notes,
	}
	credit.SetCreditLimit(limit)
	credit.CreatedBy = userID
	credit.UpdatedBy = userID

	if err := s.creditRepo.Create(credit); err != nil {
		return nil, err
	}
	return credit, nil
}

func (s *creditService) ValidateCreditLimit(customerID uuid.UUID, amount decimal.Decimal) (*CreditValidationResult, error) {
	credit, err := s.creditRepo.FindByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CreditValidationResult{Approved: false, Reason: CreditDeclineNoAccount}, nil
		}
		return nil, err
	}

	if !credit.IsActive {
		return &CreditValidationResult{Approved: false, Reason: CreditDeclineInactive}, nil
	}
	if !credit.HasSufficientCredit(amount) {
		return &CreditValidationResult{Approved: false, Reason: CreditDeclineOverLimit}, nil
	}
	return &CreditValidationResult{Approved: true}, nil
}

func (s *creditService) UseCredit(orderID, customerID uuid.UUID, amount decimal.Decimal, userID, userName string) (*model.PaymentTerm, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	if customer.PaymentTermDays <= 0 {
		return nil, ErrNotCreditCustomer
	}

	var term *model.PaymentTerm
	err = s.db.Transaction(func(tx *gorm.DB) error {
		credit, err := s.creditRepo.FindByCustomerIDForUpdate(tx, customerID)
		if err != nil {
			return ErrCreditAccountNotFound
		}
		if !credit.IsActive {
			return ErrCreditInactive
		}

		// Gagal = tidak ada partial debit; UseCredit entity menjaga itu.
		if !credit.UseCredit(amount) {
			return ErrInsufficientCredit
		}
		if err := s.creditRepo.Save(tx, credit); err != nil {
			return err
		}

		now := time.Now()
		term = &model.PaymentTerm{
			OrderID:    orderID,
			CustomerID: customerID,
			DueDate:    now.AddDate(0, 0, customer.PaymentTermDays),
			Amount:     amount,
			PaidAmount: decimal.Zero,
			Status:     model.PaymentTermPending,
		}
		term.CreatedBy = userID
		term.UpdatedBy = userID

		return s.termRepo.Create(tx, term)
	})

	if err != nil {
		return nil, err
	}

	s.broadcastCreditEvent("credit_used", customerID, amount, userName)
	return term, nil
}

// RecordPayment memposting pembayaran ke satu term secara atomik:
// PaidAmount/status term dan pelepasan debt CustomerCredit ditulis dalam
// transaksi yang sama, dua-duanya di bawah row lock.
func (s *creditService) RecordPayment(paymentTermID uuid.UUID, amount decimal.Decimal, method, reference, userID, userName string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	var customerID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		term, err := s.termRepo.FindByIDForUpdate(tx, paymentTermID)
		if err != nil {
			return ErrPaymentTermNotFound
		}

		if amount.Sub(term.RemainingAmount()).GreaterThan(paymentTolerance) {
			return ErrPaymentExceedsRemaining
		}

		credit, err := s.creditRepo.FindByCustomerIDForUpdate(tx, term.CustomerID)
		if err != nil {
			return ErrCreditAccountNotFound
		}

		note := fmt.Sprintf("payment %s", amount)
		if method != "" {
			note += " via " + method
		}
		if reference != "" {
			note += " ref " + reference
		}

		term.AddPayment(amount, note, time.Now())
		term.UpdatedBy = userID
		if err := s.termRepo.Save(tx, term); err != nil {
			return err
		}

		credit.ReleaseCredit(amount)
		credit.UpdatedBy = userID
		if err := s.creditRepo.Save(tx, credit); err != nil {
			return err
		}

		customerID = term.CustomerID
		return nil
	})

	if err != nil {
		return err
	}

	s.broadcastCreditEvent("payment_recorded", customerID, amount, userName)
	return nil
}

func (s *creditService) GetOverdueAmount(customerID uuid.UUID) (decimal.Decimal, error) {
	return s.termRepo.SumOverdueByCustomer(customerID, time.Now())
}

func (s *creditService) GetCustomerCreditInfo(customerID uuid.UUID) (*model.CreditInfo, error) {
	credit, err := s.creditRepo.FindByCustomerID(customerID)
	if err != nil {
		return nil, ErrCreditAccountNotFound
	}
	info := credit.ToInfo()
	return &info, nil
}

func (s *creditService) UpdateCreditLimit(customerID uuid.UUID, limit decimal.Decimal, userID string) (*model.CustomerCredit, error) {
	if limit.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var updated *model.CustomerCredit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		credit, err := s.creditRepo.FindByCustomerIDForUpdate(tx, customerID)
		if err != nil {
			return ErrCreditAccountNotFound
		}
		credit.SetCreditLimit(limit)
		credit.UpdatedBy = userID
		updated = credit
		return s.creditRepo.Save(tx, credit)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleCreditStatus menonaktifkan/mengaktifkan akun. Akun tidak pernah
// dihapus; deactivate adalah satu-satunya jalan menutup kredit customer.
func (s *creditService) ToggleCreditStatus(customerID uuid.UUID, userID string) (*model.CustomerCredit, error) {
	var updated *model.CustomerCredit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		credit, err := s.creditRepo.FindByCustomerIDForUpdate(tx, customerID)
		if err != nil {
			return ErrCreditAccountNotFound
		}
		credit.IsActive = !credit.IsActive
		credit.UpdatedBy = userID
		updated = credit
		return s.creditRepo.Save(tx, credit)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RefreshOverdueStatus adalah batch pass idempotent; aman dijadwalkan berulang.
func (s *creditService) RefreshOverdueStatus() (int64, error) {
	return s.termRepo.MarkOverdue(time.Now())
}

func (s *creditService) GetAllPaymentTerms() ([]model.PaymentTerm, error) {
	return s.termRepo.FindAll()
}

func (s *creditService) GetPaymentTermByID(id uuid.UUID) (*model.PaymentTerm, error) {
	term, err := s.termRepo.FindByID(id)
	if err != nil {
		return nil, ErrPaymentTermNotFound
	}
	return term, nil
}

func (s *creditService) broadcastCreditEvent(action string, customerID uuid.UUID, amount decimal.Decimal, userName string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":        "credit_update",
			"action":      action,
			"customer_id": customerID,
			"amount":      amount,
			"message":     fmt.Sprintf("%s: %s amount %s", userName, action, amount),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
