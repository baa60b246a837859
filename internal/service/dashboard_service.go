package service

import (
	"time"

	"go-materials-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardSummary menggabungkan stok dan piutang untuk layar overview back-office.
type DashboardSummary struct {
	TotalProducts          int64           `json:"total_products"`
	LowStockCount          int64           `json:"low_stock_count"`
	TotalValuation         decimal.Decimal `json:"total_valuation"`
	OutstandingReceivables decimal.Decimal `json:"outstanding_receivables"`
	OverdueReceivables     decimal.Decimal `json:"overdue_receivables"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]repository.MovementChartData, error)
	GetDashboardStats() (*DashboardSummary, error)
}

type dashboardService struct {
	movementRepo repository.StockMovementRepository
	termRepo     repository.PaymentTermRepository
}

func NewDashboardService(movementRepo repository.StockMovementRepository, termRepo repository.PaymentTermRepository) DashboardService {
	return &dashboardService{movementRepo: movementRepo, termRepo: termRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.MovementChartData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetMovementChart(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardSummary, error) {
	stats, err := s.movementRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	outstanding, err := s.termRepo.SumOutstanding()
	if err != nil {
		return nil, err
	}
	overdue, err := s.termRepo.SumOverdue(time.Now())
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalProducts:          stats.TotalProducts,
		LowStockCount:          stats.LowStockCount,
		TotalValuation:         stats.TotalValuation,
		OutstandingReceivables: outstanding,
		OverdueReceivables:     overdue,
	}, nil
}
