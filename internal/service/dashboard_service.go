package service

import (
	"time"

	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
)

const maxJournalLimit = 200

type DashboardStats struct {
	Date string `json:"date"`
	repository.JournalSummary
	ByPaymentMethod []repository.MethodRevenue `json:"by_payment_method"`

	TotalProducts   int            `json:"total_products"`
	LowStockCount   int            `json:"low_stock_count"`
	OutOfStockCount int            `json:"out_of_stock_count"`
	CatalogSource   gateway.Source `json:"catalog_source"`
	CatalogStale    bool           `json:"catalog_stale"`
}

type DashboardService interface {
	GetDashboardStats(day time.Time) (*DashboardStats, error)
	GetJournal(limit int) ([]model.JournalEntry, error)
}

type dashboardService struct {
	journal repository.JournalRepository
	loader  *CatalogLoader
}

func NewDashboardService(journal repository.JournalRepository, loader *CatalogLoader) DashboardService {
	return &dashboardService{journal: journal, loader: loader}
}

// GetDashboardStats summarizes the UTC calendar day containing day.
func (s *dashboardService) GetDashboardStats(day time.Time) (*DashboardStats, error) {
	day = day.UTC()
	startDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	endDate := startDate.Add(24*time.Hour - time.Nanosecond)

	summary, err := s.journal.GetSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}
	methods, err := s.journal.GetRevenueByMethod(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		methods = []repository.MethodRevenue{}
	}

	stats := &DashboardStats{
		Date:            startDate.Format("2006-01-02"),
		JournalSummary:  *summary,
		ByPaymentMethod: methods,
		CatalogSource:   s.loader.Source(),
		CatalogStale:    s.loader.Store().Stale(),
	}

	// Low stock mengikuti badge di menu (stock < 15)
	for _, p := range s.loader.Store().Snapshot() {
		stats.TotalProducts++
		switch {
		case p.OutOfStock():
			stats.OutOfStockCount++
		case p.LowStock():
			stats.LowStockCount++
		}
	}
	return stats, nil
}

func (s *dashboardService) GetJournal(limit int) ([]model.JournalEntry, error) {
	if limit <= 0 || limit > maxJournalLimit {
		limit = 50
	}
	return s.journal.FindRecent(limit)
}
