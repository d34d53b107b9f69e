package repository

import (
	"time"

	"go-kasir-pos/internal/model"

	"gorm.io/gorm"
)

// Outcomes that count as persisted when summing sales.
var settledOutcomes = []string{"SUCCESS", "UNKNOWN"}

type JournalRepository interface {
	Create(entry *model.JournalEntry) error
	FindRecent(limit int) ([]model.JournalEntry, error)
	GetSummary(startDate, endDate time.Time) (*JournalSummary, error)
	GetRevenueByMethod(startDate, endDate time.Time) ([]MethodRevenue, error)
}

// JournalSummary untuk overview dashboard
type JournalSummary struct {
	OrderCount   int64 `json:"order_count"`
	Revenue      int64 `json:"revenue"`
	ItemsSold    int64 `json:"items_sold"`
	StockBatches int64 `json:"stock_batches"`
	FailedWrites int64 `json:"failed_writes"`
}

type MethodRevenue struct {
	PaymentMethod string `json:"payment_method"`
	Orders        int64  `json:"orders"`
	Revenue       int64  `json:"revenue"`
}

type journalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) JournalRepository {
	return &journalRepo{db}
}

func (r *journalRepo) Create(entry *model.JournalEntry) error {
	return r.db.Create(entry).Error
}

func (r *journalRepo) FindRecent(limit int) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *journalRepo) GetSummary(startDate, endDate time.Time) (*JournalSummary, error) {
	var summary JournalSummary

	// Order yang tersimpan (SUCCESS / UNKNOWN)
	orders := func() *gorm.DB {
		return r.db.Model(&model.JournalEntry{}).
			Where("kind = ? AND outcome IN ? AND created_at BETWEEN ? AND ?", model.JournalOrder, settledOutcomes, startDate, endDate)
	}

	if err := orders().Count(&summary.OrderCount).Error; err != nil {
		return nil, err
	}
	if err := orders().Select("COALESCE(SUM(amount), 0)").Scan(&summary.Revenue).Error; err != nil {
		return nil, err
	}
	if err := orders().Select("COALESCE(SUM(items), 0)").Scan(&summary.ItemsSold).Error; err != nil {
		return nil, err
	}

	// Batch stok
	err := r.db.Model(&model.JournalEntry{}).
		Where("kind = ? AND created_at BETWEEN ? AND ?", model.JournalStock, startDate, endDate).
		Count(&summary.StockBatches).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&model.JournalEntry{}).
		Where("outcome = ? AND created_at BETWEEN ? AND ?", "FAILURE", startDate, endDate).
		Count(&summary.FailedWrites).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *journalRepo) GetRevenueByMethod(startDate, endDate time.Time) ([]MethodRevenue, error) {
	var results []MethodRevenue
	err := r.db.Model(&model.JournalEntry{}).
		Select("payment_method, COUNT(*) as orders, COALESCE(SUM(amount), 0) as revenue").
		Where("kind = ? AND outcome IN ? AND created_at BETWEEN ? AND ?", model.JournalOrder, settledOutcomes, startDate, endDate).
		Group("payment_method").
		Order("payment_method ASC").
		Scan(&results).Error
	return results, err
}
