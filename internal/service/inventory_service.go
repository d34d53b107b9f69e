package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/guard"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/stock"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateProduct = errors.New("product id already exists")
	ErrSaveFailed       = errors.New("product could not be saved")
)

type StockView struct {
	Products     []ProductView                      `json:"products"`
	Pending      map[string]model.PendingAdjustment `json:"pending"`
	PendingCount int                                `json:"pending_count"`
	Confirmation string                             `json:"confirmation,omitempty"`
	Stale        bool                               `json:"stale"`
}

// CommitResult reports a stock batch. Records are already applied to the
// local catalog; Unsynced lists products the remote store did not confirm.
type CommitResult struct {
	BatchID      string                  `json:"batch_id"`
	Records      []model.StockAdjustment `json:"records"`
	Synced       []string                `json:"synced"`
	Unsynced     []string                `json:"unsynced"`
	Confirmation string                  `json:"confirmation"`
}

type ProductResult struct {
	Product model.ProductDraft `json:"product"`
	Result  gateway.Result     `json:"result"`
	Source  gateway.Source     `json:"catalog_source"`
}

type InventoryService interface {
	StockView() *StockView
	AdjustStock(productID string, delta int) (model.PendingAdjustment, error)
	SetStock(productID string, value int) (model.PendingAdjustment, error)
	SetStockNote(productID, note string) (model.PendingAdjustment, error)
	ResetStock() *StockView
	CommitStock(ctx context.Context) (*CommitResult, error)
	AddProduct(ctx context.Context, draft *model.ProductDraft) (*ProductResult, error)
}

type inventoryService struct {
	loader  *CatalogLoader
	ledger  *stock.Ledger
	gw      gateway.Gateway
	guard   guard.Guard
	journal repository.JournalRepository
	hub     Publisher
	log     *logrus.Logger
	now     func() time.Time
}

func NewInventoryService(loader *CatalogLoader, ledger *stock.Ledger, gw gateway.Gateway, g guard.Guard, journal repository.JournalRepository, hub Publisher, log *logrus.Logger) InventoryService {
	if hub == nil {
		hub = nopPublisher{}
	}
	return &inventoryService{
		loader:  loader,
		ledger:  ledger,
		gw:      gw,
		guard:   g,
		journal: journal,
		hub:     hub,
		log:     log,
		now:     time.Now,
	}
}

func (s *inventoryService) StockView() *StockView {
	store := s.loader.Store()
	return &StockView{
		Products:     toViews(store.Snapshot()),
		Pending:      s.ledger.Pending(),
		PendingCount: s.ledger.PendingCount(),
		Confirmation: s.ledger.Confirmation(),
		Stale:        store.Stale(),
	}
}

func (s *inventoryService) AdjustStock(productID string, delta int) (model.PendingAdjustment, error) {
	return s.ledger.AdjustByDelta(productID, delta)
}

func (s *inventoryService) SetStock(productID string, value int) (model.PendingAdjustment, error) {
	return s.ledger.SetAbsoluteDelta(productID, value)
}

func (s *inventoryService) SetStockNote(productID, note string) (model.PendingAdjustment, error) {
	return s.ledger.SetNote(productID, note)
}

func (s *inventoryService) ResetStock() *StockView {
	s.ledger.Reset()
	return s.StockView()
}

func (s *inventoryService) CommitStock(ctx context.Context) (*CommitResult, error) {
	release, err := s.guard.Acquire(ctx, guard.KeyStockCommit)
	if err != nil {
		return nil, err
	}
	defer release()

	// 1. Terapkan ke katalog lokal (optimistic)
	records, err := s.ledger.Commit()
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		BatchID:      uuid.NewString(),
		Records:      records,
		Synced:       []string{},
		Unsynced:     []string{},
		Confirmation: s.ledger.Confirmation(),
	}
	log := s.log.WithField("batch_id", result.BatchID)

	// 2. Kirim ke remote, satu record per request
	outcome := gateway.ResultSuccess
	for _, r := range records {
		res, err := s.gw.UpdateStock(ctx, r)
		if err != nil || !res.OK() {
			log.WithError(err).WithField("product_id", r.ProductID).Error("stock update not confirmed by remote store")
			result.Unsynced = append(result.Unsynced, r.ProductID)
			outcome = gateway.ResultFailure
			continue
		}
		if res == gateway.ResultUnknown && outcome == gateway.ResultSuccess {
			outcome = gateway.ResultUnknown
		}
		result.Synced = append(result.Synced, r.ProductID)
	}

	// 3. Local levels stay applied; flag the catalog until the next reload.
	if len(result.Unsynced) > 0 {
		s.loader.Store().MarkStale()
		log.WithField("unsynced", len(result.Unsynced)).Warn("local stock differs from remote store until next reload")
	}

	s.recordStock(result, outcome)
	log.WithField("records", len(records)).Info("stock batch committed")

	s.hub.Publish(ws.TypeStock, "stock_committed", result.Confirmation, map[string]interface{}{
		"batch_id": result.BatchID,
		"records":  records,
		"unsynced": result.Unsynced,
	})
	return result, nil
}

func (s *inventoryService) recordStock(result *CommitResult, outcome gateway.Result) {
	if s.journal == nil {
		return
	}
	note := fmt.Sprintf("%d produk", len(result.Records))
	if len(result.Unsynced) > 0 {
		note += ", belum tersinkron: " + strings.Join(result.Unsynced, ",")
	}
	entry := &model.JournalEntry{
		Kind:      model.JournalStock,
		Reference: result.BatchID,
		Items:     len(result.Records),
		Outcome:   outcome.String(),
		Note:      note,
	}
	entry.CreatedAt = s.now().UTC()
	if err := s.journal.Create(entry); err != nil {
		s.log.WithError(err).WithField("batch_id", result.BatchID).Warn("failed to journal stock batch")
	}
}

func (s *inventoryService) AddProduct(ctx context.Context, draft *model.ProductDraft) (*ProductResult, error) {
	// 1. Validasi Struct Dasar
	draft.Name = strings.TrimSpace(draft.Name)
	draft.ID = strings.TrimSpace(draft.ID)
	if errs := validator.ValidateStruct(draft); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Message(errs))
	}

	// 2. Cek Duplikasi ID
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	} else if _, exists := s.loader.Store().Find(draft.ID); exists {
		return nil, ErrDuplicateProduct
	}
	if draft.StockUnit == "" {
		draft.StockUnit = model.DefaultStockUnit
	}

	release, err := s.guard.Acquire(ctx, guard.KeyProductSave)
	if err != nil {
		return nil, err
	}
	defer release()

	// 3. Simpan ke remote
	res, err := s.gw.AddProduct(ctx, draft)
	log := s.log.WithFields(logrus.Fields{"product_id": draft.ID, "name": draft.Name, "result": res})
	if err != nil || !res.OK() {
		log.WithError(err).Error("Failed to add product")
		if err == nil {
			err = fmt.Errorf("save returned %s", res)
		}
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	// 4. Refresh menu lalu broadcast
	source := s.loader.Reload(ctx)
	log.Info("product added")

	s.hub.Publish(ws.TypeCatalog, "product_added", fmt.Sprintf("Produk '%s' ditambahkan", draft.Name), map[string]interface{}{
		"id":       draft.ID,
		"name":     draft.Name,
		"category": draft.Category,
		"price":    draft.Price,
		"stock":    draft.Stock,
	})

	// image payloads stay out of the response
	saved := *draft
	saved.ImageBlob = ""
	return &ProductResult{Product: saved, Result: res, Source: source}, nil
}
