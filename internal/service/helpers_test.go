package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-kasir-pos/internal/cart"
	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/checkout"
	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/guard"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/stock"
	"go-kasir-pos/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu          sync.Mutex
	catalog     []model.Product
	source      gateway.Source
	fetches     int
	orders      []*model.Order
	orderResult gateway.Result
	orderErr    error
	drafts      []*model.ProductDraft
	draftResult gateway.Result
	stockCalls  []model.StockAdjustment
	stockFail   map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		catalog:     model.FallbackCatalog(),
		source:      gateway.SourceRemote,
		orderResult: gateway.ResultSuccess,
		draftResult: gateway.ResultUnknown,
		stockFail:   map[string]bool{},
	}
}

func (g *fakeGateway) Configured() bool { return true }

func (g *fakeGateway) FetchCatalog(ctx context.Context) ([]model.Product, gateway.Source) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	out := make([]model.Product, len(g.catalog))
	copy(out, g.catalog)
	return out, g.source
}

func (g *fakeGateway) SaveOrder(ctx context.Context, order *model.Order) (gateway.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = append(g.orders, order)
	return g.orderResult, g.orderErr
}

func (g *fakeGateway) AddProduct(ctx context.Context, draft *model.ProductDraft) (gateway.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drafts = append(g.drafts, draft)
	if !g.draftResult.OK() {
		return g.draftResult, gateway.ErrRejected
	}
	g.catalog = append(g.catalog, model.Product{
		ID: draft.ID, Name: draft.Name, Price: draft.Price,
		Category: draft.Category, Stock: draft.Stock, Available: draft.Available,
	})
	return g.draftResult, nil
}

func (g *fakeGateway) UpdateStock(ctx context.Context, adj model.StockAdjustment) (gateway.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stockCalls = append(g.stockCalls, adj)
	if g.stockFail[adj.ProductID] {
		return gateway.ResultFailure, gateway.ErrRejected
	}
	return gateway.ResultSuccess, nil
}

type event struct {
	Type, Action, Message string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
}

func (p *recordingPublisher) Publish(eventType, action, message string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{eventType, action, message})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func setupJournal(t *testing.T) repository.JournalRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.JournalEntry{}))
	return repository.NewJournalRepo(db)
}

type station struct {
	gw        *fakeGateway
	hub       *recordingPublisher
	journal   repository.JournalRepository
	loader    *CatalogLoader
	pos       PosService
	inventory InventoryService
	dashboard DashboardService
}

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newStation(t *testing.T) *station {
	log := logger.Discard()
	gw := newFakeGateway()
	hub := &recordingPublisher{}
	journal := setupJournal(t)
	g := guard.NewLocal()

	loader := NewCatalogLoader(gw, catalog.NewStore(nil), hub, log)
	loader.Reload(context.Background())

	c := cart.NewLedger()
	flow := checkout.NewFlow(c, gw, g, checkout.Options{Now: func() time.Time { return testNow }})

	pos := NewPosService(loader, c, flow, journal, hub, log)
	pos.(*posService).now = func() time.Time { return testNow }

	ledger := stock.NewLedger(loader.Store(), 3*time.Second)
	ledger.SetClock(func() time.Time { return testNow })
	inv := NewInventoryService(loader, ledger, gw, g, journal, hub, log)
	inv.(*inventoryService).now = func() time.Time { return testNow }

	return &station{
		gw:        gw,
		hub:       hub,
		journal:   journal,
		loader:    loader,
		pos:       pos,
		inventory: inv,
		dashboard: NewDashboardService(journal, loader),
	}
}
