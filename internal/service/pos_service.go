package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-kasir-pos/internal/cart"
	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/checkout"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/ws"

	"github.com/sirupsen/logrus"
)

var (
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrInvalidCategory = errors.New("unknown category")
)

type CartView struct {
	Items    []model.CartLine `json:"items"`
	Quantity int              `json:"quantity"`
	model.Totals
}

type PosService interface {
	ReloadCatalog(ctx context.Context) *CatalogView
	Catalog(category, query string) (*CatalogView, error)
	AddToCart(productID string) (*CartView, error)
	AdjustCartItem(productID string, delta int) *CartView
	ClearCart() *CartView
	Cart() *CartView
	Checkout(ctx context.Context, req checkout.Request) (*checkout.Receipt, error)
	CheckoutState() checkout.State
}

type posService struct {
	loader  *CatalogLoader
	cart    *cart.Ledger
	flow    *checkout.Flow
	journal repository.JournalRepository
	hub     Publisher
	log     *logrus.Logger
	now     func() time.Time
}

func NewPosService(loader *CatalogLoader, c *cart.Ledger, flow *checkout.Flow, journal repository.JournalRepository, hub Publisher, log *logrus.Logger) PosService {
	if hub == nil {
		hub = nopPublisher{}
	}
	return &posService{
		loader:  loader,
		cart:    c,
		flow:    flow,
		journal: journal,
		hub:     hub,
		log:     log,
		now:     time.Now,
	}
}

func (s *posService) ReloadCatalog(ctx context.Context) *CatalogView {
	s.loader.Reload(ctx)
	view, _ := s.Catalog("", "")
	return view
}

func (s *posService) Catalog(category, query string) (*CatalogView, error) {
	cat, ok := model.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	store := s.loader.Store()
	return &CatalogView{
		Category: cat,
		Query:    query,
		Source:   s.loader.Source(),
		Stale:    store.Stale(),
		Products: toViews(catalog.Filter(store.Snapshot(), cat, query)),
	}, nil
}

func (s *posService) AddToCart(productID string) (*CartView, error) {
	p, ok := s.loader.Store().Find(productID)
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	if p.OutOfStock() {
		return nil, ErrOutOfStock
	}
	s.cart.Add(p)
	return s.Cart(), nil
}

func (s *posService) AdjustCartItem(productID string, delta int) *CartView {
	s.cart.AdjustQuantity(productID, delta)
	return s.Cart()
}

func (s *posService) ClearCart() *CartView {
	s.cart.Clear()
	return s.Cart()
}

func (s *posService) Cart() *CartView {
	lines := s.cart.Lines()
	qty := 0
	for _, l := range lines {
		qty += l.Quantity
	}
	return &CartView{Items: lines, Quantity: qty, Totals: cart.ComputeTotals(lines)}
}

func (s *posService) CheckoutState() checkout.State {
	return s.flow.State()
}

func (s *posService) Checkout(ctx context.Context, req checkout.Request) (*checkout.Receipt, error) {
	receipt, err := s.flow.Submit(ctx, req)
	if receipt == nil {
		// refused before anything was sent
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"order_id": receipt.Order.ID,
		"total":    receipt.Order.Total,
		"method":   receipt.Order.PaymentMethod,
		"result":   receipt.Result,
	})
	s.record(receipt)

	if err != nil {
		entry.WithError(err).Error("Failed to save order")
		return receipt, err
	}

	entry.Info("order settled")
	s.loader.Reload(ctx)

	s.hub.Publish(ws.TypeOrder, "order_settled",
		fmt.Sprintf("Order %s (%s) tersimpan", receipt.Order.ID, receipt.Order.PaymentMethod),
		map[string]interface{}{
			"id":     receipt.Order.ID,
			"total":  receipt.Order.Total,
			"items":  len(receipt.Order.Items),
			"result": receipt.Result,
		})
	return receipt, nil
}

func (s *posService) record(receipt *checkout.Receipt) {
	if s.journal == nil {
		return
	}
	items := 0
	for _, l := range receipt.Order.Items {
		items += l.Quantity
	}
	entry := &model.JournalEntry{
		Kind:          model.JournalOrder,
		Reference:     receipt.Order.ID,
		PaymentMethod: receipt.Order.PaymentMethod,
		Amount:        receipt.Order.Total,
		Items:         items,
		Outcome:       receipt.Result.String(),
	}
	entry.CreatedAt = s.now().UTC()
	if err := s.journal.Create(entry); err != nil {
		s.log.WithError(err).WithField("order_id", receipt.Order.ID).Warn("failed to journal order")
	}
}
