package service

import (
	"context"
	"sync"

	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/ws"

	"github.com/sirupsen/logrus"
)

// Publisher pushes events to connected displays.
type Publisher interface {
	Publish(eventType, action, message string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, string, interface{}) {}

// ProductView adds the menu badges to a product.
type ProductView struct {
	model.Product
	OutOfStock bool `json:"out_of_stock"`
	LowStock   bool `json:"low_stock"`
}

func toViews(products []model.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{Product: p, OutOfStock: p.OutOfStock(), LowStock: p.LowStock()})
	}
	return views
}

type CatalogView struct {
	Category model.Category `json:"category"`
	Query    string         `json:"query"`
	Source   gateway.Source `json:"source"`
	Stale    bool           `json:"stale"`
	Products []ProductView  `json:"products"`
}

// CatalogLoader fetches the menu into the shared store. Both the cashier and
// the inventory side reload through it.
type CatalogLoader struct {
	gw    gateway.Gateway
	store *catalog.Store
	hub   Publisher
	log   *logrus.Logger

	mu     sync.RWMutex
	source gateway.Source
}

func NewCatalogLoader(gw gateway.Gateway, store *catalog.Store, hub Publisher, log *logrus.Logger) *CatalogLoader {
	if hub == nil {
		hub = nopPublisher{}
	}
	return &CatalogLoader{gw: gw, store: store, hub: hub, log: log, source: gateway.SourceFallback}
}

func (l *CatalogLoader) Reload(ctx context.Context) gateway.Source {
	products, source := l.gw.FetchCatalog(ctx)
	l.store.Replace(products)

	l.mu.Lock()
	l.source = source
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{"source": source, "products": len(products)}).Info("catalog loaded")
	l.hub.Publish(ws.TypeCatalog, "catalog_reloaded", "", map[string]interface{}{
		"source":   source,
		"products": len(products),
	})
	return source
}

func (l *CatalogLoader) Source() gateway.Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

func (l *CatalogLoader) Store() *catalog.Store {
	return l.store
}
