package catalog

import (
	"errors"
	"sync"

	"go-kasir-pos/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

// Store holds the catalog shared by the cashier and stock pages.
type Store struct {
	mu       sync.RWMutex
	products []model.Product
	index    map[string]int
	stale    bool
}

func NewStore(products []model.Product) *Store {
	s := &Store{}
	s.Replace(products)
	return s
}

// Replace swaps in a freshly loaded catalog and clears the stale flag.
func (s *Store) Replace(products []model.Product) {
	copied := make([]model.Product, len(products))
	copy(copied, products)

	index := make(map[string]int, len(copied))
	for i, p := range copied {
		index[p.ID] = i
	}

	s.mu.Lock()
	s.products = copied
	s.index = index
	s.stale = false
	s.mu.Unlock()
}

func (s *Store) Snapshot() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Find(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

// ApplyStock overwrites stock levels in place, keyed by product id. Unknown
// ids are reported back.
func (s *Store) ApplyStock(levels map[string]int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []string
	for id, stock := range levels {
		i, ok := s.index[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		s.products[i].Stock = stock
	}
	return missing
}

// MarkStale flags local stock levels that the remote store may not hold.
func (s *Store) MarkStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
