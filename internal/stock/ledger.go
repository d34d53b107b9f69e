package stock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/model"
)

var ErrNothingToCommit = errors.New("no stock changes to commit")

// Ledger collects pending stock adjustments for the stock page. Every
// pending delta is clamped so stock + delta never drops below zero.
type Ledger struct {
	mu      sync.Mutex
	catalog *catalog.Store
	pending map[string]model.PendingAdjustment
	order   []string

	confirmation string
	confirmedAt  time.Time
	ttl          time.Duration
	now          func() time.Time
}

func NewLedger(store *catalog.Store, confirmationTTL time.Duration) *Ledger {
	return &Ledger{
		catalog: store,
		pending: make(map[string]model.PendingAdjustment),
		ttl:     confirmationTTL,
		now:     time.Now,
	}
}

// SetClock replaces the clock used for the confirmation window.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

func clamp(stock, delta int) int {
	if delta < -stock {
		return -stock
	}
	return delta
}

// touch returns the current entry for id, remembering first-touch order.
// Caller holds l.mu.
func (l *Ledger) touch(id string) model.PendingAdjustment {
	adj, ok := l.pending[id]
	if !ok {
		l.order = append(l.order, id)
	}
	return adj
}

// AdjustByDelta adds delta to the pending change for id.
func (l *Ledger) AdjustByDelta(id string, delta int) (model.PendingAdjustment, error) {
	p, ok := l.catalog.Find(id)
	if !ok {
		return model.PendingAdjustment{}, catalog.ErrProductNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	adj := l.touch(id)
	adj.Delta = clamp(p.Stock, adj.Delta+delta)
	l.pending[id] = adj
	return adj, nil
}

// SetAbsoluteDelta replaces the pending change for id with value.
func (l *Ledger) SetAbsoluteDelta(id string, value int) (model.PendingAdjustment, error) {
	p, ok := l.catalog.Find(id)
	if !ok {
		return model.PendingAdjustment{}, catalog.ErrProductNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	adj := l.touch(id)
	adj.Delta = clamp(p.Stock, value)
	l.pending[id] = adj
	return adj, nil
}

func (l *Ledger) SetNote(id, note string) (model.PendingAdjustment, error) {
	if _, ok := l.catalog.Find(id); !ok {
		return model.PendingAdjustment{}, catalog.ErrProductNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	adj := l.touch(id)
	adj.Note = note
	l.pending[id] = adj
	return adj, nil
}

// Reset drops every pending change and the confirmation message.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = make(map[string]model.PendingAdjustment)
	l.order = nil
	l.confirmation = ""
}

func (l *Ledger) Pending() map[string]model.PendingAdjustment {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]model.PendingAdjustment, len(l.pending))
	for id, adj := range l.pending {
		out[id] = adj
	}
	return out
}

// PendingCount counts products with a non-zero pending delta.
func (l *Ledger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, adj := range l.pending {
		if adj.Delta != 0 {
			n++
		}
	}
	return n
}

// Commit turns non-zero pending deltas into records, writes the new levels
// into the catalog and clears the pending map. Records keep the order in
// which products were first touched. Products no longer in the catalog are
// dropped.
func (l *Ledger) Commit() ([]model.StockAdjustment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var records []model.StockAdjustment
	for _, id := range l.order {
		adj := l.pending[id]
		if adj.Delta == 0 {
			continue
		}
		p, ok := l.catalog.Find(id)
		if !ok {
			continue
		}
		// the catalog may have been reloaded with a lower level since
		delta := clamp(p.Stock, adj.Delta)
		if delta == 0 {
			continue
		}
		records = append(records, model.StockAdjustment{
			ProductID:    id,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Delta:        delta,
			NewStock:     p.Stock + delta,
			Note:         strings.TrimSpace(adj.Note),
		})
	}
	if len(records) == 0 {
		return nil, ErrNothingToCommit
	}

	levels := make(map[string]int, len(records))
	for _, r := range records {
		levels[r.ProductID] = r.NewStock
	}
	l.catalog.ApplyStock(levels)

	l.pending = make(map[string]model.PendingAdjustment)
	l.order = nil
	l.confirmation = fmt.Sprintf("%d produk berhasil diupdate!", len(records))
	l.confirmedAt = l.now()

	return records, nil
}

// Confirmation returns the last commit message while it is still on screen.
func (l *Ledger) Confirmation() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.confirmation == "" {
		return ""
	}
	if l.now().Sub(l.confirmedAt) >= l.ttl {
		l.confirmation = ""
	}
	return l.confirmation
}

// ParseDelta reads the leading integer of raw the way the stock form does:
// "12", "-3", "7 pcs" parse, anything else is zero.
func ParseDelta(raw string) int {
	raw = strings.TrimSpace(raw)
	i := 0
	if i < len(raw) && (raw[i] == '-' || raw[i] == '+') {
		i++
	}
	start := i
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}

	n := 0
	for _, c := range raw[start:i] {
		n = n*10 + int(c-'0')
		if n > 1_000_000_000 {
			n = 1_000_000_000
			break
		}
	}
	if raw[0] == '-' {
		return -n
	}
	return n
}
