package cart

import (
	"sync"

	"go-kasir-pos/internal/model"
)

// TaxPercent is the flat service tax applied to every order.
const TaxPercent = 10

// Ledger is the cashier's open order. Lines keep insertion order and there
// is at most one line per product id.
type Ledger struct {
	mu    sync.Mutex
	lines []model.CartLine
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add puts one unit of p in the cart. It does not look at stock; callers
// refuse out-of-stock products before calling it.
func (l *Ledger) Add(p model.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].Product.ID == p.ID {
			l.lines[i].Quantity++
			return
		}
	}
	l.lines = append(l.lines, model.CartLine{Product: p, Quantity: 1})
}

// AdjustQuantity changes a line by delta, flooring at zero. A line that
// reaches zero is removed. Unknown ids are ignored.
func (l *Ledger) AdjustQuantity(productID string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].Product.ID != productID {
			continue
		}
		q := l.lines[i].Quantity + delta
		if q <= 0 {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
		l.lines[i].Quantity = q
		return
	}
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	l.lines = nil
	l.mu.Unlock()
}

func (l *Ledger) Lines() []model.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Quantity is the number of units across all lines.
func (l *Ledger) Quantity() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

func (l *Ledger) Totals() model.Totals {
	return ComputeTotals(l.Lines())
}

// ComputeTotals sums the lines and adds tax. Tax is floored to the whole
// currency unit, so 10% of 12345 is 1234.
func ComputeTotals(lines []model.CartLine) model.Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.LineTotal()
	}
	tax := subtotal * TaxPercent / 100
	return model.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
