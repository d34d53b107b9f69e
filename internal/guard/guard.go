package guard

import (
	"context"
	"errors"
	"sync"
)

// Keys for the station's long-running submissions.
const (
	KeyCheckout    = "checkout"
	KeyStockCommit = "stock-commit"
	KeyProductSave = "product-save"
)

var ErrBusy = errors.New("a submission is already in progress")

// Guard hands out one busy flag per key. Acquire fails with ErrBusy while
// the flag is held; the returned func releases it.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type localGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

// NewLocal guards submissions inside this process.
func NewLocal() Guard {
	return &localGuard{busy: make(map[string]bool)}
}

func (g *localGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy[key] {
		return nil, ErrBusy
	}
	g.busy[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}
