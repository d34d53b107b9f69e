package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-kasir-pos/internal/cart"
	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/guard"
	"go-kasir-pos/internal/model"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientCash     = errors.New("cash received is less than the order total")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrSubmitFailed         = errors.New("order could not be saved")
	ErrBadTransition        = errors.New("invalid checkout state transition")
)

// OrderSink persists a finished order.
type OrderSink interface {
	SaveOrder(ctx context.Context, order *model.Order) (gateway.Result, error)
}

type Request struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	CashReceived  int64               `json:"cash_received"`
}

type Receipt struct {
	Order  *model.Order   `json:"order"`
	Result gateway.Result `json:"result"`
	State  State          `json:"state"`
}

type Options struct {
	Table     string
	OrderType model.OrderType
	Now       func() time.Time
	NewID     func() string
}

// Flow drives one checkout at a time from the cart to the order sink.
type Flow struct {
	mu    sync.Mutex
	state State

	cart  *cart.Ledger
	sink  OrderSink
	guard guard.Guard

	table     string
	orderType model.OrderType
	now       func() time.Time
	newID     func() string
}

func NewFlow(c *cart.Ledger, sink OrderSink, g guard.Guard, opts Options) *Flow {
	f := &Flow{
		state:     StateIdle,
		cart:      c,
		sink:      sink,
		guard:     g,
		table:     opts.Table,
		orderType: opts.OrderType,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if f.table == "" {
		f.table = "8"
	}
	if !f.orderType.Valid() {
		f.orderType = model.OrderDineIn
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.newID == nil {
		f.newID = func() string { return "TRX-" + uuid.NewString() }
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) transition(to State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !CanTransition(f.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, f.state, to)
	}
	f.state = to
	return nil
}

// Change is what the cashier hands back. Only cash payments give change.
func Change(method model.PaymentMethod, received, total int64) int64 {
	if method != model.PaymentCash || received <= total {
		return 0
	}
	return received - total
}

// Validate checks a request against the cart totals without submitting.
func Validate(lines []model.CartLine, req Request) (model.Totals, error) {
	if len(lines) == 0 {
		return model.Totals{}, ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return model.Totals{}, ErrInvalidPaymentMethod
	}
	totals := cart.ComputeTotals(lines)
	if req.PaymentMethod == model.PaymentCash && req.CashReceived < totals.Total {
		return totals, ErrInsufficientCash
	}
	return totals, nil
}

// Submit validates the cart, builds the order and hands it to the sink.
// Refusals make no network call and leave the flow IDLE. A failed save
// leaves the cart untouched; a settled one clears it.
func (f *Flow) Submit(ctx context.Context, req Request) (*Receipt, error) {
	release, err := f.guard.Acquire(ctx, guard.KeyCheckout)
	if err != nil {
		return nil, err
	}
	defer release()

	// 1. Validasi
	if err := f.transition(StateValidating); err != nil {
		return nil, err
	}
	lines := f.cart.Lines()
	totals, err := Validate(lines, req)
	if err != nil {
		if terr := f.transition(StateIdle); terr != nil {
			return nil, errors.Join(err, terr)
		}
		return nil, err
	}

	// 2. Susun order
	order := &model.Order{
		ID:            f.newID(),
		Table:         f.table,
		Type:          f.orderType,
		Items:         lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: req.PaymentMethod,
		CashReceived:  req.CashReceived,
		Change:        Change(req.PaymentMethod, req.CashReceived, totals.Total),
		Timestamp:     f.now(),
	}

	// 3. Kirim ke remote
	if err := f.transition(StateSubmitting); err != nil {
		return nil, err
	}
	result, err := f.sink.SaveOrder(ctx, order)
	if err != nil || !result.OK() {
		receipt := &Receipt{Order: order, Result: result, State: StateFailed}
		if err == nil {
			err = fmt.Errorf("%w: save returned %s", ErrSubmitFailed, result)
		} else {
			err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
		if terr := f.transition(StateFailed); terr != nil {
			receipt.State = f.State()
			return receipt, errors.Join(err, terr)
		}
		return receipt, err
	}

	// 4. Settled: kosongkan keranjang
	f.cart.Clear()
	receipt := &Receipt{Order: order, Result: result, State: StateSettled}
	if err := f.transition(StateSettled); err != nil {
		// order is saved remotely, only the local state is off
		receipt.State = f.State()
		return receipt, err
	}
	return receipt, nil
}
