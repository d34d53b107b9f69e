package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-kasir-pos/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const unconfiguredMarker = "YOUR_SCRIPT_ID"

// Reads follow the script's redirect to its result page. Writes never do.
const maxReadRedirects = 5

const (
	ActionSaveOrder   = "SAVE_ORDER"
	ActionAddProduct  = "ADD_PRODUCT"
	ActionUpdateStock = "UPDATE_STOCK"
)

var (
	ErrNotConfigured = errors.New("remote endpoint is not configured")
	ErrTransport     = errors.New("remote endpoint unreachable")
	ErrRejected      = errors.New("remote endpoint rejected the request")
)

// Result is the outcome of a write to the remote store. The script endpoint
// answers a successful write with a redirect to its result page, which we
// cannot read, so such writes are Unknown rather than Success.
type Result int

const (
	ResultFailure Result = iota
	ResultSuccess
	ResultUnknown
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultUnknown:
		return "UNKNOWN"
	default:
		return "FAILURE"
	}
}

// OK reports whether the write should be treated as persisted.
func (r Result) OK() bool {
	return r == ResultSuccess || r == ResultUnknown
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Source tells where a catalog came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

type Gateway interface {
	Configured() bool
	FetchCatalog(ctx context.Context) ([]model.Product, Source)
	SaveOrder(ctx context.Context, order *model.Order) (Result, error)
	AddProduct(ctx context.Context, draft *model.ProductDraft) (Result, error)
	UpdateStock(ctx context.Context, adj model.StockAdjustment) (Result, error)
}

type client struct {
	endpoint string
	timeout  time.Duration
	log      *logrus.Logger
}

func NewClient(endpoint string, timeout time.Duration, log *logrus.Logger) Gateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &client{
		endpoint: strings.TrimSpace(endpoint),
		timeout:  timeout,
		log:      log,
	}
}

// IsConfigured reports whether endpoint points at a deployed script.
func IsConfigured(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	return endpoint != "" && !strings.Contains(endpoint, unconfiguredMarker)
}

func (c *client) Configured() bool {
	return IsConfigured(c.endpoint)
}

func (c *client) FetchCatalog(ctx context.Context) ([]model.Product, Source) {
	if !c.Configured() {
		return model.FallbackCatalog(), SourceFallback
	}

	timeout, err := c.timeoutFor(ctx)
	if err != nil {
		c.log.WithError(err).Warn("catalog fetch skipped, using built-in menu")
		return model.FallbackCatalog(), SourceFallback
	}

	code, body, errs := fiber.Get(c.endpoint).
		MaxRedirectsCount(maxReadRedirects).
		Timeout(timeout).
		Bytes()
	if len(errs) > 0 {
		c.log.WithError(errors.Join(errs...)).Error("Error fetching menu")
		return model.FallbackCatalog(), SourceFallback
	}
	if code < 200 || code > 299 {
		c.log.WithField("status", code).Error("Error fetching menu")
		return model.FallbackCatalog(), SourceFallback
	}

	products, err := decodeCatalog(body, c.log)
	if err != nil {
		c.log.WithError(err).Error("Error fetching menu")
		return model.FallbackCatalog(), SourceFallback
	}
	return products, SourceRemote
}

func (c *client) SaveOrder(ctx context.Context, order *model.Order) (Result, error) {
	return c.post(ctx, ActionSaveOrder, toWireOrder(order))
}

func (c *client) AddProduct(ctx context.Context, draft *model.ProductDraft) (Result, error) {
	return c.post(ctx, ActionAddProduct, toWireDraft(draft))
}

func (c *client) UpdateStock(ctx context.Context, adj model.StockAdjustment) (Result, error) {
	return c.post(ctx, ActionUpdateStock, wireStockUpdate{ProductID: adj.ProductID, Adjustment: adj.Delta})
}

// post sends {action, data} as text/plain. The script host rejects
// preflighted requests, so JSON content types are avoided.
func (c *client) post(ctx context.Context, action string, data interface{}) (Result, error) {
	entry := c.log.WithField("action", action)
	if !c.Configured() {
		entry.Warn("No API endpoint configured")
		return ResultFailure, ErrNotConfigured
	}

	timeout, err := c.timeoutFor(ctx)
	if err != nil {
		return ResultFailure, err
	}

	body, err := json.Marshal(envelope{Action: action, Data: data})
	if err != nil {
		return ResultFailure, fmt.Errorf("encode %s: %w", action, err)
	}

	// Redirects are not followed: a 3xx is the script's post-write hand-off.
	code, _, errs := fiber.Post(c.endpoint).
		ContentType(fiber.MIMETextPlain).
		Body(body).
		Timeout(timeout).
		Bytes()
	if len(errs) > 0 {
		entry.WithError(errors.Join(errs...)).Error("remote write failed")
		return ResultFailure, fmt.Errorf("%w: %v", ErrTransport, errors.Join(errs...))
	}

	result := classify(code)
	entry = entry.WithFields(logrus.Fields{"status": code, "result": result})
	if !result.OK() {
		entry.Error("remote write rejected")
		return result, fmt.Errorf("%w: status %d", ErrRejected, code)
	}
	entry.Info("remote write accepted")
	return result, nil
}

func classify(code int) Result {
	switch {
	case code >= 200 && code <= 299:
		return ResultSuccess
	case code >= 300 && code <= 399:
		return ResultUnknown
	default:
		return ResultFailure
	}
}

func (c *client) timeoutFor(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}
