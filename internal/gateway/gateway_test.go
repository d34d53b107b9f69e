package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) Gateway {
	return NewClient(url, 2*time.Second, logger.Discard())
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, IsConfigured(""))
	assert.False(t, IsConfigured("   "))
	assert.False(t, IsConfigured("https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec"))
	assert.True(t, IsConfigured("https://script.google.com/macros/s/AKfy/exec"))
}

func TestFetchCatalog_Unconfigured(t *testing.T) {
	gw := newTestClient("https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec")

	products, source := gw.FetchCatalog(context.Background())

	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, model.FallbackCatalog(), products)
}

func TestFetchCatalog_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 11, "name": "Soto Ayam", "price": "21000", "image": "https://lh3.googleusercontent.com/d/abc", "category": "Food", "stock": 7, "available": "TRUE"},
			{"id": "12", "name": "Es Jeruk", "price": 8000, "image": "https://lh3.googleusercontent.com/d/xyz=s400", "category": "Drinks", "stock": "0", "available": "FALSE"},
			{"name": "no id row", "price": 1},
			{"id": "13", "name": "Pisang Goreng", "price": 10000, "category": "Snack", "stock": 3}
		]`)
	}))
	defer srv.Close()

	products, source := newTestClient(srv.URL).FetchCatalog(context.Background())

	require.Equal(t, SourceRemote, source)
	require.Len(t, products, 3)

	assert.Equal(t, model.Product{
		ID: "11", Name: "Soto Ayam", Price: 21000,
		Image:    "https://lh3.googleusercontent.com/d/abc=s800",
		Category: model.CategoryFood, Stock: 7, Available: true,
	}, products[0])

	assert.Equal(t, "https://lh3.googleusercontent.com/d/xyz=s400", products[1].Image)
	assert.False(t, products[1].Available)
	assert.Equal(t, 0, products[1].Stock)

	// missing availability follows stock
	assert.True(t, products[2].Available)
}

func TestFetchCatalog_FallbackCases(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `[]`},
		{"object instead of array", http.StatusOK, `{"error": "sheet not found"}`},
		{"null body", http.StatusOK, `null`},
		{"html page", http.StatusOK, `<html>login</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			products, source := newTestClient(srv.URL).FetchCatalog(context.Background())

			assert.Equal(t, SourceFallback, source)
			assert.Len(t, products, 8)
		})
	}
}

func TestFetchCatalog_EmptyArrayIsRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	products, source := newTestClient(srv.URL).FetchCatalog(context.Background())

	assert.Equal(t, SourceRemote, source)
	assert.Empty(t, products)
}

func TestFetchCatalog_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id": "21", "name": "Bakso", "price": 15000, "category": "Food", "stock": 4}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	products, source := newTestClient(srv.URL + "/exec").FetchCatalog(context.Background())

	require.Equal(t, SourceRemote, source)
	require.Len(t, products, 1)
	assert.Equal(t, "Bakso", products[0].Name)
}

func TestFetchCatalog_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	products, source := newTestClient(url).FetchCatalog(context.Background())

	assert.Equal(t, SourceFallback, source)
	assert.Len(t, products, 8)
}

func TestSaveOrder_WireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/plain")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	teh := model.FallbackCatalog()[4]
	order := &model.Order{
		ID:            "TRX-abc",
		Table:         "8",
		Type:          model.OrderDineIn,
		Items:         []model.CartLine{{Product: teh, Quantity: 2}},
		Subtotal:      10000,
		Tax:           1000,
		Total:         11000,
		PaymentMethod: model.PaymentCash,
		CashReceived:  20000,
		Change:        9000,
		Timestamp:     time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}

	result, err := newTestClient(srv.URL).SaveOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, result)

	assert.Equal(t, ActionSaveOrder, got["action"])
	data := got["data"].(map[string]interface{})
	assert.Equal(t, "TRX-abc", data["id"])
	assert.Equal(t, "Dine In", data["type"])
	assert.Equal(t, "Cash", data["paymentMethod"])
	assert.Equal(t, float64(20000), data["cashReceived"])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", data["timestamp"])

	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "5", line["id"])
	assert.Equal(t, "TRUE", line["available"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestPost_ResultClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    Result
		wantErr error
	}{
		{"ok", http.StatusOK, ResultSuccess, nil},
		{"created", http.StatusCreated, ResultSuccess, nil},
		{"redirect", http.StatusFound, ResultUnknown, nil},
		{"see other", http.StatusSeeOther, ResultUnknown, nil},
		{"bad request", http.StatusBadRequest, ResultFailure, ErrRejected},
		{"server error", http.StatusInternalServerError, ResultFailure, ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status >= 300 && tt.status < 400 {
					w.Header().Set("Location", "/result")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			result, err := newTestClient(srv.URL).UpdateStock(context.Background(), model.StockAdjustment{ProductID: "1", Delta: 5})

			assert.Equal(t, tt.want, result)
			assert.Equal(t, tt.want.OK(), err == nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPost_RedirectIsNotFollowed(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Redirect(w, r, "/echo", http.StatusFound)
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).SaveOrder(context.Background(), &model.Order{ID: "TRX-1"})

	require.NoError(t, err)
	assert.Equal(t, ResultUnknown, result)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPost_Unconfigured(t *testing.T) {
	gw := newTestClient("")

	result, err := gw.AddProduct(context.Background(), &model.ProductDraft{Name: "x"})

	assert.Equal(t, ResultFailure, result)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPost_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	result, err := newTestClient(url).SaveOrder(context.Background(), &model.Order{ID: "TRX-1"})

	assert.Equal(t, ResultFailure, result)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPost_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestClient("https://script.google.com/macros/s/abc/exec").SaveOrder(ctx, &model.Order{})

	assert.Equal(t, ResultFailure, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddProduct_WireFormat(t *testing.T) {
	var got struct {
		Action string                 `json:"action"`
		Data   map[string]interface{} `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	draft := &model.ProductDraft{
		ID: "P-1", Name: "Kopi Susu", Category: model.CategoryDrinks,
		Price: 12000, Stock: 40, Available: true,
	}
	result, err := newTestClient(srv.URL).AddProduct(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, result.OK())

	assert.Equal(t, ActionAddProduct, got.Action)
	assert.Equal(t, "Pcs", got.Data["stokType"])
	assert.Equal(t, true, got.Data["available"])
	assert.NotContains(t, got.Data, "imageBlob")
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Result{"r": ResultUnknown})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"UNKNOWN"}`, string(b))
}
