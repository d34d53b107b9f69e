package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-kasir-pos/internal/model"

	"github.com/sirupsen/logrus"
)

var errNotArray = errors.New("catalog response is not a JSON array")

// timestampLayout matches the ISO form the sheet script already stores.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type envelope struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// flexString accepts a JSON string or number. Sheet ids often come back as numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		*s = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", raw)
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts a number or a numeric string; blank means zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected number, got %q", raw)
	}
	*n = flexInt(math.Round(f))
	return nil
}

// flexBool accepts true/false or the sheet's "TRUE"/"FALSE" text.
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
	}
	if raw == "" || raw == "null" {
		*v = false
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("expected boolean, got %q", raw)
	}
	*v = flexBool(parsed)
	return nil
}

func boolText(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

type wireProduct struct {
	ID        flexString `json:"id"`
	Name      string     `json:"name"`
	Price     flexInt    `json:"price"`
	Image     string     `json:"image"`
	Category  string     `json:"category"`
	Stock     flexInt    `json:"stock"`
	Available *flexBool  `json:"available"`
}

func (w wireProduct) toModel() model.Product {
	raw := strings.TrimSpace(w.Category)
	category, ok := model.ParseCategory(raw)
	if !ok || category == model.CategoryAll {
		category = model.Category(raw)
	}
	p := model.Product{
		ID:       string(w.ID),
		Name:     strings.TrimSpace(w.Name),
		Price:    int64(w.Price),
		Image:    processImageURL(w.Image),
		Category: category,
		Stock:    int(w.Stock),
	}
	if w.Available != nil {
		p.Available = bool(*w.Available)
	} else {
		p.Available = p.Stock > 0
	}
	return p
}

// decodeCatalog requires a JSON array. Records that cannot be read or carry
// no id are skipped so one bad sheet row does not hide the whole menu.
func decodeCatalog(body []byte, log *logrus.Logger) ([]model.Product, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errNotArray
	}
	if rows == nil {
		return nil, errNotArray
	}

	products := make([]model.Product, 0, len(rows))
	for i, row := range rows {
		var w wireProduct
		if err := json.Unmarshal(row, &w); err != nil {
			log.WithError(err).WithField("row", i).Warn("skipping unreadable catalog row")
			continue
		}
		if w.ID == "" {
			log.WithField("row", i).Warn("skipping catalog row without id")
			continue
		}
		products = append(products, w.toModel())
	}
	return products, nil
}

// processImageURL sizes Drive thumbnails for display. Other URLs pass through.
func processImageURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" || strings.HasPrefix(url, "https://images.unsplash.com") {
		return url
	}
	if strings.Contains(url, "lh3.googleusercontent.com/d/") && !strings.Contains(url, "=s") {
		return url + "=s800"
	}
	return url
}

type wireLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
	Available string `json:"available"`
	Quantity  int    `json:"quantity"`
}

type wireOrder struct {
	ID            string     `json:"id"`
	Table         string     `json:"table"`
	Type          string     `json:"type"`
	Items         []wireLine `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	Timestamp     string     `json:"timestamp"`
	CashReceived  int64      `json:"cashReceived"`
}

func toWireOrder(o *model.Order) wireOrder {
	items := make([]wireLine, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, wireLine{
			ID:        line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Image:     line.Product.Image,
			Category:  string(line.Product.Category),
			Stock:     line.Product.Stock,
			Available: boolText(line.Product.Available),
			Quantity:  line.Quantity,
		})
	}
	return wireOrder{
		ID:            o.ID,
		Table:         o.Table,
		Type:          string(o.Type),
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		Timestamp:     FormatTimestamp(o.Timestamp),
		CashReceived:  o.CashReceived,
	}
}

type wireDraft struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Price         int64  `json:"price"`
	Stock         int    `json:"stock"`
	StockUnit     string `json:"stokType"`
	Available     bool   `json:"available"`
	Description   string `json:"description"`
	ImageBlob     string `json:"imageBlob,omitempty"`
	ImageFileName string `json:"imageFileName,omitempty"`
}

func toWireDraft(d *model.ProductDraft) wireDraft {
	unit := d.StockUnit
	if unit == "" {
		unit = model.DefaultStockUnit
	}
	return wireDraft{
		ID:            d.ID,
		Name:          d.Name,
		Category:      string(d.Category),
		Price:         d.Price,
		Stock:         d.Stock,
		StockUnit:     unit,
		Available:     d.Available,
		Description:   d.Description,
		ImageBlob:     d.ImageBlob,
		ImageFileName: d.ImageFileName,
	}
}

type wireStockUpdate struct {
	ProductID  string `json:"productId"`
	Adjustment int    `json:"adjustment"`
}

// FormatTimestamp renders t the way order timestamps are sent upstream.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
