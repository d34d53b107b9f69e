package model

import "time"

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentDebit PaymentMethod = "Debit"
	PaymentQRIS  PaymentMethod = "QRIS"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentQRIS:
		return true
	}
	return false
}

type OrderType string

const (
	OrderDineIn   OrderType = "Dine In"
	OrderTakeAway OrderType = "Take Away"
)

func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeAway
}

// CartLine is one product in the cart. Quantity is always >= 1 while the
// line exists.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) LineTotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

type Order struct {
	ID            string        `json:"id"`
	Table         string        `json:"table"`
	Type          OrderType     `json:"type"`
	Items         []CartLine    `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CashReceived  int64         `json:"cash_received"`
	Change        int64         `json:"change"`
	Timestamp     time.Time     `json:"timestamp"`
}
