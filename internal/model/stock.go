package model

// PendingAdjustment is an uncommitted stock change for one product.
// Invariant: current stock + Delta >= 0.
type PendingAdjustment struct {
	Delta int    `json:"delta"`
	Note  string `json:"note"`
}

// StockAdjustment is a finalized record produced by a stock commit.
type StockAdjustment struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	Delta        int    `json:"adjustment"`
	NewStock     int    `json:"new_stock"`
	Note         string `json:"notes"`
}
