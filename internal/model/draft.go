package model

const DefaultStockUnit = "Pcs"

// ProductDraft is the new-product form submitted to the remote store.
type ProductDraft struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required,max=255"`
	Category      Category `json:"category" validate:"required,pos_category"`
	Price         int64    `json:"price" validate:"gte=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	StockUnit     string   `json:"stock_unit" validate:"max=20"`
	Available     bool     `json:"available"`
	Description   string   `json:"description"`
	ImageBlob     string   `json:"image_blob,omitempty" validate:"omitempty,base64"`
	ImageFileName string   `json:"image_file_name,omitempty" validate:"required_with=ImageBlob"`
}
