package model

import "strings"

type Category string

const (
	CategoryAll     Category = "All"
	CategoryFood    Category = "Food"
	CategoryDrinks  Category = "Drinks"
	CategorySnack   Category = "Snack"
	CategoryDessert Category = "Dessert"
)

// Categories lists the product categories in menu tab order. "All" is a filter
// value only and is never stored on a product.
var Categories = []Category{CategoryFood, CategoryDrinks, CategorySnack, CategoryDessert}

// LowStockThreshold is the stock level under which the menu shows a warning badge.
const LowStockThreshold = 15

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts any casing and maps an empty value to All.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, string(CategoryAll)) {
		return CategoryAll, true
	}
	for _, known := range Categories {
		if strings.EqualFold(raw, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     int64    `json:"price"`
	Image     string   `json:"image"`
	Category  Category `json:"category"`
	Stock     int      `json:"stock"`
	Available bool     `json:"available"`
}

func (p Product) OutOfStock() bool {
	return p.Stock <= 0
}

func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock < LowStockThreshold
}
