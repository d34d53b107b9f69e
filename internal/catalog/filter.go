package catalog

import (
	"strings"

	"go-kasir-pos/internal/model"
)

// Filter keeps products in the given category (All keeps every category)
// whose name contains query, ignoring case. Input order is preserved.
func Filter(products []model.Product, category model.Category, query string) []model.Product {
	needle := strings.ToLower(query)

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if category != model.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
