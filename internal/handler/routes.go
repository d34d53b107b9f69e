package handler

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the station API under api (normally /api/v1).
func RegisterRoutes(api fiber.Router, pos *PosHandler, inv *InventoryHandler, dash *DashboardHandler) {
	// Kasir
	api.Get("/catalog", pos.GetCatalog)
	api.Post("/catalog/reload", pos.ReloadCatalog)
	api.Get("/cart", pos.GetCart)
	api.Post("/cart/items", pos.AddCartItem)
	api.Patch("/cart/items/:id", pos.UpdateCartItem)
	api.Delete("/cart", pos.ClearCart)
	api.Post("/checkout", pos.Checkout)
	api.Get("/checkout/state", pos.GetCheckoutState)

	// Stock
	api.Get("/stock", inv.GetStock)
	api.Post("/stock/pending/:id/adjust", inv.AdjustStock)
	api.Put("/stock/pending/:id", inv.SetStock)
	api.Put("/stock/pending/:id/note", inv.SetStockNote)
	api.Delete("/stock/pending", inv.ResetStock)
	api.Post("/stock/commit", inv.CommitStock)

	// Product
	api.Post("/products", inv.CreateProduct)

	// Dashboard & logs
	api.Get("/dashboard/stats", dash.GetDashboardStats)
	api.Get("/dashboard/journal", dash.GetJournal)
}
