package handler

import (
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/service"
	"go-kasir-pos/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// parseValue reads a stock input that may arrive as a number or as the raw
// text of the form field.
func parseValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		return stock.ParseDelta(n)
	default:
		return 0
	}
}

func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	return c.JSON(h.service.StockView())
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	adj, err := h.service.AdjustStock(c.Params("id"), req.Delta)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "data": adj})
}

func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	var req struct {
		Value interface{} `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	adj, err := h.service.SetStock(c.Params("id"), parseValue(req.Value))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "data": adj})
}

func (h *InventoryHandler) SetStockNote(c *fiber.Ctx) error {
	var req struct {
		Note string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	adj, err := h.service.SetStockNote(c.Params("id"), req.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "data": adj})
}

func (h *InventoryHandler) ResetStock(c *fiber.Ctx) error {
	return c.JSON(h.service.ResetStock())
}

func (h *InventoryHandler) CommitStock(c *fiber.Ctx) error {
	result, err := h.service.CommitStock(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": result.Confirmation, "data": result})
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var draft model.ProductDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.AddProduct(c.UserContext(), &draft)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Produk berhasil ditambahkan!", "data": result})
}
