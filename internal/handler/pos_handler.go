package handler

import (
	"go-kasir-pos/internal/checkout"
	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PosHandler struct {
	service service.PosService
}

func NewPosHandler(s service.PosService) *PosHandler {
	return &PosHandler{service: s}
}

// GetCatalog returns the filtered menu
// Query params: category (default All), q
func (h *PosHandler) GetCatalog(c *fiber.Ctx) error {
	view, err := h.service.Catalog(c.Query("category"), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

func (h *PosHandler) ReloadCatalog(c *fiber.Ctx) error {
	return c.JSON(h.service.ReloadCatalog(c.UserContext()))
}

func (h *PosHandler) GetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.Cart())
}

func (h *PosHandler) AddCartItem(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cart, err := h.service.AddToCart(req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(cart)
}

func (h *PosHandler) UpdateCartItem(c *fiber.Ctx) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	return c.JSON(h.service.AdjustCartItem(c.Params("id"), req.Delta))
}

func (h *PosHandler) ClearCart(c *fiber.Ctx) error {
	return c.JSON(h.service.ClearCart())
}

func (h *PosHandler) Checkout(c *fiber.Ctx) error {
	var req checkout.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	receipt, err := h.service.Checkout(c.UserContext(), req)
	if err != nil {
		body := fiber.Map{"error": err.Error()}
		if receipt != nil {
			body["data"] = receipt
		}
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order saved", "data": receipt})
}

func (h *PosHandler) GetCheckoutState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": h.service.CheckoutState()})
}
