package handler

import (
	"errors"

	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/checkout"
	"go-kasir-pos/internal/guard"
	"go-kasir-pos/internal/service"
	"go-kasir-pos/internal/stock"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, guard.ErrBusy),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrDuplicateProduct):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInsufficientCash),
		errors.Is(err, checkout.ErrInvalidPaymentMethod),
		errors.Is(err, stock.ErrNothingToCommit):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrSubmitFailed),
		errors.Is(err, service.ErrSaveFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
