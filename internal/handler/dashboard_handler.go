package handler

import (
	"strconv"
	"time"

	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	now     func() time.Time
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s, now: time.Now}
}

// GetDashboardStats returns the day's sales and stock overview
// Query params: date (YYYY-MM-DD, default today)
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	day := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		day = parsed
	}

	stats, err := h.service.GetDashboardStats(day)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetJournal returns recent orders and stock batches for the activity log
// Query params: limit (default 50)
func (h *DashboardHandler) GetJournal(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}

	entries, err := h.service.GetJournal(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch journal"})
	}
	return c.JSON(fiber.Map{"limit": limit, "data": entries})
}
