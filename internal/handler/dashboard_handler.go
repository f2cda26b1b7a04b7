package handler

import (
	"time"

	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GET /api/v1/dashboard/stats (admin)
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

// GET /api/v1/dashboard/sales?range=7d (admin)
func (h *DashboardHandler) GetSalesMovement(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d")
	now := time.Now()
	var startDate time.Time
	endDate := now

	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "6m":
		startDate = now.AddDate(0, -6, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		startDate = now.AddDate(0, 0, -7)
	}

	movement, err := h.service.GetSalesMovement(startDate, endDate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(movement)
}
