package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/services"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

func (h *DashboardHandler) JSON(c *fiber.Ctx) error {
	d, err := h.Dashboard.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	d, err := h.Dashboard.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	var peak int64
	for _, s := range d.DailySales {
		peak = max(peak, s.Total)
	}
	return render(c, "dashboard", fiber.Map{"D": d, "Peak": peak})
}
