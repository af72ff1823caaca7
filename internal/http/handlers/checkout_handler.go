package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/log"
	"tacklepos/internal/services"
)

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	res, err := h.Checkout.Checkout(c.UserContext(), h.Cart.Cart(sid))
	if err != nil {
		return fail(c, err)
	}
	h.Cart.Drop(sid)
	log.Audit(c, "checkout.place", map[string]any{
		"tx":         res.Transaction.ID,
		"total":      res.Transaction.Total,
		"underflows": len(res.Underflows),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}
