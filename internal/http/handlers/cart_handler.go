package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/services"
	"tacklepos/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.View(ensureSID(c)))
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	productID, ok := validate.ID(in.ProductID)
	if !ok {
		return badRequest(c, "productId", "missing productId")
	}
	cv, err := h.Cart.Add(c.UserContext(), sid, productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cv)
}

// SetQuantity answers 409 with the unchanged cart when the quantity exceeds stock.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	cv, applied, err := h.Cart.SetQuantity(c.UserContext(), sid, id, in.Quantity)
	if err != nil {
		return fail(c, err)
	}
	if !applied {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "quantity exceeds stock", "cart": cv})
	}
	return c.JSON(cv)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	cv, err := h.Cart.Remove(sid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cv)
}
