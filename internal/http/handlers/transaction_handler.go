package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/services"
	"tacklepos/internal/validate"
)

type TransactionHandler struct {
	Ledger *services.LedgerService
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	txs, err := h.Ledger.All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(txs)
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid transaction id")
	}
	tx, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tx)
}
