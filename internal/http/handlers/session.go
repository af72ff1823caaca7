package handlers

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tacklepos/internal/validate"
)

// ensureSID returns the register session id, issuing a cookie on first visit.
func ensureSID(c *fiber.Ctx) string {
	if sid, ok := validate.ID(c.Cookies("sid")); ok {
		return sid
	}
	sid := uuid.NewString()
	c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, Path: "/", HTTPOnly: true, SameSite: "Lax"})
	return sid
}

// Serialize lets one request at a time through. Catalog, carts and ledger
// assume a single writer.
func Serialize() fiber.Handler {
	var mu sync.Mutex
	return func(c *fiber.Ctx) error {
		mu.Lock()
		defer mu.Unlock()
		return c.Next()
	}
}
