package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"tacklepos/internal/log"
)

// Register mounts the dashboard page and the JSON API.
func Register(app *fiber.App, d *Deps) {
	serial := Serialize()

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Outside the serializer: an AI call must not hold up the register.
	describeLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|describe"
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Security(c, "rate.describe.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	app.Post("/api/v1/products/describe", describeLimiter, d.ProductHandler.Describe)

	app.Get("/", serial, d.DashboardHandler.Page)

	api := app.Group("/api/v1", serial)
	api.Get("/products", d.ProductHandler.List)
	api.Post("/products", d.ProductHandler.Create)
	api.Get("/products/:id", d.ProductHandler.Get)
	api.Put("/products/:id", d.ProductHandler.Update)
	api.Post("/products/:id/stock", d.ProductHandler.AdjustStock)
	api.Get("/availability", d.InventoryHandler.Check)

	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart/items", d.CartHandler.Add)
	api.Put("/cart/items/:id", d.CartHandler.SetQuantity)
	api.Delete("/cart/items/:id", d.CartHandler.Remove)
	api.Post("/checkout", d.CheckoutHandler.Place)

	api.Get("/transactions", d.TransactionHandler.List)
	api.Get("/transactions/:id", d.TransactionHandler.Get)
	api.Get("/dashboard", d.DashboardHandler.JSON)
	api.Get("/categories", d.EnumHandler.Categories)
	api.Get("/units", d.EnumHandler.Units)

	app.Use(NotFound)
}
