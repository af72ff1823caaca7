package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/domain"
	"tacklepos/internal/insight"
	"tacklepos/internal/log"
	"tacklepos/internal/services"
	"tacklepos/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Insight *insight.Provider
}

type productPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Category      string `json:"category"`
	Unit          string `json:"unit"`
	Stock         int    `json:"stock"`
	PriceBuy      int64  `json:"priceBuy"`
	PriceSell     int64  `json:"priceSell"`
	MinStockAlert int    `json:"minStockAlert"`
	Description   string `json:"description"`
}

func (p productPayload) product() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      domain.Category(p.Category),
		Unit:          domain.Unit(p.Unit),
		Stock:         p.Stock,
		PriceBuy:      p.PriceBuy,
		PriceSell:     p.PriceSell,
		MinStockAlert: p.MinStockAlert,
		Description:   p.Description,
	}
}

// List filters the catalog: q (name or sku), category, inStock, lowStock.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	preds := []services.Predicate{}
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return badRequest(c, "q", "invalid search query")
		}
		preds = append(preds, services.MatchQuery(q))
	}
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.Category(raw)
		if !ok {
			return badRequest(c, "category", "unknown category")
		}
		preds = append(preds, services.InCategory(cat))
	}
	if c.QueryBool("inStock") {
		preds = append(preds, services.InStock())
	}
	if c.QueryBool("lowStock") {
		preds = append(preds, services.LowStock())
	}

	out := []domain.Product{}
	for p, err := range h.Catalog.Search(c.UserContext(), services.All(preds...)) {
		if err != nil {
			return err
		}
		out = append(out, p)
	}
	return c.JSON(out)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Catalog.Find(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in productPayload
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	p, err := h.Catalog.Add(c.UserContext(), in.product())
	if err != nil {
		return fail(c, err)
	}
	log.Audit(c, "product.create", map[string]any{"product": p.ID, "stock": p.Stock})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update replaces every field of the product named in the path.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in productPayload
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	in.ID = c.Params("id")
	p, err := h.Catalog.Update(c.UserContext(), in.product())
	if err != nil {
		return fail(c, err)
	}
	log.Audit(c, "product.update", map[string]any{"product": p.ID, "stock": p.Stock})
	return c.JSON(p)
}

func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var in struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	stock, err := h.Catalog.ApplyStockDelta(c.UserContext(), id, in.Delta)
	if err != nil {
		return fail(c, err)
	}
	log.Audit(c, "product.stock", map[string]any{"product": id, "delta": in.Delta, "stock": stock})
	if stock < 0 {
		log.Warn(c, "stock_underflow", map[string]any{"product": id, "stock": stock})
	}
	return c.JSON(fiber.Map{"id": id, "stock": stock})
}

// Describe drafts marketing copy for a product that may not exist yet.
func (h *ProductHandler) Describe(c *fiber.Ctx) error {
	var in struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return badRequest(c, "name", "name is required")
	}
	label := in.Category
	if cat, ok := validate.Category(in.Category); ok {
		label = cat.Label()
	} else if in.Category != "" {
		return badRequest(c, "category", "unknown category")
	}
	text := h.Insight.DescribeProduct(c.UserContext(), name, label)
	return c.JSON(fiber.Map{"description": text})
}
