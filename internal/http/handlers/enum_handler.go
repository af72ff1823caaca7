package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tacklepos/internal/domain"
)

type EnumHandler struct{}

type enumEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (EnumHandler) Categories(c *fiber.Ctx) error {
	out := make([]enumEntry, 0, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		out = append(out, enumEntry{Code: string(cat), Label: cat.Label()})
	}
	return c.JSON(out)
}

func (EnumHandler) Units(c *fiber.Ctx) error {
	out := make([]enumEntry, 0, len(domain.Units()))
	for _, u := range domain.Units() {
		out = append(out, enumEntry{Code: string(u), Label: u.Label()})
	}
	return c.JSON(out)
}
