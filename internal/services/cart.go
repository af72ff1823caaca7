package services

import (
	"context"

	"github.com/pkg/errors"

	"tacklepos/internal/domain"
)

// StockReader looks up the current catalog entry for a cart line.
type StockReader interface {
	Find(ctx context.Context, id string) (domain.Product, error)
}

// Cart is one register's in-progress sale: product id -> line, in the order
// lines were first added. Not safe for concurrent use.
type Cart struct {
	stock StockReader
	order []string
	lines map[string]*domain.CartItem
}

func NewCart(stock StockReader) *Cart {
	return &Cart{stock: stock, lines: map[string]*domain.CartItem{}}
}

// AddItem bumps the line for p by one, snapshotting p on first add.
// Returns the line's new quantity.
func (c *Cart) AddItem(p domain.Product) int {
	if line, ok := c.lines[p.ID]; ok {
		line.Quantity++
		return line.Quantity
	}
	c.lines[p.ID] = &domain.CartItem{Product: p, Quantity: 1}
	c.order = append(c.order, p.ID)
	return 1
}

// SetQuantity clamps q to at least 1 and applies it unless it exceeds the
// product's current stock. applied is false for that no-op case.
func (c *Cart) SetQuantity(ctx context.Context, id string, q int) (applied bool, err error) {
	line, ok := c.lines[id]
	if !ok {
		return false, errors.Wrapf(domain.ErrNotFound, "cart line %s", id)
	}
	if q < 1 {
		q = 1
	}
	if c.stock != nil {
		p, err := c.stock.Find(ctx, id)
		switch {
		case err == nil:
			if q > p.Stock {
				return false, nil
			}
		case errors.Is(err, domain.ErrNotFound):
			// gone from the catalog; nothing to check against
		default:
			return false, err
		}
	}
	line.Quantity = q
	return true, nil
}

// RemoveItem drops the line for id and reports whether there was one.
func (c *Cart) RemoveItem(id string) bool {
	if _, ok := c.lines[id]; !ok {
		return false
	}
	delete(c.lines, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

func (c *Cart) Clear() {
	c.order = nil
	c.lines = map[string]*domain.CartItem{}
}

// Items returns copies of the lines in addition order.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Len() int { return len(c.order) }
