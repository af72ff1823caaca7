package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"tacklepos/internal/domain"
)

// CartService keeps one Cart per register session.
type CartService struct {
	Catalog *CatalogService

	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartService(catalog *CatalogService) *CartService {
	return &CartService{Catalog: catalog, carts: map[string]*Cart{}}
}

// Open returns the session's cart, creating an empty one on first use.
// Only adding an item opens a cart, so reads never grow the session map.
func (s *CartService) Open(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = NewCart(s.Catalog)
		s.carts[sessionID] = c
	}
	return c
}

// Cart returns the session's cart, or a detached empty one when the session
// has none yet.
func (s *CartService) Cart(sessionID string) *Cart {
	if c, ok := s.lookup(sessionID); ok {
		return c
	}
	return NewCart(s.Catalog)
}

// Drop forgets the session's cart.
func (s *CartService) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Sessions is the number of open carts.
func (s *CartService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *CartService) lookup(sessionID string) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	return c, ok
}

func (s *CartService) Add(ctx context.Context, sessionID, productID string) (CartView, error) {
	p, err := s.Catalog.Find(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	c := s.Open(sessionID)
	c.AddItem(p)
	return viewOf(c), nil
}

func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, qty int) (CartView, bool, error) {
	c, ok := s.lookup(sessionID)
	if !ok {
		return CartView{}, false, errors.Wrapf(domain.ErrNotFound, "cart line %s", productID)
	}
	applied, err := c.SetQuantity(ctx, productID, qty)
	if err != nil {
		return CartView{}, false, err
	}
	return viewOf(c), applied, nil
}

func (s *CartService) Remove(sessionID, productID string) (CartView, error) {
	c, ok := s.lookup(sessionID)
	if !ok || !c.RemoveItem(productID) {
		return CartView{}, errors.Wrapf(domain.ErrNotFound, "cart line %s", productID)
	}
	return viewOf(c), nil
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
}

func (s *CartService) View(sessionID string) CartView {
	c, ok := s.lookup(sessionID)
	if !ok {
		return CartView{Items: []domain.CartItem{}}
	}
	return viewOf(c)
}

func viewOf(c *Cart) CartView {
	return CartView{Items: c.Items(), Total: c.Total()}
}
