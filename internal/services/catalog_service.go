package services

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tacklepos/internal/domain"
	"tacklepos/internal/repos"
	"tacklepos/internal/validate"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Now   func() time.Time
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods, Now: time.Now}
}

// With returns a copy bound to ext, typically an open transaction.
func (s *CatalogService) With(ext sqlx.ExtContext) *CatalogService {
	return &CatalogService{Prods: repos.NewProductRepo(ext), Now: s.Now}
}

func normalize(p domain.Product) (domain.Product, error) {
	var ok bool
	if p.Name, ok = validate.Name(p.Name); !ok {
		return p, domain.Invalid("name", "required, at most 120 characters")
	}
	if p.SKU, ok = validate.SKU(p.SKU); !ok {
		return p, domain.Invalid("sku", "letters, digits and ._/- only")
	}
	if p.Category, ok = validate.Category(string(p.Category)); !ok {
		return p, domain.Invalid("category", "unknown category")
	}
	if p.Unit, ok = validate.Unit(string(p.Unit)); !ok {
		return p, domain.Invalid("unit", "unknown unit")
	}
	if !validate.Money(p.PriceBuy) || !validate.Money(p.PriceSell) {
		return p, domain.Invalid("price", "must not be negative")
	}
	if p.PriceSell == 0 {
		return p, domain.Invalid("priceSell", "must be greater than zero")
	}
	if p.Description, ok = validate.Description(p.Description); !ok {
		return p, domain.Invalid("description", "too long")
	}
	return p, nil
}

// Add validates and inserts p. Empty id and sku are generated.
func (s *CatalogService) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	p, err := normalize(p)
	if err != nil {
		return domain.Product{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	} else if p.ID, err = checkID(p.ID); err != nil {
		return domain.Product{}, err
	}
	if p.SKU == "" {
		p.SKU = fmt.Sprintf("SKU-%d", s.Now().UnixMilli())
	}
	if err := s.Prods.Insert(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Update replaces every field of the product with p.ID.
func (s *CatalogService) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	id, err := checkID(p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	if p, err = normalize(p); err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// ApplyStockDelta adds delta with no floor and returns the new stock.
func (s *CatalogService) ApplyStockDelta(ctx context.Context, id string, delta int) (int, error) {
	return s.Prods.AddStock(ctx, id, delta)
}

func (s *CatalogService) Find(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) LowStock(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListLowStock(ctx)
}

// Search yields products matching pred in catalog order. Each range takes a
// fresh snapshot, so the sequence can be restarted and never holds the
// connection while the caller works.
func (s *CatalogService) Search(ctx context.Context, pred Predicate) iter.Seq2[domain.Product, error] {
	return func(yield func(domain.Product, error) bool) {
		all, err := s.Prods.List(ctx)
		if err != nil {
			yield(domain.Product{}, err)
			return
		}
		for _, p := range all {
			if pred != nil && !pred(p) {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

func checkID(id string) (string, error) {
	id, ok := validate.ID(id)
	if !ok {
		return "", domain.Invalid("id", "letters, digits, _ and - only")
	}
	return id, nil
}

type Predicate func(domain.Product) bool

// MatchQuery matches name or sku, case-insensitively. Empty q matches all.
func MatchQuery(q string) Predicate {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(p domain.Product) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q)
	}
}

func InStock() Predicate { return func(p domain.Product) bool { return p.Stock > 0 } }

func LowStock() Predicate { return domain.Product.LowStock }

func InCategory(c domain.Category) Predicate {
	return func(p domain.Product) bool { return p.Category == c }
}

// All matches when every predicate does.
func All(preds ...Predicate) Predicate {
	return func(p domain.Product) bool {
		for _, pred := range preds {
			if pred != nil && !pred(p) {
				return false
			}
		}
		return true
	}
}
