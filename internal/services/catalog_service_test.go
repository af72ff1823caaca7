package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/domain"
	"tacklepos/internal/services"
)

func TestCatalogAdd_GeneratesIDAndSKU(t *testing.T) {
	e := newEnv(t, false)
	e.catalog.Now = fixedClock(time.UnixMilli(1700000000123))

	p, err := e.catalog.Add(context.Background(), domain.Product{
		Name: "  Daiwa Ninja  ", Category: "reel", Unit: "Pcs", Stock: 3, PriceBuy: 400000, PriceSell: 550000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "SKU-1700000000123", p.SKU)
	assert.Equal(t, "Daiwa Ninja", p.Name)
	assert.Equal(t, domain.CategoryReel, p.Category)
	assert.Equal(t, domain.UnitPiece, p.Unit)

	got, err := e.catalog.Find(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCatalogAdd_Validation(t *testing.T) {
	e := newEnv(t, false)
	base := domain.Product{Name: "Rod", Category: domain.CategoryRod, Unit: domain.UnitPiece, PriceSell: 1000}

	cases := map[string]func(p *domain.Product){
		"blank name":    func(p *domain.Product) { p.Name = "  " },
		"zero sell":     func(p *domain.Product) { p.PriceSell = 0 },
		"negative sell": func(p *domain.Product) { p.PriceSell = -1 },
		"negative buy":  func(p *domain.Product) { p.PriceBuy = -5 },
		"bad category":  func(p *domain.Product) { p.Category = "BOAT" },
		"bad unit":      func(p *domain.Product) { p.Unit = "LITRE" },
		"bad id":        func(p *domain.Product) { p.ID = "a b" },
		"bad sku":       func(p *domain.Product) { p.SKU = "<x>" },
		"long desc":     func(p *domain.Product) { p.Description = strings.Repeat("x", 1001) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, err := e.catalog.Add(context.Background(), p)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}

	all, err := e.catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalogAdd_DuplicateID(t *testing.T) {
	e := newEnv(t, false)
	e.add(t, "P1", 5, 10000, 1)

	_, err := e.catalog.Add(context.Background(), domain.Product{
		ID: "P1", Name: "Other", Category: domain.CategoryHook, Unit: domain.UnitBox, PriceSell: 10,
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicateID))
	p, _ := e.catalog.Find(context.Background(), "P1")
	assert.Equal(t, "Product P1", p.Name)
}

func TestCatalogUpdate_IdempotentAndNotFound(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	p := e.add(t, "P1", 5, 10000, 1)

	p.Name = "Renamed"
	p.Stock = 9
	_, err := e.catalog.Update(ctx, p)
	require.NoError(t, err)
	once, _ := e.catalog.List(ctx)

	_, err = e.catalog.Update(ctx, p)
	require.NoError(t, err)
	twice, _ := e.catalog.List(ctx)
	assert.Equal(t, once, twice)
	assert.Equal(t, "Renamed", twice[0].Name)

	p.ID = "missing"
	_, err = e.catalog.Update(ctx, p)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalogApplyStockDelta_NoFloor(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	e.add(t, "P1", 2, 100, 0)

	stock, err := e.catalog.ApplyStockDelta(ctx, "P1", -5)
	require.NoError(t, err)
	assert.Equal(t, -3, stock)

	_, err = e.catalog.ApplyStockDelta(ctx, "nope", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalogSearch(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	var names []string
	for p, err := range e.catalog.Search(ctx, services.MatchQuery("SHIMANO")) {
		require.NoError(t, err)
		names = append(names, p.Name)
	}
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "Shimano")

	seq := e.catalog.Search(ctx, services.All(services.InStock(), services.InCategory(domain.CategoryHook)))
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 1, count())
	assert.Equal(t, 1, count(), "sequence is restartable")

	var ids []string
	for p := range e.catalog.Search(ctx, nil) {
		ids = append(ids, p.ID)
		if len(ids) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestCatalogSearch_SeesLaterWrites(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	seq := e.catalog.Search(ctx, services.LowStock())

	e.add(t, "P2", 2, 100, 5)
	var got []string
	for p, err := range seq {
		require.NoError(t, err)
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"P2"}, got)
}
