package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/domain"
	"tacklepos/internal/repos"
	"tacklepos/internal/services"
)

type env struct {
	db        *sqlx.DB
	catalog   *services.CatalogService
	ledger    *services.LedgerService
	carts     *services.CartService
	checkout  *services.CheckoutService
	dashboard *services.DashboardService
}

func newEnv(t *testing.T, seed bool) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:", seed)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	catalog := services.NewCatalogService(repos.NewProductRepo(db))
	ledger := services.NewLedgerService(repos.NewTransactionRepo(db))
	return &env{
		db:        db,
		catalog:   catalog,
		ledger:    ledger,
		carts:     services.NewCartService(catalog),
		checkout:  services.NewCheckoutService(db, catalog, ledger),
		dashboard: services.NewDashboardService(catalog, ledger, nil),
	}
}

func (e *env) add(t *testing.T, id string, stock int, price int64, minAlert int) domain.Product {
	t.Helper()
	p, err := e.catalog.Add(context.Background(), domain.Product{
		ID:            id,
		Name:          "Product " + id,
		Category:      domain.CategoryReel,
		Unit:          domain.UnitPiece,
		Stock:         stock,
		PriceBuy:      price / 2,
		PriceSell:     price,
		MinStockAlert: minAlert,
	})
	require.NoError(t, err)
	return p
}

func (e *env) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := e.catalog.Find(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func fixedClock(ts time.Time) func() time.Time { return func() time.Time { return ts } }
