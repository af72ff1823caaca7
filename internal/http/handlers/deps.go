package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"

	"tacklepos/internal/config"
	"tacklepos/internal/domain"
	"tacklepos/internal/insight"
	"tacklepos/internal/repos"
	"tacklepos/internal/services"
)

type Deps struct {
	ProductHandler     *ProductHandler
	InventoryHandler   *InventoryHandler
	CartHandler        *CartHandler
	CheckoutHandler    *CheckoutHandler
	TransactionHandler *TransactionHandler
	DashboardHandler   *DashboardHandler
	EnumHandler        *EnumHandler

	Checkout  *services.CheckoutService
	Dashboard *services.DashboardService
}

// NewDeps wires repositories, services and handlers. ai may have no client
// and trends may be nil; both degrade to fixed text.
func NewDeps(db *sqlx.DB, cfg config.Config, ai *insight.Provider, trends services.TrendRefresher) *Deps {
	prodRepo := repos.NewProductRepo(db)
	txRepo := repos.NewTransactionRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	ledgerSvc := services.NewLedgerService(txRepo)
	cartSvc := services.NewCartService(catalogSvc)
	invSvc := services.NewInventoryService(catalogSvc)
	dashSvc := services.NewDashboardService(catalogSvc, ledgerSvc, trends)

	checkoutSvc := services.NewCheckoutService(db, catalogSvc, ledgerSvc)
	checkoutSvc.EnforceStockFloor = cfg.EnforceStockFloor
	checkoutSvc.AfterCommit = func(domain.Transaction) {
		dashSvc.RefreshInsight(context.Background())
	}

	if ai == nil {
		ai = insight.NewProvider(nil)
	}

	return &Deps{
		ProductHandler:     &ProductHandler{Catalog: catalogSvc, Insight: ai},
		InventoryHandler:   &InventoryHandler{Inv: invSvc},
		CartHandler:        &CartHandler{Cart: cartSvc},
		CheckoutHandler:    &CheckoutHandler{Cart: cartSvc, Checkout: checkoutSvc},
		TransactionHandler: &TransactionHandler{Ledger: ledgerSvc},
		DashboardHandler:   &DashboardHandler{Dashboard: dashSvc},
		EnumHandler:        &EnumHandler{},

		Checkout:  checkoutSvc,
		Dashboard: dashSvc,
	}
}
