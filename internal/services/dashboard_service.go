package services

import (
	"context"
	"time"

	"tacklepos/internal/domain"
	"tacklepos/internal/insight"
	"tacklepos/internal/log"
)

const (
	lowStockRows = 5
	salesDays    = 7
)

// TrendRefresher is the background trend summary the dashboard shows.
type TrendRefresher interface {
	Refresh(gen uint64, recent []domain.Transaction) bool
	Current() (text string, pending bool)
}

type DashboardService struct {
	Catalog *CatalogService
	Ledger  *LedgerService
	Trends  TrendRefresher // optional
	Now     func() time.Time
}

func NewDashboardService(catalog *CatalogService, ledger *LedgerService, trends TrendRefresher) *DashboardService {
	return &DashboardService{Catalog: catalog, Ledger: ledger, Trends: trends, Now: time.Now}
}

type DailySale struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

type Dashboard struct {
	TotalSales       int64            `json:"totalSales"`
	InventoryValue   int64            `json:"inventoryValue"`
	TransactionCount int              `json:"transactionCount"`
	ProductCount     int              `json:"productCount"`
	LowStockCount    int              `json:"lowStockCount"`
	LowStock         []domain.Product `json:"lowStock"`
	LowStockMore     int              `json:"lowStockMore"`
	DailySales       []DailySale      `json:"dailySales"`
	Insight          string           `json:"insight"`
	InsightPending   bool             `json:"insightPending"`
}

// Snapshot derives the KPIs from the current catalog and ledger and kicks a
// trend refresh if the ledger moved since the last one.
func (s *DashboardService) Snapshot(ctx context.Context) (Dashboard, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	txs, err := s.Ledger.All(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	low := LowStockOf(products)
	d := Dashboard{
		TotalSales:       TotalSales(txs),
		InventoryValue:   InventoryValue(products),
		TransactionCount: len(txs),
		ProductCount:     len(products),
		LowStockCount:    len(low),
		LowStock:         low,
		DailySales:       DailySales(txs, s.Now(), salesDays),
		Insight:          insight.Placeholder,
	}
	if len(low) > lowStockRows {
		d.LowStock = low[:lowStockRows]
		d.LowStockMore = len(low) - lowStockRows
	}

	if s.Trends != nil {
		s.RefreshInsight(ctx)
		d.Insight, d.InsightPending = s.Trends.Current()
	}
	return d, nil
}

// RefreshInsight hands the latest transactions to the trend summary. It never
// fails the caller; the tracker ignores a generation it already has.
func (s *DashboardService) RefreshInsight(ctx context.Context) {
	if s.Trends == nil {
		return
	}
	gen := s.Ledger.Version()
	recent, err := s.Ledger.Recent(ctx, insight.TrendWindow)
	if err != nil {
		log.Error(nil, "insight_refresh", err, nil)
		return
	}
	s.Trends.Refresh(gen, recent)
}

// LowStockOf keeps products at or below their alert threshold, in order.
func LowStockOf(products []domain.Product) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// InventoryValue is stock valued at purchase price. Negative stock counts
// against the total.
func InventoryValue(products []domain.Product) int64 {
	var v int64
	for _, p := range products {
		v += int64(p.Stock) * p.PriceBuy
	}
	return v
}

func TotalSales(txs []domain.Transaction) int64 {
	var v int64
	for _, t := range txs {
		v += t.Total
	}
	return v
}

// DailySales sums totals per calendar day for the days ending at today,
// oldest first. Days without sales are zero.
func DailySales(txs []domain.Transaction, today time.Time, days int) []DailySale {
	if days <= 0 {
		return []DailySale{}
	}
	byDate := make(map[string]int64, len(txs))
	for _, t := range txs {
		byDate[t.Date] += t.Total
	}
	today = today.UTC()
	out := make([]DailySale, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i).Format(dateLayout)
		out = append(out, DailySale{Date: d, Total: byDate[d]})
	}
	return out
}
