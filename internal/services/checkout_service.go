package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"tacklepos/internal/domain"
	"tacklepos/internal/log"
	"tacklepos/internal/repos"
)

const (
	dateLayout = "2006-01-02"
	// attempts before a duplicate TX id is reported
	idAttempts = 3
)

type CheckoutService struct {
	DB      *sqlx.DB
	Catalog *CatalogService
	Ledger  *LedgerService

	// EnforceStockFloor rejects a sale that would leave any stock negative.
	EnforceStockFloor bool
	Now               func() time.Time
	// AfterCommit runs once the sale is stored and the cart cleared.
	AfterCommit func(domain.Transaction)

	mu        sync.Mutex
	seeded    bool
	lastStamp int64
}

func NewCheckoutService(db *sqlx.DB, catalog *CatalogService, ledger *LedgerService) *CheckoutService {
	return &CheckoutService{DB: db, Catalog: catalog, Ledger: ledger, Now: time.Now}
}

type CheckoutResult struct {
	Transaction domain.Transaction      `json:"transaction"`
	Underflows  []domain.StockUnderflow `json:"underflows"`
}

// nextID hands out TX-<unix millis>, moving forward a millisecond when the
// clock has not advanced past the last id. The first call starts from the
// newest id already in the ledger, so a clock stepped back never reuses one.
func (s *CheckoutService) nextID(ctx context.Context, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded {
		last, err := s.Ledger.LastStamp(ctx)
		if err != nil {
			return "", err
		}
		if last > s.lastStamp {
			s.lastStamp = last
		}
		s.seeded = true
	}
	ms := now.UnixMilli()
	if ms <= s.lastStamp {
		ms = s.lastStamp + 1
	}
	s.lastStamp = ms
	return fmt.Sprintf("TX-%d", ms), nil
}

// Checkout records the cart as one transaction and takes its quantities out
// of stock. Ledger append and stock updates commit together. The cart is
// cleared only on success.
func (s *CheckoutService) Checkout(ctx context.Context, cart *Cart) (CheckoutResult, error) {
	items := cart.Items()
	if len(items) == 0 {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	now := s.Now()
	tx := domain.Transaction{
		Date:  now.UTC().Format(dateLayout),
		Total: cart.Total(),
		Items: items,
	}

	var underflows []domain.StockUnderflow
	var err error
	for attempt := 1; attempt <= idAttempts; attempt++ {
		if tx.ID, err = s.nextID(ctx, now); err != nil {
			break
		}
		underflows, err = s.commit(ctx, tx)
		if !errors.Is(err, domain.ErrDuplicateID) {
			break
		}
		log.Warn(nil, "checkout.id_retry", map[string]any{"tx": tx.ID, "attempt": attempt})
	}
	if err != nil {
		return CheckoutResult{}, errors.Wrap(err, "checkout")
	}

	cart.Clear()
	log.Audit(nil, "checkout", map[string]any{"tx": tx.ID, "total": tx.Total, "lines": len(items)})
	for _, u := range underflows {
		log.Warn(nil, "stock_underflow", map[string]any{"product": u.ProductID, "name": u.Name, "stock": u.Stock, "tx": tx.ID})
	}
	if s.AfterCommit != nil {
		s.AfterCommit(tx)
	}
	return CheckoutResult{Transaction: tx, Underflows: underflows}, nil
}

// commit stores tx and takes its lines out of stock in one database
// transaction, returning the lines that went below zero.
func (s *CheckoutService) commit(ctx context.Context, tx domain.Transaction) ([]domain.StockUnderflow, error) {
	underflows := []domain.StockUnderflow{}
	err := repos.InTx(ctx, s.DB, func(ext sqlx.ExtContext) error {
		catalog := s.Catalog.With(ext)
		if s.EnforceStockFloor {
			for _, it := range tx.Items {
				p, err := catalog.Find(ctx, it.ID)
				if err != nil {
					return err
				}
				if p.Stock < it.Quantity {
					return errors.Wrapf(domain.ErrInsufficientStock, "%s: need %d, have %d", p.Name, it.Quantity, p.Stock)
				}
			}
		}
		if err := s.Ledger.With(ext).Append(ctx, tx); err != nil {
			return err
		}
		for _, it := range tx.Items {
			stock, err := catalog.ApplyStockDelta(ctx, it.ID, -it.Quantity)
			if err != nil {
				return err
			}
			if stock < 0 {
				underflows = append(underflows, domain.StockUnderflow{ProductID: it.ID, Name: it.Name, Stock: stock})
			}
		}
		return nil
	})
	return underflows, err
}
