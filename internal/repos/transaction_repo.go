package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"tacklepos/internal/domain"
)

// TransactionRepo is the append-only sales ledger.
type TransactionRepo struct{ db sqlx.ExtContext }

func NewTransactionRepo(db sqlx.ExtContext) *TransactionRepo { return &TransactionRepo{db: db} }

type itemRow struct {
	TransactionID string `db:"transaction_id"`
	LineNo        int    `db:"line_no"`
	domain.CartItem
}

const itemCols = `transaction_id, line_no, product_id AS id, name, sku, category, unit, stock,
	price_buy, price_sell, min_stock_alert, description, quantity`

// Insert writes the header and every line in addition order.
func (r *TransactionRepo) Insert(ctx context.Context, t domain.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions(id, date, total, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO NOTHING`, t.ID, t.Date, t.Total)
	if err != nil {
		return errors.Wrapf(err, "insert transaction %s", t.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(domain.ErrDuplicateID, "transaction %s", t.ID)
	}
	for i, it := range t.Items {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO transaction_items(transaction_id, line_no, product_id, name, sku, category, unit, stock,
			  price_buy, price_sell, min_stock_alert, description, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, it.ID, it.Name, it.SKU, it.Category, it.Unit, it.Stock,
			it.PriceBuy, it.PriceSell, it.MinStockAlert, it.Description, it.Quantity); err != nil {
			return errors.Wrapf(err, "insert line %d of %s", i, t.ID)
		}
	}
	return nil
}

// List returns every transaction with its lines, oldest first.
func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	if err := sqlx.SelectContext(ctx, r.db, &out, `SELECT id, date, total FROM transactions ORDER BY rowid`); err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	var rows []itemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT `+itemCols+` FROM transaction_items ORDER BY transaction_id, line_no`); err != nil {
		return nil, errors.Wrap(err, "list transaction items")
	}
	byTx := make(map[string][]domain.CartItem, len(out))
	for _, row := range rows {
		byTx[row.TransactionID] = append(byTx[row.TransactionID], row.CartItem)
	}
	for i := range out {
		out[i].Items = byTx[out[i].ID]
		if out[i].Items == nil {
			out[i].Items = []domain.CartItem{}
		}
	}
	return out, nil
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (domain.Transaction, error) {
	var t domain.Transaction
	err := sqlx.GetContext(ctx, r.db, &t, `SELECT id, date, total FROM transactions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, errors.Wrapf(domain.ErrNotFound, "transaction %s", id)
	}
	if err != nil {
		return domain.Transaction{}, errors.Wrapf(err, "get transaction %s", id)
	}
	var rows []itemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT `+itemCols+` FROM transaction_items WHERE transaction_id = ? ORDER BY line_no`, id); err != nil {
		return domain.Transaction{}, errors.Wrapf(err, "get lines of %s", id)
	}
	t.Items = make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		t.Items = append(t.Items, row.CartItem)
	}
	return t, nil
}

// LatestHeaders returns the last n transactions in occurrence order, without lines.
func (r *TransactionRepo) LatestHeaders(ctx context.Context, n int) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	if n <= 0 {
		return out, nil
	}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT id, date, total FROM (
		  SELECT rowid AS seq, id, date, total FROM transactions ORDER BY rowid DESC LIMIT ?
		) ORDER BY seq`, n)
	return out, errors.Wrap(err, "latest transactions")
}

// MaxStamp is the largest numeric suffix among TX-<n> ids, or 0.
func (r *TransactionRepo) MaxStamp(ctx context.Context) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.db, &n, `
		SELECT COALESCE(MAX(CAST(substr(id, 4) AS INTEGER)), 0)
		FROM transactions WHERE id GLOB 'TX-[0-9]*' AND substr(id, 4) NOT GLOB '*[^0-9]*'`)
	return n, errors.Wrap(err, "max transaction stamp")
}

func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM transactions`)
	return n, errors.Wrap(err, "count transactions")
}
