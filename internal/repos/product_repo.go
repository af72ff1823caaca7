package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"tacklepos/internal/domain"
)

// ProductRepo stores the catalog. rowid keeps insertion order for listing.
type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, sku, category, unit, stock, price_buy, price_sell, min_stock_alert, description`

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	return p, errors.Wrapf(err, "get product %s", id)
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+productCols+` FROM products ORDER BY rowid`)
	return out, errors.Wrap(err, "list products")
}

// ListLowStock returns products at or below their alert threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+productCols+`
		FROM products
		WHERE stock <= min_stock_alert
		ORDER BY rowid`)
	return out, errors.Wrap(err, "list low stock")
}

// Insert adds a product; an existing id yields ErrDuplicateID.
func (r *ProductRepo) Insert(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products(`+productCols+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO NOTHING`,
		p.ID, p.Name, p.SKU, p.Category, p.Unit, p.Stock, p.PriceBuy, p.PriceSell, p.MinStockAlert, p.Description)
	if err != nil {
		return errors.Wrapf(err, "insert product %s", p.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(domain.ErrDuplicateID, "product %s", p.ID)
	}
	return nil
}

// Update replaces every field except id.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, sku = ?, category = ?, unit = ?, stock = ?, price_buy = ?, price_sell = ?,
		    min_stock_alert = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, p.SKU, p.Category, p.Unit, p.Stock, p.PriceBuy, p.PriceSell, p.MinStockAlert, p.Description, p.ID)
	if err != nil {
		return errors.Wrapf(err, "update product %s", p.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(domain.ErrNotFound, "product %s", p.ID)
	}
	return nil
}

// AddStock applies delta with no floor and returns the resulting stock.
func (r *ProductRepo) AddStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := sqlx.GetContext(ctx, r.db, &stock, `
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING stock`, delta, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	return stock, errors.Wrapf(err, "add stock %s", id)
}
