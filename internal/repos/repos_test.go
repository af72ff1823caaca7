package repos_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/domain"
	"tacklepos/internal/repos"
)

func memdb(t *testing.T, seed bool) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:", seed)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func reel(id string) domain.Product {
	return domain.Product{
		ID: id, Name: "Shimano Stella SW 4000", SKU: "SHM-STL-4000",
		Category: domain.CategoryReel, Unit: domain.UnitPiece,
		Stock: 5, PriceBuy: 8500000, PriceSell: 10500000, MinStockAlert: 2,
	}
}

func TestOpenDBMigratesAndSeeds(t *testing.T) {
	db := memdb(t, true)
	ctx := context.Background()

	v, dirty, err := repos.SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	ps, err := repos.NewProductRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 4)
	assert.Equal(t, "1", ps[0].ID)
	assert.Equal(t, domain.CategoryReel, ps[0].Category)

	n, err := repos.NewTransactionRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := memdb(t, false)
	require.NoError(t, repos.Migrate(db))
}

func TestProductRepoLifecycle(t *testing.T) {
	db := memdb(t, false)
	ctx := context.Background()
	r := repos.NewProductRepo(db)

	require.NoError(t, r.Insert(ctx, reel("p1")))
	err := r.Insert(ctx, reel("p1"))
	assert.True(t, errors.Is(err, domain.ErrDuplicateID), "got %v", err)

	p := reel("p1")
	p.PriceSell = 11000000
	require.NoError(t, r.Update(ctx, p))
	got, err := r.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(11000000), got.PriceSell)

	err = r.Update(ctx, reel("ghost"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	stock, err := r.AddStock(ctx, "p1", -7)
	require.NoError(t, err)
	assert.Equal(t, -2, stock)

	_, err = r.AddStock(ctx, "ghost", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = r.Get(ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	low, err := r.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)
}

func TestProductRepoListKeepsInsertionOrder(t *testing.T) {
	db := memdb(t, false)
	ctx := context.Background()
	r := repos.NewProductRepo(db)
	for _, id := range []string{"zz", "aa", "mm"} {
		require.NoError(t, r.Insert(ctx, reel(id)))
	}
	ps, err := r.List(ctx)
	require.NoError(t, err)
	ids := []string{ps[0].ID, ps[1].ID, ps[2].ID}
	assert.Equal(t, []string{"zz", "aa", "mm"}, ids)
}

func TestTransactionRepoRoundTrip(t *testing.T) {
	db := memdb(t, false)
	ctx := context.Background()
	r := repos.NewTransactionRepo(db)

	tx := domain.Transaction{
		ID: "TX-100", Date: "2026-10-18", Total: 30000,
		Items: []domain.CartItem{
			{Product: reel("p1"), Quantity: 2},
			{Product: domain.Product{ID: "p2", Name: "Hooks", Category: domain.CategoryHook, Unit: domain.UnitPack, PriceSell: 5000}, Quantity: 2},
		},
	}
	require.NoError(t, r.Insert(ctx, tx))
	assert.True(t, errors.Is(r.Insert(ctx, tx), domain.ErrDuplicateID))

	got, err := r.Get(ctx, "TX-100")
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, tx.Items, all[0].Items)

	_, err = r.Get(ctx, "TX-404")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLatestHeadersOccurrenceOrder(t *testing.T) {
	db := memdb(t, true)
	ctx := context.Background()
	r := repos.NewTransactionRepo(db)

	last, err := r.LatestHeaders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "TX-003", last[0].ID)
	assert.Equal(t, "TX-004", last[1].ID)

	none, err := r.LatestHeaders(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMaxStampSkipsNonNumericIDs(t *testing.T) {
	db := memdb(t, true)
	ctx := context.Background()
	r := repos.NewTransactionRepo(db)

	n, err := r.MaxStamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	for _, id := range []string{"TX-1700000000000", "TX-99999999999999x", "TX-abc", "SALE-1800000000000"} {
		require.NoError(t, r.Insert(ctx, domain.Transaction{ID: id, Date: "2023-11-14"}))
	}
	n, err = r.MaxStamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), n)

	empty := repos.NewTransactionRepo(memdb(t, false))
	n, err = empty.MaxStamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInTxRollsBack(t *testing.T) {
	db := memdb(t, false)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.InTx(ctx, db, func(ext sqlx.ExtContext) error {
		require.NoError(t, repos.NewProductRepo(ext).Insert(ctx, reel("p1")))
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	_, err = repos.NewProductRepo(db).Get(ctx, "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
