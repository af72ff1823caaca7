package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	applog "tacklepos/internal/log"
)

// OpenDB opens the store, migrates it and optionally seeds demo data.
// The pool is pinned to one connection: each :memory: connection is its own
// database, and the app has a single writer anyway.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if seed {
		if err := seedIfEmpty(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// InTx runs fn inside one database transaction. fn must only use the
// ExtContext it is handed; the pool has a single connection.
func InTx(ctx context.Context, db *sqlx.DB, fn func(ext sqlx.ExtContext) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return errors.Wrap(err, "count products")
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.demo", map[string]any{"products": 4, "transactions": 4})

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,sku,category,unit,stock,price_buy,price_sell,min_stock_alert,description) VALUES
	  ('1','Shimano Stella SW 4000','SHM-STL-4000','REEL','PCS',5,8500000,10500000,2,'Flagship saltwater reel, corrosion resistant and very strong.'),
	  ('2','Mustad Chinu No. 4','MST-CHN-04','HOOK','PACK',150,15000,25000,20,'Competition-grade sharp hooks, good for carp and tilapia.'),
	  ('3','Relix Nusantara Jabrik 15lb','RLX-JBK-15','LINE','PCS',40,80000,120000,10,'Premium local PE line, no curling and strong at the knot.'),
	  ('4','Maguro Ottoman 180cm','MGR-OTM-180','ROD','PCS',8,450000,650000,3,'Light hollow carbon rod for snakehead casting.')`)

	tx.MustExec(`INSERT INTO transactions(id,date,total) VALUES
	  ('TX-001','2023-10-25',120000),
	  ('TX-002','2023-10-26',650000),
	  ('TX-003','2023-10-27',2500000),
	  ('TX-004','2023-10-27',150000)`)

	return errors.Wrap(tx.Commit(), "commit seed")
}
