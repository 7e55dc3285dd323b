package stock

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeroom-app/storeroom/internal/platform/db"
	"github.com/storeroom-app/storeroom/internal/shared"
)

// LedgerTx exposes the writes a single ledger operation needs. All methods
// run inside the transaction passed to Apply.
type LedgerTx interface {
	BalanceForUpdate(ctx context.Context, inventoryID int64, key string) (CurrentStock, bool, error)
	SaveBalance(ctx context.Context, balance CurrentStock) error
	InsertStockIn(ctx context.Context, in StockIn) error
	InsertStockOut(ctx context.Context, out StockOut) error
	GetStockIn(ctx context.Context, inventoryID int64, id string) (StockIn, error)
	GetStockOut(ctx context.Context, inventoryID int64, id string) (StockOut, error)
	DeleteStockIn(ctx context.Context, inventoryID int64, id string) error
	DeleteStockOut(ctx context.Context, inventoryID int64, id string) error
}

// Ledger runs a ledger operation atomically, retrying on write conflicts.
type Ledger interface {
	Apply(ctx context.Context, fn func(LedgerTx) error) error
}

// Repository serves the read side of the ledger.
type Repository interface {
	ListStockIns(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockIn, int, error)
	ListStockOuts(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockOut, int, error)
	ListBalances(ctx context.Context, inventoryID int64, availableOnly bool) ([]CurrentStock, error)
	ScanDrift(ctx context.Context) ([]Drift, error)
}

// Drift is a balance whose stored quantity disagrees with the sum of its
// movements. The integrity job reports these.
type Drift struct {
	StockID  string
	Stored   int64
	Computed int64
}

type pgLedger struct {
	pool *pgxpool.Pool
}

// NewLedger returns the Postgres-backed ledger.
func NewLedger(pool *pgxpool.Pool) Ledger {
	return &pgLedger{pool: pool}
}

func (l *pgLedger) Apply(ctx context.Context, fn func(LedgerTx) error) error {
	return db.WithTx(ctx, l.pool, func(tx pgx.Tx) error {
		return fn(&pgLedgerTx{tx: tx})
	})
}

type pgLedgerTx struct {
	tx pgx.Tx
}

func (t *pgLedgerTx) BalanceForUpdate(ctx context.Context, inventoryID int64, key string) (CurrentStock, bool, error) {
	var cs CurrentStock
	err := t.tx.QueryRow(ctx, `SELECT id, inventory_id, product_id, price, quantity, editable_id, updated_at
FROM current_stocks WHERE inventory_id=$1 AND id=$2 FOR UPDATE`, inventoryID, key).
		Scan(&cs.ID, &cs.InventoryID, &cs.ProductID, &cs.Price, &cs.Quantity, &cs.EditableID, &cs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CurrentStock{}, false, nil
		}
		return CurrentStock{}, false, err
	}
	return cs, true, nil
}

func (t *pgLedgerTx) SaveBalance(ctx context.Context, balance CurrentStock) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO current_stocks (id, inventory_id, product_id, price, quantity, editable_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (id) DO UPDATE SET quantity=EXCLUDED.quantity, editable_id=EXCLUDED.editable_id, updated_at=NOW()`,
		balance.ID, balance.InventoryID, balance.ProductID, balance.Price, balance.Quantity, balance.EditableID)
	return err
}

func (t *pgLedgerTx) InsertStockIn(ctx context.Context, in StockIn) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO stock_ins (id, inventory_id, product_id, supplier_id, stock_id, price, quantity, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		in.ID, in.InventoryID, in.ProductID, in.SupplierID, in.StockID, in.Price, in.Quantity, in.Date)
	return err
}

func (t *pgLedgerTx) InsertStockOut(ctx context.Context, out StockOut) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO stock_outs (id, inventory_id, product_id, stock_id, selling_price, buying_price, quantity, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		out.ID, out.InventoryID, out.ProductID, out.StockID, out.SellingPrice, out.BuyingPrice, out.Quantity, out.Date)
	return err
}

func (t *pgLedgerTx) GetStockIn(ctx context.Context, inventoryID int64, id string) (StockIn, error) {
	var in StockIn
	err := t.tx.QueryRow(ctx, `SELECT id, inventory_id, product_id, supplier_id, stock_id, price, quantity, date, created_at
FROM stock_ins WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&in.ID, &in.InventoryID, &in.ProductID, &in.SupplierID, &in.StockID, &in.Price, &in.Quantity, &in.Date, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockIn{}, shared.ErrNotFound
		}
		return StockIn{}, err
	}
	return in, nil
}

func (t *pgLedgerTx) GetStockOut(ctx context.Context, inventoryID int64, id string) (StockOut, error) {
	var out StockOut
	err := t.tx.QueryRow(ctx, `SELECT id, inventory_id, product_id, stock_id, selling_price, buying_price, quantity, date, created_at
FROM stock_outs WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&out.ID, &out.InventoryID, &out.ProductID, &out.StockID, &out.SellingPrice, &out.BuyingPrice, &out.Quantity, &out.Date, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockOut{}, shared.ErrNotFound
		}
		return StockOut{}, err
	}
	return out, nil
}

func (t *pgLedgerTx) DeleteStockIn(ctx context.Context, inventoryID int64, id string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM stock_ins WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *pgLedgerTx) DeleteStockOut(ctx context.Context, inventoryID int64, id string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM stock_outs WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the Postgres-backed read repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListStockIns(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockIn, int, error) {
	query := `SELECT id, inventory_id, product_id, supplier_id, stock_id, price, quantity, date, created_at FROM stock_ins WHERE inventory_id=$1`
	countQuery := `SELECT COUNT(*) FROM stock_ins WHERE inventory_id=$1`
	query, countQuery, args := applyDateRange(query, countQuery, []any{inventoryID}, filters)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY date DESC, created_at DESC`
	query, args = applyPaging(query, args, filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ins []StockIn
	for rows.Next() {
		var in StockIn
		if err := rows.Scan(&in.ID, &in.InventoryID, &in.ProductID, &in.SupplierID, &in.StockID, &in.Price, &in.Quantity, &in.Date, &in.CreatedAt); err != nil {
			return nil, 0, err
		}
		ins = append(ins, in)
	}
	return ins, total, rows.Err()
}

func (r *repository) ListStockOuts(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockOut, int, error) {
	query := `SELECT id, inventory_id, product_id, stock_id, selling_price, buying_price, quantity, date, created_at FROM stock_outs WHERE inventory_id=$1`
	countQuery := `SELECT COUNT(*) FROM stock_outs WHERE inventory_id=$1`
	query, countQuery, args := applyDateRange(query, countQuery, []any{inventoryID}, filters)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY date DESC, created_at DESC`
	query, args = applyPaging(query, args, filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outs []StockOut
	for rows.Next() {
		var out StockOut
		if err := rows.Scan(&out.ID, &out.InventoryID, &out.ProductID, &out.StockID, &out.SellingPrice, &out.BuyingPrice, &out.Quantity, &out.Date, &out.CreatedAt); err != nil {
			return nil, 0, err
		}
		outs = append(outs, out)
	}
	return outs, total, rows.Err()
}

func (r *repository) ListBalances(ctx context.Context, inventoryID int64, availableOnly bool) ([]CurrentStock, error) {
	query := `SELECT id, inventory_id, product_id, price, quantity, editable_id, updated_at FROM current_stocks WHERE inventory_id=$1`
	if availableOnly {
		query += ` AND quantity > 0`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []CurrentStock
	for rows.Next() {
		var cs CurrentStock
		if err := rows.Scan(&cs.ID, &cs.InventoryID, &cs.ProductID, &cs.Price, &cs.Quantity, &cs.EditableID, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, cs)
	}
	return balances, rows.Err()
}

// ScanDrift recomputes every balance from its surviving movements and
// returns the keys whose stored quantity disagrees.
func (r *repository) ScanDrift(ctx context.Context) ([]Drift, error) {
	rows, err := r.pool.Query(ctx, `
SELECT cs.id, cs.quantity,
       COALESCE(si.total, 0) - COALESCE(so.total, 0) AS computed
FROM current_stocks cs
LEFT JOIN (SELECT stock_id, SUM(quantity) AS total FROM stock_ins GROUP BY stock_id) si ON si.stock_id = cs.id
LEFT JOIN (SELECT stock_id, SUM(quantity) AS total FROM stock_outs GROUP BY stock_id) so ON so.stock_id = cs.id
WHERE cs.quantity <> COALESCE(si.total, 0) - COALESCE(so.total, 0)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.StockID, &d.Stored, &d.Computed); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}

func applyDateRange(query, countQuery string, args []any, filters MovementFilters) (string, string, []any) {
	if filters.From != nil {
		args = append(args, *filters.From)
		clause := ` AND date >= $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.To != nil {
		args = append(args, endOfDay(*filters.To))
		clause := ` AND date <= $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	return query, countQuery, args
}

func applyPaging(query string, args []any, filters MovementFilters) (string, []any) {
	if filters.Limit <= 0 {
		return query, args
	}
	args = append(args, filters.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filters.Offset())
	query += ` OFFSET $` + strconv.Itoa(len(args))
	return query, args
}

// endOfDay widens an inclusive upper bound to cover the whole day when the
// client sends a bare date.
func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}
