// Package report aggregates ledger and expense data into date-ranged
// summaries for the dashboard.
package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Range bounds a report period. Zero bounds mean unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// StockValue is the worth of goods currently on hand.
type StockValue struct {
	Items    int64 `json:"items"`
	Quantity int64 `json:"quantity"`
	Value    int64 `json:"value"`
}

// PurchaseSummary totals stock receipts over a period.
type PurchaseSummary struct {
	Receipts int64 `json:"receipts"`
	Quantity int64 `json:"quantity"`
	Total    int64 `json:"total"`
}

// SalesSummary totals stock issues over a period, including margin computed
// from the buying price captured on each issue.
type SalesSummary struct {
	Sales    int64 `json:"sales"`
	Quantity int64 `json:"quantity"`
	Revenue  int64 `json:"revenue"`
	Cost     int64 `json:"cost"`
	Margin   int64 `json:"margin"`
}

// ExpenseSummary totals expenses over a period, broken down by category.
type ExpenseSummary struct {
	Entries    int64            `json:"entries"`
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
}

type Repository interface {
	StockValue(ctx context.Context, inventoryID int64) (StockValue, error)
	Purchases(ctx context.Context, inventoryID int64, period Range) (PurchaseSummary, error)
	Sales(ctx context.Context, inventoryID int64, period Range) (SalesSummary, error)
	Expenses(ctx context.Context, inventoryID int64, period Range) (ExpenseSummary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) StockValue(ctx context.Context, inventoryID int64) (StockValue, error) {
	var sv StockValue
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0)
FROM current_stocks WHERE inventory_id=$1 AND quantity > 0`, inventoryID).
		Scan(&sv.Items, &sv.Quantity, &sv.Value)
	return sv, err
}

func (r *repository) Purchases(ctx context.Context, inventoryID int64, period Range) (PurchaseSummary, error) {
	query, args := rangeQuery(`SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0)
FROM stock_ins WHERE inventory_id=$1`, inventoryID, period)

	var ps PurchaseSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(&ps.Receipts, &ps.Quantity, &ps.Total)
	return ps, err
}

func (r *repository) Sales(ctx context.Context, inventoryID int64, period Range) (SalesSummary, error) {
	query, args := rangeQuery(`SELECT COUNT(*), COALESCE(SUM(quantity), 0),
COALESCE(SUM(quantity * selling_price), 0), COALESCE(SUM(quantity * buying_price), 0)
FROM stock_outs WHERE inventory_id=$1`, inventoryID, period)

	var ss SalesSummary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ss.Sales, &ss.Quantity, &ss.Revenue, &ss.Cost); err != nil {
		return SalesSummary{}, err
	}
	ss.Margin = ss.Revenue - ss.Cost
	return ss, nil
}

func (r *repository) Expenses(ctx context.Context, inventoryID int64, period Range) (ExpenseSummary, error) {
	query, args := rangeQuery(`SELECT category, COUNT(*), COALESCE(SUM(amount), 0)
FROM expenses WHERE inventory_id=$1`, inventoryID, period)
	query += ` GROUP BY category`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return ExpenseSummary{}, err
	}
	defer rows.Close()

	es := ExpenseSummary{ByCategory: make(map[string]int64)}
	for rows.Next() {
		var category string
		var entries, total int64
		if err := rows.Scan(&category, &entries, &total); err != nil {
			return ExpenseSummary{}, err
		}
		es.Entries += entries
		es.Total += total
		es.ByCategory[category] = total
	}
	return es, rows.Err()
}

func rangeQuery(base string, inventoryID int64, period Range) (string, []any) {
	args := []any{inventoryID}
	if !period.From.IsZero() {
		args = append(args, period.From)
		base += ` AND date >= $2`
	}
	if !period.To.IsZero() {
		args = append(args, period.To)
		if len(args) == 2 {
			base += ` AND date <= $2`
		} else {
			base += ` AND date <= $3`
		}
	}
	return base, args
}
