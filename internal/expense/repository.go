package expense

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeroom-app/storeroom/internal/shared"
)

// ListFilters narrows expense listings.
type ListFilters struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// Offset computes the row offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}

type Repository interface {
	List(ctx context.Context, inventoryID int64, filters ListFilters) ([]Expense, int, error)
	Get(ctx context.Context, inventoryID, id int64) (Expense, error)
	Create(ctx context.Context, e Expense) (Expense, error)
	Update(ctx context.Context, inventoryID, id int64, e Expense) error
	Delete(ctx context.Context, inventoryID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const expenseColumns = `id, inventory_id, name, category, amount, date, created_at`

func (r *repository) List(ctx context.Context, inventoryID int64, filters ListFilters) ([]Expense, int, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE inventory_id=$1`
	countQuery := `SELECT COUNT(*) FROM expenses WHERE inventory_id=$1`
	args := []any{inventoryID}

	if filters.From != nil {
		args = append(args, *filters.From)
		clause := ` AND date >= $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		clause := ` AND date <= $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY date DESC, created_at DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.InventoryID, &e.Name, &e.Category, &e.Amount, &e.Date, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, inventoryID, id int64) (Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&e.ID, &e.InventoryID, &e.Name, &e.Category, &e.Amount, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, shared.ErrNotFound
		}
		return Expense{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, e Expense) (Expense, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO expenses (inventory_id, name, category, amount, date, created_at)
VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`,
		e.InventoryID, e.Name, e.Category, e.Amount, e.Date).Scan(&e.ID, &e.CreatedAt)
	return e, err
}

func (r *repository) Update(ctx context.Context, inventoryID, id int64, e Expense) error {
	tag, err := r.pool.Exec(ctx, `UPDATE expenses SET name=$1, category=$2, amount=$3, date=$4
WHERE inventory_id=$5 AND id=$6`, e.Name, e.Category, e.Amount, e.Date, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, inventoryID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
