package suppliers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/storeroom-app/storeroom/internal/masterdata/shared"
	"github.com/storeroom-app/storeroom/internal/shared"
)

type Repository interface {
	List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, inventoryID, id int64) (Supplier, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, inventoryID, id int64, supplier Supplier) error
	Delete(ctx context.Context, inventoryID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const supplierColumns = `id, inventory_id, name, phone_number, address`

func (r *repository) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Supplier, int, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE inventory_id=$1`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE inventory_id=$1`
	args := []any{inventoryID}
	countArgs := []any{inventoryID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR phone_number ILIKE $` + strconv.Itoa(argCount) + `)`
		countQuery += ` AND (name ILIKE $2 OR phone_number ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ` + sortDir(filters.SortDir)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.InventoryID, &s.Name, &s.PhoneNumber, &s.Address); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, inventoryID, id int64) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&s.ID, &s.InventoryID, &s.Name, &s.PhoneNumber, &s.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, shared.ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]Supplier, len(ids))
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.InventoryID, &s.Name, &s.PhoneNumber, &s.Address); err != nil {
			return nil, err
		}
		result[s.ID] = s
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO suppliers (inventory_id, name, phone_number, address, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
		supplier.InventoryID, supplier.Name, supplier.PhoneNumber, supplier.Address).Scan(&supplier.ID)
	return supplier, err
}

func (r *repository) Update(ctx context.Context, inventoryID, id int64, supplier Supplier) error {
	tag, err := r.pool.Exec(ctx, `UPDATE suppliers SET name=$1, phone_number=$2, address=$3, updated_at=NOW()
WHERE inventory_id=$4 AND id=$5`, supplier.Name, supplier.PhoneNumber, supplier.Address, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, inventoryID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortDir(dir string) string {
	if dir == "desc" {
		return "DESC"
	}
	return "ASC"
}
