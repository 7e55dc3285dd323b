package categories

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
	List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Category, int, error)
	Get(ctx context.Context, inventoryID, id int64) (Category, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, inventoryID, id int64, name string) error
	Delete(ctx context.Context, inventoryID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Category, int, error) {
	query := `SELECT id, inventory_id, name FROM categories WHERE inventory_id=$1`
	args := []any{inventoryID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM categories WHERE inventory_id=$1`
	countArgs := []any{inventoryID}
	if filters.Search != "" {
		countQuery += ` AND name ILIKE $2`
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

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.InventoryID, &c.Name); err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, inventoryID, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, inventory_id, name FROM categories WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&c.ID, &c.InventoryID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, inventory_id, name FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]Category, len(ids))
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.InventoryID, &c.Name); err != nil {
			return nil, err
		}
		result[c.ID] = c
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (inventory_id, name, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW()) RETURNING id`, category.InventoryID, category.Name).Scan(&category.ID)
	return category, err
}

func (r *repository) Update(ctx context.Context, inventoryID, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name=$1, updated_at=NOW() WHERE inventory_id=$2 AND id=$3`, name, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, inventoryID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
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
