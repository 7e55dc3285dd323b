package products

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
	List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, inventoryID, id int64) (Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, inventoryID, id int64, product Product) error
	Delete(ctx context.Context, inventoryID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, inventory_id, category_id, name, default_buying_price, default_selling_price`

func (r *repository) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE inventory_id=$1`
	countQuery := `SELECT COUNT(*) FROM products WHERE inventory_id=$1`
	args := []any{inventoryID}
	countArgs := []any{inventoryID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		clause := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += ` AND name ILIKE $` + strconv.Itoa(len(countArgs)+1)
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	if filters.CategoryID != nil {
		argCount++
		query += ` AND category_id=$` + strconv.Itoa(argCount)
		countQuery += ` AND category_id=$` + strconv.Itoa(len(countArgs)+1)
		args = append(args, *filters.CategoryID)
		countArgs = append(countArgs, *filters.CategoryID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

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

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.InventoryID, &p.CategoryID, &p.Name, &p.DefaultBuyingPrice, &p.DefaultSellingPrice); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, inventoryID, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE inventory_id=$1 AND id=$2`, inventoryID, id).
		Scan(&p.ID, &p.InventoryID, &p.CategoryID, &p.Name, &p.DefaultBuyingPrice, &p.DefaultSellingPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.InventoryID, &p.CategoryID, &p.Name, &p.DefaultBuyingPrice, &p.DefaultSellingPrice); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO products (inventory_id, category_id, name, default_buying_price, default_selling_price, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`,
		product.InventoryID, product.CategoryID, product.Name, product.DefaultBuyingPrice, product.DefaultSellingPrice).Scan(&product.ID)
	return product, err
}

func (r *repository) Update(ctx context.Context, inventoryID, id int64, product Product) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET category_id=$1, name=$2, default_buying_price=$3, default_selling_price=$4, updated_at=NOW()
WHERE inventory_id=$5 AND id=$6`,
		product.CategoryID, product.Name, product.DefaultBuyingPrice, product.DefaultSellingPrice, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, inventoryID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE inventory_id=$1 AND id=$2`, inventoryID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "buying_price":
		return "default_buying_price " + dir
	case "selling_price":
		return "default_selling_price " + dir
	default:
		return "name " + dir
	}
}
