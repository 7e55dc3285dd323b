package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeroom-app/storeroom/internal/shared"
)

// Repository defines persistence operations for inventories.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Inventory, error)
	Get(ctx context.Context, id int64) (Inventory, error)
	Create(ctx context.Context, ownerID int64, storeName string) (Inventory, error)
	UpdateName(ctx context.Context, id int64, storeName string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int64) ([]Inventory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, store_name, owner_id, created_at, updated_at
FROM inventories WHERE owner_id=$1 ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventories []Inventory
	for rows.Next() {
		var inv Inventory
		if err := rows.Scan(&inv.ID, &inv.StoreName, &inv.OwnerID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inventories = append(inventories, inv)
	}
	return inventories, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Inventory, error) {
	var inv Inventory
	err := r.pool.QueryRow(ctx, `SELECT id, store_name, owner_id, created_at, updated_at
FROM inventories WHERE id=$1`, id).Scan(&inv.ID, &inv.StoreName, &inv.OwnerID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inventory{}, shared.ErrNotFound
		}
		return Inventory{}, err
	}
	return inv, nil
}

func (r *repository) Create(ctx context.Context, ownerID int64, storeName string) (Inventory, error) {
	var inv Inventory
	err := r.pool.QueryRow(ctx, `INSERT INTO inventories (store_name, owner_id, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
RETURNING id, store_name, owner_id, created_at, updated_at`, storeName, ownerID).
		Scan(&inv.ID, &inv.StoreName, &inv.OwnerID, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (r *repository) UpdateName(ctx context.Context, id int64, storeName string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE inventories SET store_name=$1, updated_at=NOW() WHERE id=$2`, storeName, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
