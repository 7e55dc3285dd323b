package inventory

import "time"

// Inventory is the tenant-scoping root entity: one store owned by a user.
// Every other entity in the system references its owning inventory and all
// queries are scoped by it.
type Inventory struct {
	ID        int64     `json:"id"`
	StoreName string    `json:"store_name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
