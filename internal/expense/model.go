// Package expense tracks operating costs recorded against an inventory.
package expense

import "time"

// Categories an expense may be filed under. The first entry is the client
// default.
const (
	CategoryDiscount  = "discount"
	CategoryRent      = "rent"
	CategorySalaries  = "salaries"
	CategoryUtilities = "utilities"
	CategoryTransport = "transport"
	CategoryOther     = "other"
)

// Expense is a single recorded cost.
type Expense struct {
	ID          int64     `json:"id"`
	InventoryID int64     `json:"inventory_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Form is the create/update payload.
type Form struct {
	Name     string    `json:"name" validate:"required"`
	Category string    `json:"category" validate:"required,oneof=discount rent salaries utilities transport other"`
	Amount   int64     `json:"amount" validate:"required,gte=1"`
	Date     time.Time `json:"date" validate:"required"`
}
