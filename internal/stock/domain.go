// Package stock implements the movement ledger: stock receipts, stock
// issues, and the per-(product, price) running balances they maintain.
package stock

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoStockRecord is returned when an operation references a ledger
	// key that has no balance row.
	ErrNoStockRecord = errors.New("no stock record")

	// ErrInsufficientStock is returned when an issue or a receipt reversal
	// would drive a balance below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotEditable is returned when a delete targets a movement that is
	// not its balance's most recent one.
	ErrNotEditable = errors.New("movement is no longer editable")
)

// LedgerKey derives the balance identifier for a product received at a given
// buying price. The same product at two prices keeps two separate balances.
func LedgerKey(productID, price int64) string {
	return fmt.Sprintf("%d-%d", productID, price)
}

// StockIn is a receipt of goods into an inventory.
type StockIn struct {
	ID          string    `json:"id"`
	InventoryID int64     `json:"inventory_id"`
	ProductID   int64     `json:"product_id"`
	SupplierID  *int64    `json:"supplier_id,omitempty"`
	StockID     string    `json:"stock_id"`
	Price       int64     `json:"price"`
	Quantity    int64     `json:"quantity"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockOut is an issue of goods out of an inventory. BuyingPrice is copied
// from the balance at issue time so margin survives later price changes.
type StockOut struct {
	ID           string    `json:"id"`
	InventoryID  int64     `json:"inventory_id"`
	ProductID    int64     `json:"product_id"`
	StockID      string    `json:"stock_id"`
	SellingPrice int64     `json:"selling_price"`
	BuyingPrice  int64     `json:"buying_price"`
	Quantity     int64     `json:"quantity"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// CurrentStock is the running balance for one ledger key. EditableID points
// at the newest movement touching the balance; only that movement may be
// deleted. Balances stay behind at quantity zero rather than being removed.
type CurrentStock struct {
	ID          string    `json:"id"`
	InventoryID int64     `json:"inventory_id"`
	ProductID   int64     `json:"product_id"`
	Price       int64     `json:"price"`
	Quantity    int64     `json:"quantity"`
	EditableID  string    `json:"editable_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovementFilters narrows movement listings.
type MovementFilters struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// Offset computes the row offset for the current page.
func (f MovementFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
