package suppliers

// Supplier is a purchasing source for stock receipts.
type Supplier struct {
	ID          int64  `json:"id"`
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}
