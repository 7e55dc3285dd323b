package categories

// Category groups products within one inventory. Names are unique by
// convention only, matching the upstream data model.
type Category struct {
	ID          int64  `json:"id"`
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
}
