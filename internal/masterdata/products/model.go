package products

// Product is a sellable item within one inventory. Prices are stored in
// minor currency units; the defaults pre-fill movement forms and may be
// overridden per stock entry.
type Product struct {
	ID                  int64  `json:"id"`
	InventoryID         int64  `json:"inventory_id"`
	CategoryID          int64  `json:"category_id"`
	Name                string `json:"name"`
	DefaultBuyingPrice  int64  `json:"default_buying_price"`
	DefaultSellingPrice int64  `json:"default_selling_price"`
}
