package products

import "github.com/storeroom-app/storeroom/internal/masterdata/categories"

// ProductForm is the create/update payload.
type ProductForm struct {
	Name                string `json:"name"`
	CategoryID          int64  `json:"category_id"`
	DefaultBuyingPrice  int64  `json:"default_buying_price"`
	DefaultSellingPrice int64  `json:"default_selling_price"`
}

// ProductView is a product with its category reference expanded. Category is
// nil when the reference fails to resolve.
type ProductView struct {
	Product
	Category *categories.Category `json:"category,omitempty"`
}
