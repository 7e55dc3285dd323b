package products

import (
	"strings"

	"github.com/storeroom-app/storeroom/internal/shared"
)

func (s *Service) validate(p Product) error {
	fields := make(map[string]string)
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "is required"
	}
	if p.CategoryID <= 0 {
		fields["category_id"] = "is required"
	}
	if p.DefaultBuyingPrice < 0 {
		fields["default_buying_price"] = "must be 0 or greater"
	}
	if p.DefaultSellingPrice < 0 {
		fields["default_selling_price"] = "must be 0 or greater"
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Fields: fields}
	}
	return nil
}
