package categories

import (
	"strings"

	"github.com/storeroom-app/storeroom/internal/shared"
)

func (s *Service) validate(c Category) error {
	fields := make(map[string]string)
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "is required"
	}
	if c.InventoryID <= 0 {
		fields["inventory_id"] = "is required"
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Fields: fields}
	}
	return nil
}
