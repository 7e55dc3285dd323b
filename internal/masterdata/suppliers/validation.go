package suppliers

import (
	"strings"

	"github.com/storeroom-app/storeroom/internal/shared"
)

func (s *Service) validate(sup Supplier) error {
	fields := make(map[string]string)
	if strings.TrimSpace(sup.Name) == "" {
		fields["name"] = "is required"
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Fields: fields}
	}
	return nil
}
