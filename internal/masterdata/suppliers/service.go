package suppliers

import (
	"context"
	"errors"

	mdshared "github.com/storeroom-app/storeroom/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, inventoryID, filters)
}

func (s *Service) Get(ctx context.Context, inventoryID, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, errors.New("invalid supplier ID")
	}
	return s.repo.Get(ctx, inventoryID, id)
}

// GetByIDs is the fetch function backing reference resolution.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]Supplier, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, inventoryID, id int64, supplier Supplier) error {
	if id <= 0 {
		return errors.New("invalid supplier ID")
	}
	if err := s.validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, inventoryID, id, supplier)
}

func (s *Service) Delete(ctx context.Context, inventoryID, id int64) error {
	if id <= 0 {
		return errors.New("invalid supplier ID")
	}
	return s.repo.Delete(ctx, inventoryID, id)
}
