package categories

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

func (s *Service) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, inventoryID, filters)
}

func (s *Service) Get(ctx context.Context, inventoryID, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, errors.New("invalid category ID")
	}
	return s.repo.Get(ctx, inventoryID, id)
}

// GetByIDs is the fetch function backing reference resolution.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]Category, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, inventoryID, id int64, name string) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	if err := s.validate(Category{InventoryID: inventoryID, Name: name}); err != nil {
		return err
	}
	return s.repo.Update(ctx, inventoryID, id, name)
}

func (s *Service) Delete(ctx context.Context, inventoryID, id int64) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	return s.repo.Delete(ctx, inventoryID, id)
}
