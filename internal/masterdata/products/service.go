package products

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

func (s *Service) List(ctx context.Context, inventoryID int64, filters mdshared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, inventoryID, filters)
}

func (s *Service) Get(ctx context.Context, inventoryID, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.Get(ctx, inventoryID, id)
}

// GetByIDs is the fetch function backing reference resolution.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, inventoryID, id int64, product Product) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	if err := s.validate(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, inventoryID, id, product)
}

func (s *Service) Delete(ctx context.Context, inventoryID, id int64) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	return s.repo.Delete(ctx, inventoryID, id)
}
