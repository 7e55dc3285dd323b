package expense

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, inventoryID int64, filters ListFilters) ([]Expense, int, error) {
	return s.repo.List(ctx, inventoryID, filters)
}

func (s *Service) Get(ctx context.Context, inventoryID, id int64) (Expense, error) {
	if id <= 0 {
		return Expense{}, errors.New("invalid expense ID")
	}
	return s.repo.Get(ctx, inventoryID, id)
}

func (s *Service) Create(ctx context.Context, inventoryID int64, form Form) (Expense, error) {
	return s.repo.Create(ctx, Expense{
		InventoryID: inventoryID,
		Name:        form.Name,
		Category:    form.Category,
		Amount:      form.Amount,
		Date:        form.Date,
	})
}

func (s *Service) Update(ctx context.Context, inventoryID, id int64, form Form) error {
	if id <= 0 {
		return errors.New("invalid expense ID")
	}
	return s.repo.Update(ctx, inventoryID, id, Expense{
		Name:     form.Name,
		Category: form.Category,
		Amount:   form.Amount,
		Date:     form.Date,
	})
}

func (s *Service) Delete(ctx context.Context, inventoryID, id int64) error {
	if id <= 0 {
		return errors.New("invalid expense ID")
	}
	return s.repo.Delete(ctx, inventoryID, id)
}
