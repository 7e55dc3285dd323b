package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/storeroom-app/storeroom/internal/shared"
)

// ErrNotOwner indicates an access attempt against someone else's inventory.
var ErrNotOwner = errors.New("inventory does not belong to user")

// Service coordinates inventory (store) operations.
type Service struct {
	repo Repository
}

// NewService constructs Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all inventories owned by the user, oldest first. The first
// entry is what clients treat as the default active store.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Inventory, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches one inventory, enforcing ownership.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (Inventory, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return Inventory{}, err
	}
	if inv.OwnerID != ownerID {
		return Inventory{}, ErrNotOwner
	}
	return inv, nil
}

// Create registers a new store for the user.
func (s *Service) Create(ctx context.Context, ownerID int64, storeName string) (Inventory, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return Inventory{}, &shared.ValidationError{Fields: map[string]string{"store_name": "is required"}}
	}
	return s.repo.Create(ctx, ownerID, storeName)
}

// Rename updates the store name, enforcing ownership.
func (s *Service) Rename(ctx context.Context, ownerID, id int64, storeName string) (Inventory, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return Inventory{}, &shared.ValidationError{Fields: map[string]string{"store_name": "is required"}}
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return Inventory{}, err
	}
	if err := s.repo.UpdateName(ctx, id, storeName); err != nil {
		return Inventory{}, err
	}
	return s.repo.Get(ctx, id)
}
