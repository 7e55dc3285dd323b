package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storeroom-app/storeroom/internal/shared"
)

type memoryRepo struct {
	nextID      int64
	inventories map[int64]Inventory
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, inventories: make(map[int64]Inventory)}
}

func (m *memoryRepo) ListByOwner(_ context.Context, ownerID int64) ([]Inventory, error) {
	var out []Inventory
	for id := int64(1); id < m.nextID; id++ {
		if inv, ok := m.inventories[id]; ok && inv.OwnerID == ownerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Inventory, error) {
	inv, ok := m.inventories[id]
	if !ok {
		return Inventory{}, shared.ErrNotFound
	}
	return inv, nil
}

func (m *memoryRepo) Create(_ context.Context, ownerID int64, storeName string) (Inventory, error) {
	inv := Inventory{
		ID:        m.nextID,
		StoreName: storeName,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.inventories[inv.ID] = inv
	m.nextID++
	return inv, nil
}

func (m *memoryRepo) UpdateName(_ context.Context, id int64, storeName string) error {
	inv, ok := m.inventories[id]
	if !ok {
		return shared.ErrNotFound
	}
	inv.StoreName = storeName
	m.inventories[id] = inv
	return nil
}

func TestCreateRequiresStoreName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), 1, "   ")
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "store_name")
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	inv, err := svc.Create(ctx, 1, "Main Store")
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, inv.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	got, err := svc.Get(ctx, 1, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "Main Store", got.StoreName)
}

func TestListReturnsOldestFirst(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, "First")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "Second")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, "Other Owner")
	require.NoError(t, err)

	inventories, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, inventories, 2)
	require.Equal(t, first.ID, inventories[0].ID, "the oldest store is the client's default")
}

func TestRenameEnforcesOwnership(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	inv, err := svc.Create(ctx, 1, "Main Store")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, 2, inv.ID, "Hijacked")
	require.ErrorIs(t, err, ErrNotOwner)

	renamed, err := svc.Rename(ctx, 1, inv.ID, "Renamed Store")
	require.NoError(t, err)
	require.Equal(t, "Renamed Store", renamed.StoreName)
}
