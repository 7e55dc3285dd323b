package stock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storeroom-app/storeroom/internal/shared"
)

// memoryLedger is an in-memory Ledger. Apply snapshots state before running
// the callback and restores it on failure, mirroring transaction rollback.
type memoryLedger struct {
	balances  map[string]CurrentStock
	stockIns  map[string]StockIn
	stockOuts map[string]StockOut

	failInsertStockIn bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		balances:  make(map[string]CurrentStock),
		stockIns:  make(map[string]StockIn),
		stockOuts: make(map[string]StockOut),
	}
}

func (l *memoryLedger) Apply(_ context.Context, fn func(LedgerTx) error) error {
	balances := copyMap(l.balances)
	stockIns := copyMap(l.stockIns)
	stockOuts := copyMap(l.stockOuts)

	if err := fn(l); err != nil {
		l.balances = balances
		l.stockIns = stockIns
		l.stockOuts = stockOuts
		return err
	}
	return nil
}

func (l *memoryLedger) BalanceForUpdate(_ context.Context, inventoryID int64, key string) (CurrentStock, bool, error) {
	cs, ok := l.balances[key]
	if !ok || cs.InventoryID != inventoryID {
		return CurrentStock{}, false, nil
	}
	return cs, true, nil
}

func (l *memoryLedger) SaveBalance(_ context.Context, balance CurrentStock) error {
	l.balances[balance.ID] = balance
	return nil
}

func (l *memoryLedger) InsertStockIn(_ context.Context, in StockIn) error {
	if l.failInsertStockIn {
		return errors.New("insert failed")
	}
	l.stockIns[in.ID] = in
	return nil
}

func (l *memoryLedger) InsertStockOut(_ context.Context, out StockOut) error {
	l.stockOuts[out.ID] = out
	return nil
}

func (l *memoryLedger) GetStockIn(_ context.Context, inventoryID int64, id string) (StockIn, error) {
	in, ok := l.stockIns[id]
	if !ok || in.InventoryID != inventoryID {
		return StockIn{}, shared.ErrNotFound
	}
	return in, nil
}

func (l *memoryLedger) GetStockOut(_ context.Context, inventoryID int64, id string) (StockOut, error) {
	out, ok := l.stockOuts[id]
	if !ok || out.InventoryID != inventoryID {
		return StockOut{}, shared.ErrNotFound
	}
	return out, nil
}

func (l *memoryLedger) DeleteStockIn(_ context.Context, inventoryID int64, id string) error {
	if _, ok := l.stockIns[id]; !ok {
		return shared.ErrNotFound
	}
	delete(l.stockIns, id)
	return nil
}

func (l *memoryLedger) DeleteStockOut(_ context.Context, inventoryID int64, id string) error {
	if _, ok := l.stockOuts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(l.stockOuts, id)
	return nil
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func newTestService(ledger Ledger) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, ledger, nil, nil)
}

func receiptForm(productID, price, qty int64) StockInForm {
	return StockInForm{
		ProductID: productID,
		Price:     price,
		Quantity:  qty,
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateStockInCreatesBalance(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)

	in, err := svc.CreateStockIn(context.Background(), 1, 1, receiptForm(7, 1500, 5))
	require.NoError(t, err)
	require.Equal(t, "7-1500", in.StockID)

	balance := ledger.balances["7-1500"]
	require.EqualValues(t, 5, balance.Quantity)
	require.EqualValues(t, 7, balance.ProductID)
	require.EqualValues(t, 1500, balance.Price)
	require.Equal(t, in.ID, balance.EditableID)
}

func TestCreateStockInAccumulatesPerPrice(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 5))
	require.NoError(t, err)
	second, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 3))
	require.NoError(t, err)
	_, err = svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 2000, 4))
	require.NoError(t, err)

	require.EqualValues(t, 8, ledger.balances["7-1500"].Quantity)
	require.Equal(t, second.ID, ledger.balances["7-1500"].EditableID)
	require.EqualValues(t, 4, ledger.balances["7-2000"].Quantity)
}

func TestCreateStockInRollsBackOnFailure(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 5))
	require.NoError(t, err)

	ledger.failInsertStockIn = true
	_, err = svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 3))
	require.Error(t, err)

	require.EqualValues(t, 5, ledger.balances["7-1500"].Quantity, "balance must not change when the movement insert fails")
}

func TestCreateStockOutReducesBalance(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 10))
	require.NoError(t, err)

	out, err := svc.CreateStockOut(ctx, 1, 1, StockOutForm{
		StockID:      "7-1500",
		SellingPrice: 2500,
		Quantity:     4,
		Date:         time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.EqualValues(t, 7, out.ProductID)
	require.EqualValues(t, 1500, out.BuyingPrice, "issue must capture the balance's buying price")
	require.EqualValues(t, 6, ledger.balances["7-1500"].Quantity)
	require.Equal(t, out.ID, ledger.balances["7-1500"].EditableID)
}

func TestCreateStockOutWithoutBalance(t *testing.T) {
	svc := newTestService(newMemoryLedger())

	_, err := svc.CreateStockOut(context.Background(), 1, 1, StockOutForm{
		StockID: "7-1500", SellingPrice: 2500, Quantity: 1, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrNoStockRecord)
}

func TestCreateStockOutInsufficient(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 3))
	require.NoError(t, err)

	_, err = svc.CreateStockOut(ctx, 1, 1, StockOutForm{
		StockID: "7-1500", SellingPrice: 2500, Quantity: 4, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.EqualValues(t, 3, ledger.balances["7-1500"].Quantity)
}

func TestDeleteStockInOnlyTipIsEditable(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	first, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 5))
	require.NoError(t, err)
	second, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 3))
	require.NoError(t, err)

	err = svc.DeleteStockIn(ctx, 1, 1, first.ID)
	require.ErrorIs(t, err, ErrNotEditable)

	err = svc.DeleteStockIn(ctx, 1, 1, second.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, ledger.balances["7-1500"].Quantity)
	_, exists := ledger.stockIns[second.ID]
	require.False(t, exists)
}

func TestDeleteStockInInsufficientBalance(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	// Seed a receipt whose balance no longer covers it.
	in := StockIn{ID: "in-1", InventoryID: 1, ProductID: 7, StockID: "7-1500", Price: 1500, Quantity: 5}
	ledger.stockIns[in.ID] = in
	ledger.balances["7-1500"] = CurrentStock{
		ID: "7-1500", InventoryID: 1, ProductID: 7, Price: 1500, Quantity: 3, EditableID: in.ID,
	}

	err := svc.DeleteStockIn(ctx, 1, 1, in.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.EqualValues(t, 3, ledger.balances["7-1500"].Quantity)
}

func TestDeleteStockOutRestoresQuantity(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 10))
	require.NoError(t, err)
	out, err := svc.CreateStockOut(ctx, 1, 1, StockOutForm{
		StockID: "7-1500", SellingPrice: 2500, Quantity: 4, Date: time.Now(),
	})
	require.NoError(t, err)

	err = svc.DeleteStockOut(ctx, 1, 1, out.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, ledger.balances["7-1500"].Quantity)
}

func TestEditablePointerNotRewound(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	first, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 5))
	require.NoError(t, err)
	second, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 3))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStockIn(ctx, 1, 1, second.ID))

	// The pointer keeps referencing the deleted movement, so the older one
	// stays frozen until a new movement touches the balance.
	require.Equal(t, second.ID, ledger.balances["7-1500"].EditableID)
	require.ErrorIs(t, svc.DeleteStockIn(ctx, 1, 1, first.ID), ErrNotEditable)

	third, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 2))
	require.NoError(t, err)
	require.Equal(t, third.ID, ledger.balances["7-1500"].EditableID)
	require.NoError(t, svc.DeleteStockIn(ctx, 1, 1, third.ID))
}

func TestDeleteUnknownMovement(t *testing.T) {
	svc := newTestService(newMemoryLedger())

	err := svc.DeleteStockIn(context.Background(), 1, 1, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
	err = svc.DeleteStockOut(context.Background(), 1, 1, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBalanceSurvivesAtZero(t *testing.T) {
	ledger := newMemoryLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateStockIn(ctx, 1, 1, receiptForm(7, 1500, 4))
	require.NoError(t, err)
	_, err = svc.CreateStockOut(ctx, 1, 1, StockOutForm{
		StockID: "7-1500", SellingPrice: 2500, Quantity: 4, Date: time.Now(),
	})
	require.NoError(t, err)

	balance, ok := ledger.balances["7-1500"]
	require.True(t, ok, "balances are never removed, they stay at zero")
	require.EqualValues(t, 0, balance.Quantity)
}
