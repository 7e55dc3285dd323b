package stock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/storeroom-app/storeroom/internal/shared"
)

// StockInForm is the payload for recording a receipt.
type StockInForm struct {
	ProductID  int64     `json:"product_id" validate:"required,gt=0"`
	SupplierID *int64    `json:"supplier_id"`
	Price      int64     `json:"price" validate:"required,gte=1"`
	Quantity   int64     `json:"quantity" validate:"required,gte=1"`
	Date       time.Time `json:"date" validate:"required"`
}

// StockOutForm is the payload for recording an issue against a balance.
type StockOutForm struct {
	StockID      string    `json:"stock_id" validate:"required"`
	SellingPrice int64     `json:"selling_price" validate:"required,gte=1"`
	Quantity     int64     `json:"quantity" validate:"required,gte=1"`
	Date         time.Time `json:"date" validate:"required"`
}

// Service owns the ledger rules. Every mutation runs as one atomic ledger
// operation; the balance row and the movement row change together or not at
// all.
type Service struct {
	logger *slog.Logger
	ledger Ledger
	repo   Repository
	audit  *shared.AuditLogger
}

func NewService(logger *slog.Logger, ledger Ledger, repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, ledger: ledger, repo: repo, audit: audit}
}

// CreateStockIn records a receipt. A first receipt at a new (product, price)
// pair creates the balance; later receipts add to it. The new movement
// becomes the balance's editable tip.
func (s *Service) CreateStockIn(ctx context.Context, inventoryID, actorID int64, form StockInForm) (StockIn, error) {
	in := StockIn{
		ID:          uuid.NewString(),
		InventoryID: inventoryID,
		ProductID:   form.ProductID,
		SupplierID:  form.SupplierID,
		StockID:     LedgerKey(form.ProductID, form.Price),
		Price:       form.Price,
		Quantity:    form.Quantity,
		Date:        form.Date,
	}

	err := s.ledger.Apply(ctx, func(tx LedgerTx) error {
		balance, found, err := tx.BalanceForUpdate(ctx, inventoryID, in.StockID)
		if err != nil {
			return err
		}
		if !found {
			balance = CurrentStock{
				ID:          in.StockID,
				InventoryID: inventoryID,
				ProductID:   in.ProductID,
				Price:       in.Price,
			}
		}
		balance.Quantity += in.Quantity
		balance.EditableID = in.ID
		if err := tx.SaveBalance(ctx, balance); err != nil {
			return err
		}
		return tx.InsertStockIn(ctx, in)
	})
	if err != nil {
		return StockIn{}, err
	}

	s.recordAudit(ctx, actorID, "stock_in.create", in.ID, map[string]any{
		"stock_id": in.StockID,
		"quantity": in.Quantity,
	})
	return in, nil
}

// CreateStockOut records an issue against an existing balance. The balance's
// buying price is captured on the movement so margin reports stay correct.
func (s *Service) CreateStockOut(ctx context.Context, inventoryID, actorID int64, form StockOutForm) (StockOut, error) {
	out := StockOut{
		ID:           uuid.NewString(),
		InventoryID:  inventoryID,
		StockID:      form.StockID,
		SellingPrice: form.SellingPrice,
		Quantity:     form.Quantity,
		Date:         form.Date,
	}

	err := s.ledger.Apply(ctx, func(tx LedgerTx) error {
		balance, found, err := tx.BalanceForUpdate(ctx, inventoryID, form.StockID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoStockRecord
		}
		if form.Quantity > balance.Quantity {
			return ErrInsufficientStock
		}
		out.ProductID = balance.ProductID
		out.BuyingPrice = balance.Price

		balance.Quantity -= form.Quantity
		balance.EditableID = out.ID
		if err := tx.SaveBalance(ctx, balance); err != nil {
			return err
		}
		return tx.InsertStockOut(ctx, out)
	})
	if err != nil {
		return StockOut{}, err
	}

	s.recordAudit(ctx, actorID, "stock_out.create", out.ID, map[string]any{
		"stock_id": out.StockID,
		"quantity": out.Quantity,
	})
	return out, nil
}

// DeleteStockIn reverses and removes a receipt. Only the balance's editable
// tip may be deleted, and only while the balance still covers the receipt's
// quantity. The editable pointer is left pointing at the deleted movement,
// which freezes the balance against further deletes until its next movement;
// this mirrors the behaviour the app has always had.
func (s *Service) DeleteStockIn(ctx context.Context, inventoryID, actorID int64, id string) error {
	var key string
	err := s.ledger.Apply(ctx, func(tx LedgerTx) error {
		in, err := tx.GetStockIn(ctx, inventoryID, id)
		if err != nil {
			return err
		}
		key = in.StockID

		balance, found, err := tx.BalanceForUpdate(ctx, inventoryID, in.StockID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoStockRecord
		}
		if balance.EditableID != in.ID {
			return ErrNotEditable
		}
		if balance.Quantity < in.Quantity {
			return ErrInsufficientStock
		}

		balance.Quantity -= in.Quantity
		if err := tx.SaveBalance(ctx, balance); err != nil {
			return err
		}
		return tx.DeleteStockIn(ctx, inventoryID, in.ID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, "stock_in.delete", id, map[string]any{"stock_id": key})
	return nil
}

// DeleteStockOut reverses and removes an issue, returning its quantity to
// the balance. The same editable-tip rule applies as for receipts.
func (s *Service) DeleteStockOut(ctx context.Context, inventoryID, actorID int64, id string) error {
	var key string
	err := s.ledger.Apply(ctx, func(tx LedgerTx) error {
		out, err := tx.GetStockOut(ctx, inventoryID, id)
		if err != nil {
			return err
		}
		key = out.StockID

		balance, found, err := tx.BalanceForUpdate(ctx, inventoryID, out.StockID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoStockRecord
		}
		if balance.EditableID != out.ID {
			return ErrNotEditable
		}

		balance.Quantity += out.Quantity
		if err := tx.SaveBalance(ctx, balance); err != nil {
			return err
		}
		return tx.DeleteStockOut(ctx, inventoryID, out.ID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, "stock_out.delete", id, map[string]any{"stock_id": key})
	return nil
}

func (s *Service) ListStockIns(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockIn, int, error) {
	return s.repo.ListStockIns(ctx, inventoryID, filters)
}

func (s *Service) ListStockOuts(ctx context.Context, inventoryID int64, filters MovementFilters) ([]StockOut, int, error) {
	return s.repo.ListStockOuts(ctx, inventoryID, filters)
}

func (s *Service) ListBalances(ctx context.Context, inventoryID int64, availableOnly bool) ([]CurrentStock, error) {
	return s.repo.ListBalances(ctx, inventoryID, availableOnly)
}

// ScanDrift exposes the integrity check for the background worker.
func (s *Service) ScanDrift(ctx context.Context) ([]Drift, error) {
	return s.repo.ScanDrift(ctx)
}

// recordAudit never fails the business operation; a lost audit row is logged
// and dropped.
func (s *Service) recordAudit(ctx context.Context, actorID int64, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "stock",
		EntityID: entityID,
		Meta:     meta,
	})
	if err != nil {
		s.logger.Error("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}
