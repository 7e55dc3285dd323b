package stock

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/masterdata/products"
	"github.com/storeroom-app/storeroom/internal/masterdata/suppliers"
	"github.com/storeroom-app/storeroom/internal/platform/db"
	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/resolve"
	"github.com/storeroom-app/storeroom/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	products  *products.Service
	suppliers *suppliers.Service
	validator *shared.Validator
}

func NewHandler(logger *slog.Logger, service *Service, productService *products.Service, supplierService *suppliers.Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		products:  productService,
		suppliers: supplierService,
		validator: shared.NewValidator(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock-ins", h.listStockIns)
	r.Post("/stock-ins", h.createStockIn)
	r.Delete("/stock-ins/{id}", h.deleteStockIn)
	r.Get("/stock-outs", h.listStockOuts)
	r.Post("/stock-outs", h.createStockOut)
	r.Delete("/stock-outs/{id}", h.deleteStockOut)
	r.Get("/stocks", h.listBalances)
}

// StockInView carries a receipt with its references resolved.
type StockInView struct {
	StockIn
	Product  *products.Product   `json:"product,omitempty"`
	Supplier *suppliers.Supplier `json:"supplier,omitempty"`
}

// StockOutView carries an issue with its product resolved.
type StockOutView struct {
	StockOut
	Product *products.Product `json:"product,omitempty"`
}

// CurrentStockView carries a balance with its product resolved.
type CurrentStockView struct {
	CurrentStock
	Product *products.Product `json:"product,omitempty"`
}

func (h *Handler) listStockIns(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := parseMovementFilters(r.URL.Query())

	ins, total, err := h.service.ListStockIns(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list stock ins", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views, err := h.expandStockIns(r, ins)
	if err != nil {
		h.logger.Error("resolve stock in references", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stock_ins":  views,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) createStockIn(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var form StockInForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, form) {
		return
	}
	in, err := h.service.CreateStockIn(r.Context(), inventoryID, actorID(r), form)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *Handler) deleteStockIn(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	if err := h.service.DeleteStockIn(r.Context(), inventoryID, actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listStockOuts(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := parseMovementFilters(r.URL.Query())

	outs, total, err := h.service.ListStockOuts(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list stock outs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views, err := h.expandStockOuts(r, outs)
	if err != nil {
		h.logger.Error("resolve stock out references", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stock_outs": views,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) createStockOut(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var form StockOutForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, form) {
		return
	}
	out, err := h.service.CreateStockOut(r.Context(), inventoryID, actorID(r), form)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) deleteStockOut(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	if err := h.service.DeleteStockOut(r.Context(), inventoryID, actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	availableOnly := r.URL.Query().Get("available") == "true"

	balances, err := h.service.ListBalances(r.Context(), inventoryID, availableOnly)
	if err != nil {
		h.logger.Error("list balances", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	loader := resolve.NewLoader(h.products.GetByIDs)
	ids := make([]int64, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.ProductID)
	}
	resolved, err := loader.Load(r.Context(), ids)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	views := make([]CurrentStockView, 0, len(balances))
	for _, b := range balances {
		view := CurrentStockView{CurrentStock: b}
		if p, ok := resolved[b.ProductID]; ok {
			view.Product = &p
		}
		views = append(views, view)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stocks": views})
}

func (h *Handler) expandStockIns(r *http.Request, ins []StockIn) ([]StockInView, error) {
	productLoader := resolve.NewLoader(h.products.GetByIDs)
	supplierLoader := resolve.NewLoader(h.suppliers.GetByIDs)

	productIDs := make([]int64, 0, len(ins))
	supplierIDs := make([]int64, 0, len(ins))
	for _, in := range ins {
		productIDs = append(productIDs, in.ProductID)
		if in.SupplierID != nil {
			supplierIDs = append(supplierIDs, *in.SupplierID)
		}
	}
	resolvedProducts, err := productLoader.Load(r.Context(), productIDs)
	if err != nil {
		return nil, err
	}
	resolvedSuppliers, err := supplierLoader.Load(r.Context(), supplierIDs)
	if err != nil {
		return nil, err
	}

	views := make([]StockInView, 0, len(ins))
	for _, in := range ins {
		view := StockInView{StockIn: in}
		if p, ok := resolvedProducts[in.ProductID]; ok {
			view.Product = &p
		}
		if in.SupplierID != nil {
			if s, ok := resolvedSuppliers[*in.SupplierID]; ok {
				view.Supplier = &s
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (h *Handler) expandStockOuts(r *http.Request, outs []StockOut) ([]StockOutView, error) {
	loader := resolve.NewLoader(h.products.GetByIDs)
	ids := make([]int64, 0, len(outs))
	for _, out := range outs {
		ids = append(ids, out.ProductID)
	}
	resolved, err := loader.Load(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	views := make([]StockOutView, 0, len(outs))
	for _, out := range outs {
		view := StockOutView{StockOut: out}
		if p, ok := resolved[out.ProductID]; ok {
			view.Product = &p
		}
		views = append(views, view)
	}
	return views, nil
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, err error) {
	var vErr *shared.ValidationError
	switch {
	case errors.As(err, &vErr):
		httpx.ProblemFields(w, http.StatusBadRequest, "Validation Failed", vErr.Fields)
	case errors.Is(err, ErrNoStockRecord):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no stock record for this item and price")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "movement not found")
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Conflict", "insufficient stock")
	case errors.Is(err, ErrNotEditable):
		httpx.Problem(w, http.StatusConflict, "Conflict", "only the most recent movement of a stock can be deleted")
	case errors.Is(err, db.ErrTxConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", "concurrent update, please retry")
	default:
		h.logger.Error("ledger operation", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) validateRequest(w http.ResponseWriter, req any) bool {
	if err := h.validator.Struct(req); err != nil {
		var vErr *shared.ValidationError
		if errors.As(err, &vErr) {
			httpx.ProblemFields(w, http.StatusBadRequest, "Validation Failed", vErr.Fields)
		} else {
			httpx.RespondError(w, err)
		}
		return false
	}
	return true
}

func actorID(r *http.Request) int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0
	}
	id, _ := strconv.ParseInt(sess.User(), 10, 64)
	return id
}

func parseMovementFilters(q url.Values) MovementFilters {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := MovementFilters{Page: page, Limit: limit}
	if t, ok := parseDate(q.Get("from")); ok {
		filters.From = &t
	}
	if t, ok := parseDate(q.Get("to")); ok {
		filters.To = &t
	}
	return filters
}

// parseDate accepts either a bare date or a full RFC3339 timestamp.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
