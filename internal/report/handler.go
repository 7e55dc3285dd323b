package report

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/stock-value", h.stockValue)
	r.Get("/reports/purchases", h.purchases)
	r.Get("/reports/sales", h.sales)
	r.Get("/reports/expenses", h.expenses)
}

func (h *Handler) stockValue(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	rep, err := h.service.StockValue(r.Context(), inventoryID)
	if err != nil {
		h.logger.Error("stock value report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	rep, err := h.service.Purchases(r.Context(), inventoryID, parseRange(r.URL.Query()))
	if err != nil {
		h.logger.Error("purchases report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	rep, err := h.service.Sales(r.Context(), inventoryID, parseRange(r.URL.Query()))
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) expenses(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	rep, err := h.service.Expenses(r.Context(), inventoryID, parseRange(r.URL.Query()))
	if err != nil {
		h.logger.Error("expenses report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func parseRange(q url.Values) Range {
	var period Range
	if t, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		period.From = t
	}
	if t, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		period.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return period
}
