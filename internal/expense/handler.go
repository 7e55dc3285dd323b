package expense

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *shared.Validator
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: shared.NewValidator()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Post("/expenses", h.create)
	r.Get("/expenses/{id}", h.get)
	r.Put("/expenses/{id}", h.update)
	r.Delete("/expenses/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := parseFilters(r.URL.Query())

	expenses, total, err := h.service.List(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"expenses":   expenses,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expense id")
		return
	}
	exp, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, form) {
		return
	}
	exp, err := h.service.Create(r.Context(), inventoryID, form)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expense id")
		return
	}
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, form) {
		return
	}
	if err := h.service.Update(r.Context(), inventoryID, id, form); err != nil {
		h.respondServiceError(w, err)
		return
	}
	exp, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expense id")
		return
	}
	if err := h.service.Delete(r.Context(), inventoryID, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "expense not found")
		return
	}
	httpx.RespondError(w, err)
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

func parseFilters(q url.Values) ListFilters {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := ListFilters{Page: page, Limit: limit}
	if t, ok := parseDate(q.Get("from")); ok {
		filters.From = &t
	}
	if t, ok := parseDate(q.Get("to")); ok {
		// A bare date is an inclusive upper bound over the whole day.
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filters.To = &t
	}
	return filters
}

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
