package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mdshared "github.com/storeroom-app/storeroom/internal/masterdata/shared"
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

// MountRoutes registers category routes. Mounted behind the inventory
// middleware, so the active inventory is always present in context.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Get("/categories/{id}", h.get)
	r.Put("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.remove)
}

type categoryPayload struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := mdshared.ParseListFilters(r.URL.Query())

	categories, total, err := h.service.List(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	category, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	category, err := h.service.Create(r.Context(), Category{InventoryID: inventoryID, Name: payload.Name})
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.Update(r.Context(), inventoryID, id, payload.Name); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	if err := h.service.Delete(r.Context(), inventoryID, id); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
