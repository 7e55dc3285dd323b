package suppliers

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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Post("/suppliers", h.create)
	r.Get("/suppliers/{id}", h.get)
	r.Put("/suppliers/{id}", h.update)
	r.Delete("/suppliers/{id}", h.remove)
}

type supplierPayload struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := mdshared.ParseListFilters(r.URL.Query())

	suppliers, total, err := h.service.List(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if suppliers == nil {
		suppliers = []Supplier{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"suppliers":  suppliers,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	supplier, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var payload supplierPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	supplier, err := h.service.Create(r.Context(), Supplier{
		InventoryID: inventoryID,
		Name:        payload.Name,
		PhoneNumber: payload.PhoneNumber,
		Address:     payload.Address,
	})
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	var payload supplierPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	update := Supplier{
		InventoryID: inventoryID,
		Name:        payload.Name,
		PhoneNumber: payload.PhoneNumber,
		Address:     payload.Address,
	}
	if err := h.service.Update(r.Context(), inventoryID, id, update); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	supplier, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	if err := h.service.Delete(r.Context(), inventoryID, id); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
