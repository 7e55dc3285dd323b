package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

// Handler wires HTTP endpoints for store management.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes. Callers mount these behind the
// authentication middleware; inventory selection itself is not required.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventories", h.list)
	r.Post("/inventories", h.create)
	r.Put("/inventories/{id}", h.rename)
}

type inventoryPayload struct {
	StoreName string `json:"store_name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	inventories, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list inventories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if inventories == nil {
		inventories = []Inventory{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inventories": inventories})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	var payload inventoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	inv, err := h.service.Create(r.Context(), userID, payload.StoreName)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid inventory id")
		return
	}
	var payload inventoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	inv, err := h.service.Rename(r.Context(), userID, id, payload.StoreName)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func respondServiceError(w http.ResponseWriter, err error) {
	var vErr *shared.ValidationError
	switch {
	case errors.As(err, &vErr):
		httpx.ProblemFields(w, http.StatusBadRequest, "Validation Failed", vErr.Fields)
	case errors.Is(err, ErrNotOwner):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func sessionUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
