package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/masterdata/categories"
	mdshared "github.com/storeroom-app/storeroom/internal/masterdata/shared"
	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/resolve"
	"github.com/storeroom-app/storeroom/internal/shared"
)

type Handler struct {
	logger          *slog.Logger
	service         *Service
	categoryService *categories.Service
}

func NewHandler(logger *slog.Logger, service *Service, categoryService *categories.Service) *Handler {
	return &Handler{logger: logger, service: service, categoryService: categoryService}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	filters := mdshared.ParseListFilters(r.URL.Query())

	products, total, err := h.service.List(r.Context(), inventoryID, filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views, err := h.expand(r, products)
	if err != nil {
		h.logger.Error("resolve product categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   views,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	views, err := h.expand(r, []Product{product})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views[0])
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.Create(r.Context(), Product{
		InventoryID:         inventoryID,
		CategoryID:          form.CategoryID,
		Name:                form.Name,
		DefaultBuyingPrice:  form.DefaultBuyingPrice,
		DefaultSellingPrice: form.DefaultSellingPrice,
	})
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	update := Product{
		InventoryID:         inventoryID,
		CategoryID:          form.CategoryID,
		Name:                form.Name,
		DefaultBuyingPrice:  form.DefaultBuyingPrice,
		DefaultSellingPrice: form.DefaultSellingPrice,
	}
	if err := h.service.Update(r.Context(), inventoryID, id, update); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), inventoryID, id)
	if err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	inventoryID := shared.InventoryFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := h.service.Delete(r.Context(), inventoryID, id); err != nil {
		mdshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expand resolves category references for a page of products with a single
// deduplicated lookup.
func (h *Handler) expand(r *http.Request, products []Product) ([]ProductView, error) {
	loader := resolve.NewLoader(h.categoryService.GetByIDs)
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}
	resolved, err := loader.Load(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := ProductView{Product: p}
		if c, ok := resolved[p.CategoryID]; ok {
			view.Category = &c
		}
		views = append(views, view)
	}
	return views, nil
}
