package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/storeroom-app/storeroom/internal/auth"
	"github.com/storeroom-app/storeroom/internal/expense"
	"github.com/storeroom-app/storeroom/internal/inventory"
	"github.com/storeroom-app/storeroom/internal/masterdata/categories"
	"github.com/storeroom-app/storeroom/internal/masterdata/products"
	"github.com/storeroom-app/storeroom/internal/masterdata/suppliers"
	"github.com/storeroom-app/storeroom/internal/observability"
	"github.com/storeroom-app/storeroom/internal/report"
	"github.com/storeroom-app/storeroom/internal/shared"
	"github.com/storeroom-app/storeroom/internal/stock"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	InventoryHandler *inventory.Handler
	InventoryService *inventory.Service
	CategoryHandler  *categories.Handler
	ProductHandler   *products.Handler
	SupplierHandler  *suppliers.Handler
	StockHandler     *stock.Handler
	ExpenseHandler   *expense.Handler
	ReportHandler    *report.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Storeroom defaults. Auth routes
// are public; inventory management needs a login; everything else sits
// behind both the login and the active-inventory header check.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		params.InventoryHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(inventory.RequireInventory(params.InventoryService))

		params.CategoryHandler.MountRoutes(r)
		params.ProductHandler.MountRoutes(r)
		params.SupplierHandler.MountRoutes(r)
		params.StockHandler.MountRoutes(r)
		params.ExpenseHandler.MountRoutes(r)
		params.ReportHandler.MountRoutes(r)
	})

	return r
}
