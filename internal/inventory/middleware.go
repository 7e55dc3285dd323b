package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

// HeaderInventoryID names the header carrying the active store selection.
const HeaderInventoryID = "X-Inventory-ID"

// RequireInventory resolves the active inventory from the request header,
// verifies the session user owns it, and stores its ID in the context. All
// tenant-scoped routes sit behind this middleware.
func RequireInventory(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
				return
			}
			userID, err := strconv.ParseInt(sess.User(), 10, 64)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid session user")
				return
			}

			raw := r.Header.Get(HeaderInventoryID)
			if raw == "" {
				httpx.Problem(w, http.StatusBadRequest, "Missing Inventory", shared.ErrNoActiveInventory.Error())
				return
			}
			inventoryID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Missing Inventory", "invalid inventory id")
				return
			}

			if _, err := service.Get(r.Context(), userID, inventoryID); err != nil {
				switch {
				case errors.Is(err, ErrNotOwner):
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "inventory does not belong to user")
				case errors.Is(err, shared.ErrNotFound):
					httpx.Problem(w, http.StatusNotFound, "Not Found", "inventory not found")
				default:
					httpx.RespondError(w, err)
				}
				return
			}

			ctx := shared.ContextWithInventory(r.Context(), inventoryID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
