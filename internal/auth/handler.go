package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeroom-app/storeroom/internal/inventory"
	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	inventories    *inventory.Service
	sessionManager *shared.SessionManager
	validator      *shared.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, inventories *inventory.Service, sessions *shared.SessionManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		inventories:    inventories,
		sessionManager: sessions,
		validator:      shared.NewValidator(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	StoreName string `json:"store_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, req) {
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "email already registered")
			return
		}
		h.logger.Error("register user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	// The account's first store is created alongside registration; clients
	// treat it as the active inventory on next login.
	inv, err := h.inventories.Create(r.Context(), user.ID, req.StoreName)
	if err != nil {
		h.logger.Error("create first inventory", slog.Any("error", err), slog.Int64("user_id", user.ID))
		httpx.RespondError(w, err)
		return
	}

	h.establishSession(r, user)
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"user":      userResponse{ID: user.ID, Email: user.Email},
		"inventory": inv,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if !h.validateRequest(w, req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	h.establishSession(r, user)

	inventories, err := h.inventories.List(r.Context(), user.ID)
	if err != nil {
		h.logger.Warn("list inventories on login", slog.Any("error", err))
	}
	if inventories == nil {
		inventories = []inventory.Inventory{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        userResponse{ID: user.ID, Email: user.Email},
		"inventories": inventories,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if sess.ID != "" {
			if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
				h.logger.Warn("remove session", slog.Any("error", err))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
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
	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "account not found")
		return
	}
	inventories, err := h.inventories.List(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list inventories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if inventories == nil {
		inventories = []inventory.Inventory{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        userResponse{ID: user.ID, Email: user.Email},
		"inventories": inventories,
	})
}

func (h *Handler) establishSession(r *http.Request, user *User) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		return
	}
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if sess.ID != "" {
		if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("register session", slog.Any("error", err))
		}
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

// RequireAuth rejects requests without an authenticated session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
