package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Handler manages profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes. The caller mounts these behind the auth
// middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Put("/me", h.update)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), shared.OwnerFromContext(r.Context()))
	if err != nil {
		h.logger.Error("get profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), shared.OwnerFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
