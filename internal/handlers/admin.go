package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/models"
	pkghttp "github.com/webfinancas/api/pkg/http"
)

// ModerationService defines the admin-only user operations.
type ModerationService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetAdminStatus(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID int64) error
}

type AdminHandler struct {
	service ModerationService
}

func NewAdminHandler(service ModerationService) *AdminHandler {
	return &AdminHandler{service: service}
}

// AdminStatusRequest uses a pointer so "false" and "missing" are
// distinguishable.
type AdminStatusRequest struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	response := make([]*UserResponse, len(users))
	for i, user := range users {
		response[i] = userModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

func (h *AdminHandler) SetAdminStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid user id")
		return
	}

	var req AdminStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "isAdmin must be a boolean")
		return
	}

	user, err := h.service.SetAdminStatus(r.Context(), actorID, targetID, *req.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "you cannot change your own admin status")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "admins cannot delete their own account through this route")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "user account deleted successfully"})
}
