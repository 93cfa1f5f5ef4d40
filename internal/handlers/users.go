package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/models"
	pkghttp "github.com/webfinancas/api/pkg/http"
)

// AccountService defines the user-facing account operations.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64) error
}

// UserHandler handles account-related HTTP requests
type UserHandler struct {
	service AccountService
}

func NewUserHandler(service AccountService) *UserHandler {
	return &UserHandler{service: service}
}

// resetAckMessage is returned by forgot-password for existing and unknown
// emails alike.
const resetAckMessage = "If an account with this email exists, a password reset link has been sent."

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, token, err := h.service.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteBadRequest(w, "a user with this email already exists")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, AuthResponse{
		Token: token,
		User:  userModelToResponse(user),
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid email or password")
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			pkghttp.WriteBadRequest(w, "invalid email or password")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  userModelToResponse(user),
	})
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": resetAckMessage})
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, models.ErrInvalidResetToken) {
			pkghttp.WriteBadRequest(w, "invalid or expired reset token")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "password reset successfully"})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, strings.TrimSpace(req.Name), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteBadRequest(w, "this email is already in use by another account")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteBadRequest(w, "current password is incorrect")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "account deleted successfully"})
}
