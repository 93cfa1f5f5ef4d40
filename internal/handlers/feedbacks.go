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

// FeedbackBoardService defines the feedback operations exposed over HTTP.
type FeedbackBoardService interface {
	List(ctx context.Context) ([]*models.Feedback, error)
	Create(ctx context.Context, userID int64, title, body string) (*models.Feedback, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.Feedback, error)
}

type FeedbackHandler struct {
	service FeedbackBoardService
}

func NewFeedbackHandler(service FeedbackBoardService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type CreateFeedbackRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type FeedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewing in_progress shipped"`
}

type FeedbackResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func feedbackModelToResponse(f *models.Feedback) *FeedbackResponse {
	return &FeedbackResponse{
		ID:        f.ID,
		Title:     f.Title,
		Body:      f.Body,
		Author:    f.Author,
		Status:    f.Status,
		CreatedAt: f.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.service.List(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	response := make([]*FeedbackResponse, len(feedbacks))
	for i, f := range feedbacks {
		response[i] = feedbackModelToResponse(f)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	feedback, err := h.service.Create(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "title and body are required")
		case errors.Is(err, models.ErrContentRejected):
			pkghttp.WriteBadRequest(w, "feedback contains inappropriate language")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, feedbackModelToResponse(feedback))
}

// SetStatus is admin-only; the route wires the admin gate in front of it.
func (h *FeedbackHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid feedback id")
		return
	}

	var req FeedbackStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	feedback, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "status must be one of: reviewing, in_progress, shipped")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "feedback not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, feedbackModelToResponse(feedback))
}
