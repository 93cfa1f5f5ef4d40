package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/moderation"
)

// FeedbackRepository defines the persistence operations of the feedback board.
type FeedbackRepository interface {
	List(ctx context.Context) ([]*models.Feedback, error)
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Feedback, error)
}

// FeedbackService implements the feedback board: open submission, admin-only
// status transitions.
type FeedbackService struct {
	repo   FeedbackRepository
	users  UserRepository
	logger *slog.Logger
}

func NewFeedbackService(repo FeedbackRepository, users UserRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func (s *FeedbackService) List(ctx context.Context) ([]*models.Feedback, error) {
	feedbacks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list feedbacks", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return feedbacks, nil
}

// Create submits new feedback. Title and body must pass the profanity
// filter; the author name is captured from the submitting user at this
// moment and never re-derived.
func (s *FeedbackService) Create(ctx context.Context, userID int64, title, body string) (*models.Feedback, error) {
	if title == "" || body == "" {
		return nil, models.ErrBadRequest
	}
	if !moderation.Clean(title) || !moderation.Clean(body) {
		return nil, models.ErrContentRejected
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load feedback author", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	feedback, err := s.repo.Create(ctx, &models.Feedback{
		Title:  title,
		Body:   body,
		Author: user.Name,
		Status: models.StatusReviewing,
		UserID: userID,
	})
	if err != nil {
		s.logger.Error("failed to create feedback", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("feedback created", slog.Int64("feedback_id", feedback.ID))
	return feedback, nil
}

// SetStatus transitions a feedback item. The admin gate runs before this;
// here only the enum and existence are checked.
func (s *FeedbackService) SetStatus(ctx context.Context, id int64, status string) (*models.Feedback, error) {
	if !models.ValidFeedbackStatus(status) {
		return nil, models.ErrBadRequest
	}

	feedback, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update feedback status", slog.Int64("feedback_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("feedback status updated", slog.Int64("feedback_id", id), slog.String("status", status))
	return feedback, nil
}
