package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/webfinancas/api/internal/models"
)

// AdminUserRepository is the moderation view of user persistence.
type AdminUserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	SetAdminStatus(ctx context.Context, id int64, isAdmin bool) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// AdminService implements user moderation. Admins cannot target their own
// account through these operations; self-service changes use the regular
// account paths.
type AdminService struct {
	repo   AdminUserRepository
	logger *slog.Logger
}

func NewAdminService(repo AdminUserRepository, logger *slog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// SetAdminStatus toggles another user's admin flag. Self-demotion through
// this path is rejected.
func (s *AdminService) SetAdminStatus(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error) {
	if actorID == targetID {
		return nil, models.ErrBadRequest
	}

	user, err := s.repo.SetAdminStatus(ctx, targetID, isAdmin)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to set admin status", slog.Int64("target_id", targetID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("admin status updated",
		slog.Int64("actor_id", actorID),
		slog.Int64("target_id", targetID),
		slog.Bool("is_admin", isAdmin))
	return user, nil
}

// DeleteUser removes another user's account with its data. Admins delete
// their own account through the regular profile route instead.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return models.ErrBadRequest
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.Int64("target_id", targetID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted by admin",
		slog.Int64("actor_id", actorID),
		slog.Int64("target_id", targetID))
	return nil
}
