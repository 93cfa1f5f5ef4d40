package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webfinancas/api/internal/models"
	pkgauth "github.com/webfinancas/api/pkg/auth"
	pkglogger "github.com/webfinancas/api/pkg/logger"
)

// UserRepository defines the ledger's view of user persistence.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailExcluding(ctx context.Context, email string, excludeID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// TokenIssuer issues session tokens for freshly authenticated users.
type TokenIssuer interface {
	Generate(userID int64) (string, error)
}

// UserService implements registration, login and the account lifecycle.
type UserService struct {
	repo       UserRepository
	tokens     TokenIssuer
	email      EmailService
	resetTTL   time.Duration
	logger     *slog.Logger
}

func NewUserService(repo UserRepository, tokens TokenIssuer, email EmailService, resetTTL time.Duration, logger *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		email:    email,
		resetTTL: resetTTL,
		logger:   logger,
	}
}

// Register creates the account, hashes the password and issues a session
// token. The application-level uniqueness check races with concurrent
// registrations; the unique constraint on users.email is the backstop.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing email", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}
	if existing != nil {
		return nil, "", models.ErrConflict
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, "", models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// RequestPasswordReset issues a reset token when the email is registered.
// The caller receives no signal either way; the handler returns the same
// generic acknowledgement regardless.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Unknown email: acknowledge without doing anything.
			return nil
		}
		s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	token, err := pkgauth.GenerateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		s.logger.Error("failed to persist reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	// An email delivery failure must not reveal whether the address exists,
	// so it is logged and swallowed.
	if err := s.email.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		s.logger.Error("failed to send reset email",
			slog.String("email", pkglogger.SanitizedEmail(user.Email)),
			slog.Any("error", err))
	}

	return nil
}

// ResetPassword consumes a pending reset token. The token is single-use:
// the same UPDATE that stores the new hash clears it.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidResetToken
		}
		s.logger.Error("failed to look up reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.ResetPassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("failed to reset password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset completed", slog.Int64("user_id", user.ID))
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// UpdateProfile changes name and email, rejecting an email already owned
// by a different user.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name, email string) (*models.User, error) {
	other, err := s.repo.GetByEmailExcluding(ctx, email, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check email conflict", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if other != nil {
		return nil, models.ErrConflict
	}

	user, err := s.repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update profile", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.Int64("user_id", userID))
	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.Int64("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return models.ErrInvalidCredentials
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("failed to change password", slog.Int64("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.Int64("user_id", userID))
	return nil
}

// DeleteAccount removes the user with its transactions and feedback.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete account", slog.Int64("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account deleted", slog.Int64("user_id", userID))
	return nil
}
