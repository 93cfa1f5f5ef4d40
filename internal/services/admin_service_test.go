package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webfinancas/api/internal/models"
)

func TestAdminService_ListUsers_Success(t *testing.T) {
	mockRepo := &MockUserRepository{
		ListFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				NewTestUser(1, "one@example.com", "One"),
				NewTestUser(2, "two@example.com", "Two"),
			}, nil
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	users, err := svc.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminService_SetAdminStatus_Success(t *testing.T) {
	mockRepo := &MockUserRepository{
		SetAdminStatusFunc: func(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
			u := NewTestUser(id, "target@example.com", "Target")
			u.IsAdmin = isAdmin
			return u, nil
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	user, err := svc.SetAdminStatus(context.Background(), 1, 2, true)

	assert.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestAdminService_SetAdminStatus_SelfRejected(t *testing.T) {
	mockRepo := &MockUserRepository{
		SetAdminStatusFunc: func(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
			t.Fatal("self-targeting must never reach the repository")
			return nil, nil
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	user, err := svc.SetAdminStatus(context.Background(), 1, 1, false)

	assert.Nil(t, user)
	assert.Equal(t, models.ErrBadRequest, err)
}

func TestAdminService_SetAdminStatus_TargetNotFound(t *testing.T) {
	mockRepo := &MockUserRepository{
		SetAdminStatusFunc: func(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	user, err := svc.SetAdminStatus(context.Background(), 1, 999, true)

	assert.Nil(t, user)
	assert.Equal(t, models.ErrNotFound, err)
}

func TestAdminService_DeleteUser_Success(t *testing.T) {
	var deletedID int64
	mockRepo := &MockUserRepository{
		DeleteFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	err := svc.DeleteUser(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), deletedID)
}

func TestAdminService_DeleteUser_SelfRejected(t *testing.T) {
	mockRepo := &MockUserRepository{
		DeleteFunc: func(ctx context.Context, id int64) error {
			t.Fatal("self-deletion must never reach the repository")
			return nil
		},
	}

	svc := NewAdminService(mockRepo, slog.Default())

	err := svc.DeleteUser(context.Background(), 1, 1)

	assert.Equal(t, models.ErrBadRequest, err)
}
