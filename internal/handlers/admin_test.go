package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfinancas/api/internal/handlers"
	"github.com/webfinancas/api/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestAdminListUsers_Success(t *testing.T) {
	mockService := &handlers.MockModerationService{
		ListUsersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				{ID: 1, Name: "Ana", Email: "ana@example.com", IsAdmin: true, CreatedAt: time.Now()},
				{ID: 2, Name: "Bruno", Email: "bruno@example.com", CreatedAt: time.Now()},
			}, nil
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodGet, "/api/admin/users", nil)
	req = handlers.WithAuthContext(req, 1)

	w := httptest.NewRecorder()
	handler.ListUsers(w, req)

	var resp []handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Len(t, resp, 2)
	assert.True(t, resp[0].IsAdmin)
}

func TestSetAdminStatus_Success(t *testing.T) {
	var gotActor, gotTarget int64
	var gotIsAdmin bool
	mockService := &handlers.MockModerationService{
		SetAdminStatusFunc: func(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error) {
			gotActor, gotTarget, gotIsAdmin = actorID, targetID, isAdmin
			return &models.User{ID: targetID, Name: "Bruno", IsAdmin: isAdmin, CreatedAt: time.Now()}, nil
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/admin/users/2/admin-status", handlers.AdminStatusRequest{
		IsAdmin: boolPtr(true),
	})
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "2")

	w := httptest.NewRecorder()
	handler.SetAdminStatus(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(1), gotActor)
	assert.Equal(t, int64(2), gotTarget)
	assert.True(t, gotIsAdmin)
	assert.True(t, resp.IsAdmin)
}

func TestSetAdminStatus_FalseIsValid(t *testing.T) {
	// "isAdmin": false must not be treated as a missing field.
	mockService := &handlers.MockModerationService{
		SetAdminStatusFunc: func(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error) {
			return &models.User{ID: targetID, IsAdmin: isAdmin, CreatedAt: time.Now()}, nil
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/admin/users/2/admin-status", handlers.AdminStatusRequest{
		IsAdmin: boolPtr(false),
	})
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "2")

	w := httptest.NewRecorder()
	handler.SetAdminStatus(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.False(t, resp.IsAdmin)
}

func TestSetAdminStatus_MissingFlag(t *testing.T) {
	handler := handlers.NewAdminHandler(&handlers.MockModerationService{})
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/admin/users/2/admin-status", map[string]string{})
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "2")

	w := httptest.NewRecorder()
	handler.SetAdminStatus(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestSetAdminStatus_SelfTargetRejected(t *testing.T) {
	mockService := &handlers.MockModerationService{
		SetAdminStatusFunc: func(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error) {
			return nil, models.ErrBadRequest
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/admin/users/1/admin-status", handlers.AdminStatusRequest{
		IsAdmin: boolPtr(false),
	})
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "1")

	w := httptest.NewRecorder()
	handler.SetAdminStatus(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestDeleteUser_Success(t *testing.T) {
	var gotTarget int64
	mockService := &handlers.MockModerationService{
		DeleteUserFunc: func(ctx context.Context, actorID, targetID int64) error {
			gotTarget = targetID
			return nil
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodDelete, "/api/admin/users/2", nil)
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "2")

	w := httptest.NewRecorder()
	handler.DeleteUser(w, req)

	var resp map[string]string
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(2), gotTarget)
}

func TestDeleteUser_SelfTargetRejected(t *testing.T) {
	mockService := &handlers.MockModerationService{
		DeleteUserFunc: func(ctx context.Context, actorID, targetID int64) error {
			return models.ErrBadRequest
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodDelete, "/api/admin/users/1", nil)
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "1")

	w := httptest.NewRecorder()
	handler.DeleteUser(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestDeleteUser_NotFound(t *testing.T) {
	mockService := &handlers.MockModerationService{
		DeleteUserFunc: func(ctx context.Context, actorID, targetID int64) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewAdminHandler(mockService)
	req := handlers.NewTestRequest(t, http.MethodDelete, "/api/admin/users/999", nil)
	req = handlers.WithAuthContext(req, 1)
	req = handlers.WithChiURLParam(req, "id", "999")

	w := httptest.NewRecorder()
	handler.DeleteUser(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}
