package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webfinancas/api/internal/models"
)

type stubUserFetcher struct {
	user *models.User
	err  error
}

func (s *stubUserFetcher) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func okHandler(t *testing.T, wantUserID int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Generate(42)
	require.NoError(t, err)

	handler := RequireAuth(tm)(okHandler(t, 42))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_LowercaseBearer(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Generate(42)
	require.NoError(t, err)

	handler := RequireAuth(tm)(okHandler(t, 42))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	handler := RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	handler := RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	for _, header := range []string{"Bearer", "Basic dXNlcjpwYXNz", "justonetoken"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header: %q", header)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -time.Minute)
	token, err := expired.Generate(42)
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, time.Hour)
	handler := RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	fetcher := &stubUserFetcher{user: &models.User{ID: 1, IsAdmin: true}}

	handler := RequireAdmin(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	fetcher := &stubUserFetcher{user: &models.User{ID: 1, IsAdmin: false}}

	handler := RequireAdmin(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a non-admin")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_NoAuthContext(t *testing.T) {
	fetcher := &stubUserFetcher{user: &models.User{ID: 1, IsAdmin: true}}

	handler := RequireAdmin(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an authenticated user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_UserGone(t *testing.T) {
	// Token still valid but the account was deleted in the meantime.
	fetcher := &stubUserFetcher{err: models.ErrNotFound}

	handler := RequireAdmin(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a deleted user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
