package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/services"
	pkghttp "github.com/webfinancas/api/pkg/http"
)

// NewTestRequest creates an HTTP request with a JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext marks the request as authenticated for the given user
func WithAuthContext(req *http.Request, userID int64) *http.Request {
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

// WithChiURLParam injects a chi route parameter into the request context
func WithChiURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks status and decodes the JSON body into target
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that the response is a well-formed error
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAccountService implements AccountService for testing
type MockAccountService struct {
	RegisterFunc             func(ctx context.Context, name, email, password string) (*models.User, string, error)
	LoginFunc                func(ctx context.Context, email, password string) (*models.User, string, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	GetProfileFunc           func(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfileFunc        func(ctx context.Context, userID int64, name, email string) (*models.User, error)
	ChangePasswordFunc       func(ctx context.Context, userID int64, oldPassword, newPassword string) error
	DeleteAccountFunc        func(ctx context.Context, userID int64) error
}

func (m *MockAccountService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if m.RegisterFunc == nil {
		return nil, "", models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.LoginFunc == nil {
		return nil, "", models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc == nil {
		return nil
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrInvalidResetToken
	}
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

func (m *MockAccountService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	if m.GetProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProfileFunc(ctx, userID)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, userID int64, name, email string) (*models.User, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpdateProfileFunc(ctx, userID, name, email)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return models.ErrInternalServer
	}
	return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID int64) error {
	if m.DeleteAccountFunc == nil {
		return models.ErrInternalServer
	}
	return m.DeleteAccountFunc(ctx, userID)
}

// MockLedgerService implements LedgerService for testing
type MockLedgerService struct {
	CreateFunc             func(ctx context.Context, ownerID int64, in services.TransactionInput) (*models.Transaction, error)
	UpdateFunc             func(ctx context.Context, ownerID, id int64, in services.TransactionInput) (*models.Transaction, error)
	DeleteFunc             func(ctx context.Context, ownerID, id int64) error
	ListFunc               func(ctx context.Context, ownerID int64, opts services.ListOptions) (*models.TransactionPage, error)
	SummaryAllTimeFunc     func(ctx context.Context, ownerID int64) (*services.FinancialSummary, error)
	SummaryByPeriodFunc    func(ctx context.Context, ownerID int64, from, to *time.Time) (*services.FinancialSummary, error)
	SpendingByCategoryFunc func(ctx context.Context, ownerID int64, from, to *time.Time) ([]*models.CategorySpending, error)
}

func (m *MockLedgerService) Create(ctx context.Context, ownerID int64, in services.TransactionInput) (*models.Transaction, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, ownerID, in)
}

func (m *MockLedgerService) Update(ctx context.Context, ownerID, id int64, in services.TransactionInput) (*models.Transaction, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpdateFunc(ctx, ownerID, id, in)
}

func (m *MockLedgerService) Delete(ctx context.Context, ownerID, id int64) error {
	if m.DeleteFunc == nil {
		return models.ErrInternalServer
	}
	return m.DeleteFunc(ctx, ownerID, id)
}

func (m *MockLedgerService) List(ctx context.Context, ownerID int64, opts services.ListOptions) (*models.TransactionPage, error) {
	if m.ListFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.ListFunc(ctx, ownerID, opts)
}

func (m *MockLedgerService) SummaryAllTime(ctx context.Context, ownerID int64) (*services.FinancialSummary, error) {
	if m.SummaryAllTimeFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SummaryAllTimeFunc(ctx, ownerID)
}

func (m *MockLedgerService) SummaryByPeriod(ctx context.Context, ownerID int64, from, to *time.Time) (*services.FinancialSummary, error) {
	if m.SummaryByPeriodFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SummaryByPeriodFunc(ctx, ownerID, from, to)
}

func (m *MockLedgerService) SpendingByCategory(ctx context.Context, ownerID int64, from, to *time.Time) ([]*models.CategorySpending, error) {
	if m.SpendingByCategoryFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SpendingByCategoryFunc(ctx, ownerID, from, to)
}

// MockFeedbackBoardService implements FeedbackBoardService for testing
type MockFeedbackBoardService struct {
	ListFunc      func(ctx context.Context) ([]*models.Feedback, error)
	CreateFunc    func(ctx context.Context, userID int64, title, body string) (*models.Feedback, error)
	SetStatusFunc func(ctx context.Context, id int64, status string) (*models.Feedback, error)
}

func (m *MockFeedbackBoardService) List(ctx context.Context) ([]*models.Feedback, error) {
	if m.ListFunc == nil {
		return []*models.Feedback{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *MockFeedbackBoardService) Create(ctx context.Context, userID int64, title, body string) (*models.Feedback, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, userID, title, body)
}

func (m *MockFeedbackBoardService) SetStatus(ctx context.Context, id int64, status string) (*models.Feedback, error) {
	if m.SetStatusFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SetStatusFunc(ctx, id, status)
}

// MockModerationService implements ModerationService for testing
type MockModerationService struct {
	ListUsersFunc      func(ctx context.Context) ([]*models.User, error)
	SetAdminStatusFunc func(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error)
	DeleteUserFunc     func(ctx context.Context, actorID, targetID int64) error
}

func (m *MockModerationService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockModerationService) SetAdminStatus(ctx context.Context, actorID, targetID int64, isAdmin bool) (*models.User, error) {
	if m.SetAdminStatusFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SetAdminStatusFunc(ctx, actorID, targetID, isAdmin)
}

func (m *MockModerationService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if m.DeleteUserFunc == nil {
		return models.ErrInternalServer
	}
	return m.DeleteUserFunc(ctx, actorID, targetID)
}
