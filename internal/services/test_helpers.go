package services

import (
	"context"
	"sync"
	"time"

	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/repositories"
	pkgauth "github.com/webfinancas/api/pkg/auth"
)

// MockUserRepository implements UserRepository and AdminUserRepository for testing
type MockUserRepository struct {
	GetByIDFunc             func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc          func(ctx context.Context, email string) (*models.User, error)
	GetByEmailExcludingFunc func(ctx context.Context, email string, excludeID int64) (*models.User, error)
	CreateFunc              func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfileFunc       func(ctx context.Context, id int64, name, email string) (*models.User, error)
	UpdatePasswordFunc      func(ctx context.Context, id int64, passwordHash string) error
	SetResetTokenFunc       func(ctx context.Context, id int64, token string, expiresAt time.Time) error
	GetByResetTokenFunc     func(ctx context.Context, token string) (*models.User, error)
	ResetPasswordFunc       func(ctx context.Context, id int64, passwordHash string) error
	ListFunc                func(ctx context.Context) ([]*models.User, error)
	SetAdminStatusFunc      func(ctx context.Context, id int64, isAdmin bool) (*models.User, error)
	DeleteFunc              func(ctx context.Context, id int64) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmailExcluding(ctx context.Context, email string, excludeID int64) (*models.User, error) {
	if m.GetByEmailExcludingFunc != nil {
		return m.GetByEmailExcludingFunc(ctx, email, excludeID)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, name, email string) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, name, email)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, token, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByResetTokenFunc != nil {
		return m.GetByResetTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) SetAdminStatus(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
	if m.SetAdminStatusFunc != nil {
		return m.SetAdminStatusFunc(ctx, id, isAdmin)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTransactionRepository implements TransactionRepository for testing
type MockTransactionRepository struct {
	CreateFunc             func(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	UpdateFunc             func(ctx context.Context, id, userID int64, t *models.Transaction) (*models.Transaction, error)
	DeleteFunc             func(ctx context.Context, id, userID int64) error
	ListFunc               func(ctx context.Context, filter repositories.TransactionFilter, limit, offset int) ([]*models.Transaction, int, error)
	SummaryFunc            func(ctx context.Context, userID int64) (*models.Summary, error)
	SummaryByPeriodFunc    func(ctx context.Context, userID int64, from, to time.Time) (*models.Summary, error)
	SpendingByCategoryFunc func(ctx context.Context, userID int64, from, to *time.Time) ([]*models.CategorySpending, error)
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTransactionRepository) Update(ctx context.Context, id, userID int64, t *models.Transaction) (*models.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, userID, t)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, userID)
	}
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter repositories.TransactionFilter, limit, offset int) ([]*models.Transaction, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	return []*models.Transaction{}, 0, nil
}

func (m *MockTransactionRepository) Summary(ctx context.Context, userID int64) (*models.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, userID)
	}
	return &models.Summary{}, nil
}

func (m *MockTransactionRepository) SummaryByPeriod(ctx context.Context, userID int64, from, to time.Time) (*models.Summary, error) {
	if m.SummaryByPeriodFunc != nil {
		return m.SummaryByPeriodFunc(ctx, userID, from, to)
	}
	return &models.Summary{}, nil
}

func (m *MockTransactionRepository) SpendingByCategory(ctx context.Context, userID int64, from, to *time.Time) ([]*models.CategorySpending, error) {
	if m.SpendingByCategoryFunc != nil {
		return m.SpendingByCategoryFunc(ctx, userID, from, to)
	}
	return []*models.CategorySpending{}, nil
}

// MockFeedbackRepository implements FeedbackRepository for testing
type MockFeedbackRepository struct {
	ListFunc         func(ctx context.Context) ([]*models.Feedback, error)
	CreateFunc       func(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status string) (*models.Feedback, error)
}

func (m *MockFeedbackRepository) List(ctx context.Context) ([]*models.Feedback, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Feedback{}, nil
}

func (m *MockFeedbackRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, f)
	}
	return nil, models.ErrInternalServer
}

func (m *MockFeedbackRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Feedback, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrInternalServer
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateFunc func(userID int64) (string, error)
}

func (m *MockTokenIssuer) Generate(userID int64) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID)
	}
	return "test-session-token", nil
}

// CapturingEmailService records reset emails instead of sending them
type CapturingEmailService struct {
	mu     sync.Mutex
	Emails []string
	Tokens []string
	Err    error
}

func (m *CapturingEmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Emails = append(m.Emails, email)
	m.Tokens = append(m.Tokens, token)
	return nil
}

// TestUserPassword is the plaintext behind every NewTestUser hash
const TestUserPassword = "CorrectPassword123!"

var (
	testHashOnce sync.Once
	testHash     string
)

// NewTestUser creates a user whose password is TestUserPassword
func NewTestUser(id int64, email, name string) *models.User {
	testHashOnce.Do(func() {
		testHash, _ = pkgauth.HashPassword(TestUserPassword)
	})
	return &models.User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: testHash,
		CreatedAt:    time.Now(),
	}
}
