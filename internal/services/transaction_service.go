package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TransactionRepository defines the persistence operations the ledger needs.
type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	Update(ctx context.Context, id, userID int64, t *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, filter repositories.TransactionFilter, limit, offset int) ([]*models.Transaction, int, error)
	Summary(ctx context.Context, userID int64) (*models.Summary, error)
	SummaryByPeriod(ctx context.Context, userID int64, from, to time.Time) (*models.Summary, error)
	SpendingByCategory(ctx context.Context, userID int64, from, to *time.Time) ([]*models.CategorySpending, error)
}

// TransactionInput carries the writable fields of a transaction. Owner is
// never part of the input; it always comes from the authenticated session.
type TransactionInput struct {
	Description string
	Amount      float64
	Kind        string
	Date        time.Time
	Category    string
}

// ListOptions are the pagination and filter knobs of a ledger listing.
type ListOptions struct {
	Page     int
	Limit    int
	Kind     string
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// FinancialSummary is a Summary with the derived balance and savings rate.
type FinancialSummary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
	SavingsRate  float64
}

// TransactionService implements the ledger and aggregation operations.
// Every operation is scoped to the owning user.
type TransactionService struct {
	repo   TransactionRepository
	logger *slog.Logger
}

func NewTransactionService(repo TransactionRepository, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		logger: logger,
	}
}

func validateInput(in TransactionInput) error {
	if in.Description == "" || in.Category == "" || in.Date.IsZero() {
		return models.ErrBadRequest
	}
	if !models.ValidKind(in.Kind) {
		return models.ErrBadRequest
	}
	// Amounts are unsigned; zero and negative values are rejected on both
	// create and update.
	if in.Amount <= 0 {
		return models.ErrBadRequest
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, ownerID int64, in TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, &models.Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Date:        in.Date,
		Category:    in.Category,
		UserID:      ownerID,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to create transaction", slog.Int64("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("transaction created", slog.Int64("transaction_id", t.ID), slog.Int64("user_id", ownerID))
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, ownerID, id int64, in TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	t, err := s.repo.Update(ctx, id, ownerID, &models.Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Date:        in.Date,
		Category:    in.Category,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update transaction", slog.Int64("transaction_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, ownerID, id int64) error {
	err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete transaction", slog.Int64("transaction_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// List returns one page of the owner's ledger. Page and limit fall back to
// their defaults when absent or out of range; totalPages is
// ceil(totalItems/limit), which makes an empty result zero pages.
func (s *TransactionService) List(ctx context.Context, ownerID int64, opts ListOptions) (*models.TransactionPage, error) {
	page := opts.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	offset := (page - 1) * limit

	filter := repositories.TransactionFilter{
		UserID:   ownerID,
		Kind:     opts.Kind,
		Category: opts.Category,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
	}

	items, totalItems, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list transactions", slog.Int64("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	totalPages := (totalItems + limit - 1) / limit

	return &models.TransactionPage{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
	}, nil
}

// SavingsRate derives the savings rate from aggregated totals. A negative
// rate is reported as zero: spending more than you earn means no savings,
// not negative savings.
func SavingsRate(totalIncome, totalExpense float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	rate := (totalIncome - totalExpense) / totalIncome * 100
	if rate < 0 {
		return 0
	}
	return rate
}

func summarize(s *models.Summary) *FinancialSummary {
	return &FinancialSummary{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.TotalIncome - s.TotalExpense,
		SavingsRate:  SavingsRate(s.TotalIncome, s.TotalExpense),
	}
}

func (s *TransactionService) SummaryAllTime(ctx context.Context, ownerID int64) (*FinancialSummary, error) {
	summary, err := s.repo.Summary(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to aggregate summary", slog.Int64("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return summarize(summary), nil
}

// SummaryByPeriod requires both bounds of the inclusive date range.
func (s *TransactionService) SummaryByPeriod(ctx context.Context, ownerID int64, from, to *time.Time) (*FinancialSummary, error) {
	if from == nil || to == nil {
		return nil, models.ErrBadRequest
	}

	summary, err := s.repo.SummaryByPeriod(ctx, ownerID, *from, *to)
	if err != nil {
		s.logger.Error("failed to aggregate period summary", slog.Int64("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return summarize(summary), nil
}

// SpendingByCategory ignores the date range unless both bounds are given.
func (s *TransactionService) SpendingByCategory(ctx context.Context, ownerID int64, from, to *time.Time) ([]*models.CategorySpending, error) {
	if from == nil || to == nil {
		from, to = nil, nil
	}

	spending, err := s.repo.SpendingByCategory(ctx, ownerID, from, to)
	if err != nil {
		s.logger.Error("failed to aggregate spending by category", slog.Int64("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return spending, nil
}
