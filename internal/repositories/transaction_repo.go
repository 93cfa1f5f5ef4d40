package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/models"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{pool: db.Pool}
}

// TransactionFilter describes a conjunctive filter over one user's ledger.
// The owner is always applied; optional predicates are added only when set.
// The date range is applied only when BOTH bounds are present; a single
// bound is ignored, matching the established listing behavior.
type TransactionFilter struct {
	UserID   int64
	Kind     string // exact match when non-empty
	Category string // case-insensitive substring match when non-empty
	DateFrom *time.Time
	DateTo   *time.Time
}

// build translates the filter into a WHERE clause and its parameters.
// Predicates are accumulated as (clause, param) pairs; user input is never
// concatenated into the SQL text.
func (f *TransactionFilter) build() (string, []interface{}) {
	clauses := []string{"user_id = $1"}
	params := []interface{}{f.UserID}
	idx := 2

	if models.ValidKind(f.Kind) {
		clauses = append(clauses, fmt.Sprintf("kind = $%d", idx))
		params = append(params, f.Kind)
		idx++
	}

	if f.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category ILIKE $%d", idx))
		params = append(params, "%"+f.Category+"%")
		idx++
	}

	if f.DateFrom != nil && f.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("date BETWEEN $%d AND $%d", idx, idx+1))
		params = append(params, *f.DateFrom, *f.DateTo)
	}

	return "WHERE " + strings.Join(clauses, " AND "), params
}

func scanTransactionRow(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Description, &t.Amount, &t.Kind, &t.Date, &t.Category, &t.UserID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (description, amount, kind, date, category, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, description, amount, kind, date, category, user_id
	`

	return scanTransactionRow(r.pool.QueryRow(ctx, query,
		t.Description, t.Amount, t.Kind, t.Date, t.Category, t.UserID,
	))
}

func (r *TransactionRepository) Update(ctx context.Context, id, userID int64, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET description = $1, amount = $2, kind = $3, category = $4, date = $5
		WHERE id = $6 AND user_id = $7
		RETURNING id, description, amount, kind, date, category, user_id
	`

	return scanTransactionRow(r.pool.QueryRow(ctx, query,
		t.Description, t.Amount, t.Kind, t.Category, t.Date, id, userID,
	))
}

// Delete removes the row only when it belongs to userID. A missing row and a
// row owned by someone else are both reported as ErrNotFound.
func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List returns one page of the filtered ledger, most recent date first with
// insertion order breaking same-day ties.
func (r *TransactionRepository) List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*models.Transaction, int, error) {
	whereSQL, params := filter.build()

	var totalItems int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", whereSQL)
	if err := r.pool.QueryRow(ctx, countQuery, params...).Scan(&totalItems); err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	query := fmt.Sprintf(`
		SELECT id, description, amount, kind, date, category, user_id
		FROM transactions
		%s
		ORDER BY date DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, whereSQL, len(params)+1, len(params)+2)
	params = append(params, limit, offset)

	rows, err := r.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return transactions, totalItems, nil
}

// Summary sums amounts per kind for one user, zero when no rows match.
func (r *TransactionRepository) Summary(ctx context.Context, userID int64) (*models.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount ELSE 0 END), 0) AS total_expense
		FROM transactions
		WHERE user_id = $1
	`

	var s models.Summary
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&s.TotalIncome, &s.TotalExpense); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

// SummaryByPeriod is Summary restricted to an inclusive date range.
func (r *TransactionRepository) SummaryByPeriod(ctx context.Context, userID int64, from, to time.Time) (*models.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount ELSE 0 END), 0) AS total_expense
		FROM transactions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
	`

	var s models.Summary
	if err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&s.TotalIncome, &s.TotalExpense); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

// SpendingByCategory groups expense rows by category, highest total first.
// When from/to are nil the breakdown covers the whole ledger.
func (r *TransactionRepository) SpendingByCategory(ctx context.Context, userID int64, from, to *time.Time) ([]*models.CategorySpending, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND kind = 'expense'
	`
	params := []interface{}{userID}

	if from != nil && to != nil {
		query += " AND date BETWEEN $2 AND $3"
		params = append(params, *from, *to)
	}

	query += " GROUP BY category ORDER BY total DESC"

	rows, err := r.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending by category: %w", err)
	}
	defer rows.Close()

	spending := make([]*models.CategorySpending, 0)
	for rows.Next() {
		var cs models.CategorySpending
		if err := rows.Scan(&cs.Category, &cs.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category spending: %w", err)
		}
		spending = append(spending, &cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return spending, nil
}

// DeleteAllTransactionsForUser removes every transaction owned by userID. Used by the
// account-deletion cascade; runs on the caller's transaction.
func DeleteAllTransactionsForUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}
