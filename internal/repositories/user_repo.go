package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/models"
)

type UserRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db, pool: db.Pool}
}

const userColumns = "id, name, email, password_hash, is_admin, reset_token, reset_token_expires_at, created_at"

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.ResetToken, &user.ResetTokenExpiresAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// GetByEmailExcluding finds a user with the given email other than excludeID.
// Used by profile updates to detect email conflicts.
func (r *UserRepository) GetByEmailExcluding(ctx context.Context, email string, excludeID int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 AND id != $2`, userColumns)
	return scanUserRow(r.pool.QueryRow(ctx, query, email, excludeID))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.IsAdmin,
	))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET name = $1, email = $2
		WHERE id = $3
		RETURNING %s
	`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query, name, email, id))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetResetToken stores a pending reset token and its absolute expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expires_at = $2 WHERE id = $3`,
		token, expiresAt, id,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByResetToken finds the user holding an unexpired reset token.
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE reset_token = $1 AND reset_token_expires_at > NOW()`,
		userColumns,
	)
	return scanUserRow(r.pool.QueryRow(ctx, query, token))
}

// ResetPassword stores the new hash and clears the token and its expiry in a
// single statement so both fields always end up null together.
func (r *UserRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL, reset_token_expires_at = NULL WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearExpiredResetTokens nulls out reset tokens whose expiry has passed.
// Called by the background sweeper.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL
		 WHERE reset_token IS NOT NULL AND reset_token_expires_at <= NOW()`,
	)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id ASC`, userColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) SetAdminStatus(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET is_admin = $1
		WHERE id = $2
		RETURNING %s
	`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query, isAdmin, id))
}

// Delete removes the user and all dependent rows in one transaction.
// The cascade is performed explicitly rather than relying on ON DELETE
// behavior in the schema.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := DeleteAllFeedbackForUser(ctx, tx, id); err != nil {
			return err
		}
		if err := DeleteAllTransactionsForUser(ctx, tx, id); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
