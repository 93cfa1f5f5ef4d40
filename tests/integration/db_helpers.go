package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/repositories"
	"github.com/webfinancas/api/pkg/auth"
)

// TestDB manages the PostgreSQL testcontainer and database handles.
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase starts a PostgreSQL container, runs migrations, and
// returns a ready-to-use TestDB.
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("webfinancas"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         &database.DB{Pool: pool},
	}, nil
}

// runMigrations executes all goose migrations against the container.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// Goose needs a database/sql connection; adapt the pgx pool config.
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool.
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation.
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"feedbacks",
		"transactions",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from the database wrapper.
func InitializeRepositories(db *database.DB) (
	*repositories.UserRepository,
	*repositories.TransactionRepository,
	*repositories.FeedbackRepository,
) {
	return repositories.NewUserRepository(db),
		repositories.NewTransactionRepository(db),
		repositories.NewFeedbackRepository(db)
}

// SeedUser inserts a test user with a hashed password.
func SeedUser(ctx context.Context, pool *pgxpool.Pool, name, email, password string, isAdmin bool) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, is_admin, reset_token, reset_token_expires_at, created_at
	`

	var user models.User
	err = pool.QueryRow(ctx, query, name, email, hashedPassword, isAdmin).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.ResetToken,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedTransaction inserts a transaction owned by the given user.
func SeedTransaction(ctx context.Context, pool *pgxpool.Pool, userID int64, description string, amount float64, kind, category string, date time.Time) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (description, amount, kind, date, category, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, description, amount, kind, date, category, user_id
	`

	var txn models.Transaction
	err := pool.QueryRow(ctx, query, description, amount, kind, date, category, userID).Scan(
		&txn.ID,
		&txn.Description,
		&txn.Amount,
		&txn.Kind,
		&txn.Date,
		&txn.Category,
		&txn.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return &txn, nil
}

// SeedExpiredResetToken sets an already-expired reset token on a user.
func SeedExpiredResetToken(ctx context.Context, pool *pgxpool.Pool, userID int64) (string, error) {
	token, err := auth.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	query := `
		UPDATE users
		SET reset_token = $1, reset_token_expires_at = NOW() - INTERVAL '1 hour'
		WHERE id = $2
	`

	if _, err := pool.Exec(ctx, query, token, userID); err != nil {
		return "", fmt.Errorf("failed to set expired reset token: %w", err)
	}

	return token, nil
}
