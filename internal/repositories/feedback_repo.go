package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/models"
)

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(db *database.DB) *FeedbackRepository {
	return &FeedbackRepository{pool: db.Pool}
}

func scanFeedbackRow(scanner rowScanner) (*models.Feedback, error) {
	var f models.Feedback
	err := scanner.Scan(&f.ID, &f.Title, &f.Body, &f.Author, &f.Status, &f.UserID, &f.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &f, nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]*models.Feedback, error) {
	query := `
		SELECT id, title, body, author, status, user_id, created_at
		FROM feedbacks ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedbacks: %w", err)
	}
	defer rows.Close()

	feedbacks := make([]*models.Feedback, 0)
	for rows.Next() {
		f, err := scanFeedbackRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return feedbacks, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query := `
		INSERT INTO feedbacks (title, body, author, status, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, body, author, status, user_id, created_at
	`

	return scanFeedbackRow(r.pool.QueryRow(ctx, query,
		f.Title, f.Body, f.Author, f.Status, f.UserID,
	))
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Feedback, error) {
	query := `
		UPDATE feedbacks SET status = $1
		WHERE id = $2
		RETURNING id, title, body, author, status, user_id, created_at
	`

	return scanFeedbackRow(r.pool.QueryRow(ctx, query, status, id))
}

// DeleteAllFeedbackForUser removes every feedback row owned by userID as part
// of the account-deletion cascade; runs on the caller's transaction.
func DeleteAllFeedbackForUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM feedbacks WHERE user_id = $1`, userID); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}
