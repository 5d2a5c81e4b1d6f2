package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizbox-backend/internal/models"
)

// ResultRepo is append-only: results are never updated or deleted directly,
// only removed by user/quiz cascade.
type ResultRepo struct {
	pool *pgxpool.Pool
}

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

func (r *ResultRepo) Create(ctx context.Context, result *models.Result) error {
	feedbackBytes, err := json.Marshal(result.Feedback)
	if err != nil {
		return err
	}
	if result.Feedback == nil {
		feedbackBytes = []byte("[]")
	}

	query := `INSERT INTO results (user_id, quiz_id, score, feedback)
		VALUES ($1, $2, $3, $4) RETURNING id, submitted_at`

	return r.pool.QueryRow(ctx, query,
		result.UserID, result.QuizID, result.Score, feedbackBytes,
	).Scan(&result.ID, &result.SubmittedAt)
}

func (r *ResultRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Result, error) {
	query := `SELECT id, user_id, quiz_id, score, feedback, submitted_at
		FROM results WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (r *ResultRepo) ListByQuiz(ctx context.Context, quizID int64) ([]models.Result, error) {
	query := `SELECT id, user_id, quiz_id, score, feedback, submitted_at
		FROM results WHERE quiz_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]models.Result, error) {
	results := make([]models.Result, 0)
	for rows.Next() {
		var res models.Result
		var feedbackBytes []byte
		err := rows.Scan(&res.ID, &res.UserID, &res.QuizID, &res.Score, &feedbackBytes, &res.SubmittedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(feedbackBytes, &res.Feedback); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
