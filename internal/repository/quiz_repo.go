package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"quizbox-backend/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

func (r *QuizRepo) Create(ctx context.Context, q *models.Quiz) error {
	query := `INSERT INTO quizzes (title, description, duration)
		VALUES ($1, $2, $3) RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, q.Title, q.Description, q.Duration).
		Scan(&q.ID, &q.CreatedAt)
}

func (r *QuizRepo) GetByID(ctx context.Context, id int64) (*models.Quiz, error) {
	q := &models.Quiz{}
	query := `SELECT id, title, description, duration, created_at FROM quizzes WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Title, &q.Description, &q.Duration, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuizRepo) List(ctx context.Context) ([]models.Quiz, error) {
	query := `SELECT id, title, description, duration, created_at FROM quizzes ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]models.Quiz, 0)
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Duration, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepo) Update(ctx context.Context, q *models.Quiz) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE quizzes SET title = $1, description = $2, duration = $3 WHERE id = $4",
		q.Title, q.Description, q.Duration, q.ID,
	)
	return err
}

// Delete removes the quiz; its questions and results go with it via
// ON DELETE CASCADE.
func (r *QuizRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM quizzes WHERE id = $1", id)
	return err
}

// Questions

// ListQuestions returns the quiz's questions in id-ascending order. Grading
// depends on this order being stable.
func (r *QuizRepo) ListQuestions(ctx context.Context, quizID int64) ([]models.Question, error) {
	query := `SELECT id, quiz_id, text, option_a, option_b, option_c, option_d, correct_option
		FROM questions WHERE quiz_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		var q models.Question
		err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuizRepo) CreateQuestion(ctx context.Context, q *models.Question) error {
	query := `INSERT INTO questions (quiz_id, text, option_a, option_b, option_c, option_d, correct_option)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.pool.QueryRow(ctx, query,
		q.QuizID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption,
	).Scan(&q.ID)
}

func (r *QuizRepo) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	q := &models.Question{}
	query := `SELECT id, quiz_id, text, option_a, option_b, option_c, option_d, correct_option
		FROM questions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.QuizID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuizRepo) UpdateQuestion(ctx context.Context, q *models.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET text = $1, option_a = $2, option_b = $3, option_c = $4,
		 option_d = $5, correct_option = $6 WHERE id = $7`,
		q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.ID,
	)
	return err
}

func (r *QuizRepo) DeleteQuestion(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	return err
}
