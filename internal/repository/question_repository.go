package repository

import (
	"context"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all live questions for a given exam.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, prompt, options, correct_option, explanation, is_deleted, created_at, updated_at
		 FROM questions WHERE exam_id = $1 AND is_deleted = FALSE
		 ORDER BY created_at`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Prompt, &q.Options, &q.CorrectOption,
			&q.Explanation, &q.IsDeleted, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// AnswerKey loads the canonical (question_id → correct_option) mapping for
// an exam's current live question set. Fetched fresh at grading time — the
// client copy is never trusted.
func (r *QuestionRepository) AnswerKey(ctx context.Context, examID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, correct_option FROM questions
		 WHERE exam_id = $1 AND is_deleted = FALSE`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	key := make(map[string]string)
	for rows.Next() {
		var id uuid.UUID
		var correct string
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id.String()] = correct
	}
	return key, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, prompt, options, correct_option, explanation)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.ExamID, q.Prompt, q.Options, q.CorrectOption, q.Explanation,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update edits a question in place and bumps the sync watermark. Empty
// fields keep their current value (COALESCE/NULLIF at the SQL level).
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET prompt = COALESCE(NULLIF($1, ''), prompt),
		     options = COALESCE($2, options),
		     correct_option = COALESCE(NULLIF($3, ''), correct_option),
		     explanation = COALESCE($4, explanation),
		     updated_at = NOW()
		 WHERE id = $5 AND is_deleted = FALSE`,
		q.Prompt, q.Options, q.CorrectOption, q.Explanation, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}

// Delete soft-deletes a question (sync tombstone).
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}
