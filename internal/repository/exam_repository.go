package repository

import (
	"context"
	"fmt"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, subject_id, lesson_id, topic_id, duration_minutes,
	total_marks, pass_mark, negative_mark, is_deleted, created_at, updated_at`

func scanExam(row pgx.Row, e *model.Exam) error {
	return row.Scan(&e.ID, &e.Title, &e.SubjectID, &e.LessonID, &e.TopicID,
		&e.DurationMinutes, &e.TotalMarks, &e.PassMark, &e.NegativeMark,
		&e.IsDeleted, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves a non-deleted exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1 AND is_deleted = FALSE`, id), e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves all non-deleted exams, newest first.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams WHERE is_deleted = FALSE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := scanExam(rows, &e); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, subject_id, lesson_id, topic_id, duration_minutes,
		                    total_marks, pass_mark, negative_mark)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.SubjectID, e.LessonID, e.TopicID, e.DurationMinutes,
		e.TotalMarks, e.PassMark, e.NegativeMark,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies mutable exam fields and bumps the sync watermark.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, duration_minutes = $2, total_marks = $3, pass_mark = $4,
		     negative_mark = $5, updated_at = NOW()
		 WHERE id = $6 AND is_deleted = FALSE`,
		e.Title, e.DurationMinutes, e.TotalMarks, e.PassMark, e.NegativeMark, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}

// Delete soft-deletes an exam and all its questions in one transaction so a
// single delta sync carries the full set of tombstones.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE exams SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE questions SET is_deleted = TRUE, updated_at = NOW() WHERE exam_id = $1 AND is_deleted = FALSE`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateWithSampledQuestions builds a custom exam by copying n randomly
// sampled questions from the live pool (optionally restricted to topics)
// into the new exam. Exam row and question rows commit atomically — any
// failure rolls the whole operation back, partial exams are never visible.
func (r *ExamRepository) CreateWithSampledQuestions(ctx context.Context, e *model.Exam, topicIDs []int, n int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO exams (title, duration_minutes, total_marks, pass_mark, negative_mark)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.DurationMinutes, e.TotalMarks, e.PassMark, e.NegativeMark,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return 0, fmt.Errorf("insert exam: %w", err)
	}

	sampleQuery := `
		INSERT INTO questions (exam_id, prompt, options, correct_option, explanation)
		SELECT $1, q.prompt, q.options, q.correct_option, q.explanation
		FROM questions q
		JOIN exams src ON src.id = q.exam_id
		WHERE q.is_deleted = FALSE AND src.is_deleted = FALSE`
	args := []any{e.ID}

	if len(topicIDs) > 0 {
		args = append(args, topicIDs)
		sampleQuery += fmt.Sprintf(" AND src.topic_id = ANY($%d)", len(args))
	}

	args = append(args, n)
	sampleQuery += fmt.Sprintf(" ORDER BY random() LIMIT $%d", len(args))

	tag, err := tx.Exec(ctx, sampleQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("sample questions: %w", err)
	}

	sampled := int(tag.RowsAffected())
	if sampled < n {
		// Not enough questions in the pool: abort rather than publish a
		// smaller exam than requested.
		return sampled, ErrRowNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return sampled, nil
}
