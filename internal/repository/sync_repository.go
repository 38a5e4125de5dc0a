package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncRepository assembles the delta-sync change set. All entity queries and
// the server_time read run inside one read-only REPEATABLE READ transaction:
// the caller gets a consistent snapshot and a watermark taken from the same
// database clock, or the whole call fails — never a partial change set.
type SyncRepository struct {
	pool *pgxpool.Pool
}

// NewSyncRepository creates a new SyncRepository.
func NewSyncRepository(pool *pgxpool.Pool) *SyncRepository {
	return &SyncRepository{pool: pool}
}

// ChangesSince returns every reference-data row changed since the watermark,
// tombstones included, plus the snapshot's server time. A nil watermark means
// full bootstrap: all live rows, no tombstones.
func (r *SyncRepository) ChangesSince(ctx context.Context, since *time.Time) (*model.SyncResponse, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	resp := &model.SyncResponse{
		Changes: model.SyncChanges{
			Subjects:  []model.Subject{},
			Lessons:   []model.Lesson{},
			Topics:    []model.Topic{},
			Exams:     []model.Exam{},
			Questions: []model.Question{},
		},
	}

	if err := tx.QueryRow(ctx, `SELECT NOW()`).Scan(&resp.ServerTime); err != nil {
		return nil, fmt.Errorf("read server time: %w", err)
	}

	if err := r.collectSubjects(ctx, tx, since, &resp.Changes.Subjects); err != nil {
		return nil, fmt.Errorf("sync subjects: %w", err)
	}
	if err := r.collectLessons(ctx, tx, since, &resp.Changes.Lessons); err != nil {
		return nil, fmt.Errorf("sync lessons: %w", err)
	}
	if err := r.collectTopics(ctx, tx, since, &resp.Changes.Topics); err != nil {
		return nil, fmt.Errorf("sync topics: %w", err)
	}
	if err := r.collectExams(ctx, tx, since, &resp.Changes.Exams); err != nil {
		return nil, fmt.Errorf("sync exams: %w", err)
	}
	if err := r.collectQuestions(ctx, tx, since, &resp.Changes.Questions); err != nil {
		return nil, fmt.Errorf("sync questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return resp, nil
}

// deltaClause builds the WHERE clause for one entity type. Bootstrap mode
// excludes tombstones; delta mode returns everything touched after the
// watermark so soft-deletes propagate.
func deltaClause(since *time.Time) (string, []any) {
	if since == nil {
		return `WHERE is_deleted = FALSE`, nil
	}
	return `WHERE updated_at > $1`, []any{*since}
}

func (r *SyncRepository) collectSubjects(ctx context.Context, tx pgx.Tx, since *time.Time, out *[]model.Subject) error {
	clause, args := deltaClause(since)
	rows, err := tx.Query(ctx,
		`SELECT id, name, is_deleted, created_at, updated_at FROM subjects `+clause+` ORDER BY id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return err
		}
		*out = append(*out, s)
	}
	return rows.Err()
}

func (r *SyncRepository) collectLessons(ctx context.Context, tx pgx.Tx, since *time.Time, out *[]model.Lesson) error {
	clause, args := deltaClause(since)
	rows, err := tx.Query(ctx,
		`SELECT id, subject_id, name, is_deleted, created_at, updated_at FROM lessons `+clause+` ORDER BY id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.SubjectID, &l.Name, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return err
		}
		*out = append(*out, l)
	}
	return rows.Err()
}

func (r *SyncRepository) collectTopics(ctx context.Context, tx pgx.Tx, since *time.Time, out *[]model.Topic) error {
	clause, args := deltaClause(since)
	rows, err := tx.Query(ctx,
		`SELECT id, lesson_id, name, is_deleted, created_at, updated_at FROM topics `+clause+` ORDER BY id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.LessonID, &t.Name, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		*out = append(*out, t)
	}
	return rows.Err()
}

func (r *SyncRepository) collectExams(ctx context.Context, tx pgx.Tx, since *time.Time, out *[]model.Exam) error {
	clause, args := deltaClause(since)
	rows, err := tx.Query(ctx,
		`SELECT `+examColumns+` FROM exams `+clause+` ORDER BY created_at`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Exam
		if err := scanExam(rows, &e); err != nil {
			return err
		}
		*out = append(*out, e)
	}
	return rows.Err()
}

func (r *SyncRepository) collectQuestions(ctx context.Context, tx pgx.Tx, since *time.Time, out *[]model.Question) error {
	clause, args := deltaClause(since)
	rows, err := tx.Query(ctx,
		`SELECT id, exam_id, prompt, options, correct_option, explanation, is_deleted, created_at, updated_at
		 FROM questions `+clause+` ORDER BY created_at`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Prompt, &q.Options, &q.CorrectOption,
			&q.Explanation, &q.IsDeleted, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return err
		}
		*out = append(*out, q)
	}
	return rows.Err()
}
