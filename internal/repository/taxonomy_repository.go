package repository

import (
	"context"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaxonomyRepository handles subjects, lessons and topics. The three tables
// share the same Deletable shape (is_deleted flag + updated_at watermark),
// so deletes are soft and become sync tombstones.
type TaxonomyRepository struct {
	pool *pgxpool.Pool
}

// NewTaxonomyRepository creates a new TaxonomyRepository.
func NewTaxonomyRepository(pool *pgxpool.Pool) *TaxonomyRepository {
	return &TaxonomyRepository{pool: pool}
}

// ─── Subjects ───────────────────────────────────────────────────────────

func (r *TaxonomyRepository) CreateSubject(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *TaxonomyRepository) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, is_deleted, created_at, updated_at
		 FROM subjects WHERE is_deleted = FALSE ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *TaxonomyRepository) RenameSubject(ctx context.Context, id int, name string) error {
	return r.touch(ctx, `UPDATE subjects SET name = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = FALSE`, name, id)
}

// DeleteSubject soft-deletes a subject. The row stays behind as a tombstone
// and is delivered by the next delta sync.
func (r *TaxonomyRepository) DeleteSubject(ctx context.Context, id int) error {
	return r.touch(ctx, `UPDATE subjects SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
}

// ─── Lessons ────────────────────────────────────────────────────────────

func (r *TaxonomyRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (subject_id, name) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		l.SubjectID, l.Name).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *TaxonomyRepository) ListLessons(ctx context.Context, subjectID int) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject_id, name, is_deleted, created_at, updated_at
		 FROM lessons WHERE subject_id = $1 AND is_deleted = FALSE ORDER BY name ASC`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.SubjectID, &l.Name, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *TaxonomyRepository) RenameLesson(ctx context.Context, id int, name string) error {
	return r.touch(ctx, `UPDATE lessons SET name = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = FALSE`, name, id)
}

func (r *TaxonomyRepository) DeleteLesson(ctx context.Context, id int) error {
	return r.touch(ctx, `UPDATE lessons SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
}

// ─── Topics ─────────────────────────────────────────────────────────────

func (r *TaxonomyRepository) CreateTopic(ctx context.Context, t *model.Topic) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO topics (lesson_id, name) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		t.LessonID, t.Name).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaxonomyRepository) ListTopics(ctx context.Context, lessonID int) ([]model.Topic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lesson_id, name, is_deleted, created_at, updated_at
		 FROM topics WHERE lesson_id = $1 AND is_deleted = FALSE ORDER BY name ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.LessonID, &t.Name, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TaxonomyRepository) RenameTopic(ctx context.Context, id int, name string) error {
	return r.touch(ctx, `UPDATE topics SET name = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = FALSE`, name, id)
}

func (r *TaxonomyRepository) DeleteTopic(ctx context.Context, id int) error {
	return r.touch(ctx, `UPDATE topics SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
}

// touch runs a single-row mutation and maps "no row touched" to ErrRowNotFound.
func (r *TaxonomyRepository) touch(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}
