package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/examtrack/examtrack-backend/internal/model"
)

// ApplyChanges merges one pull's change set into the local replica, all in
// one transaction. Application is idempotent: live rows overwrite by primary
// key, tombstones delete the local row. Replaying the same change set (the
// at-least-once delivery case) converges to the same state.
func (l *Ledger) ApplyChanges(ctx context.Context, changes *model.SyncChanges) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, s := range changes.Subjects {
		if s.IsDeleted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, s.ID); err != nil {
				return fmt.Errorf("delete subject %d: %w", s.ID, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subjects (id, name, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
			s.ID, s.Name, formatTime(s.UpdatedAt)); err != nil {
			return fmt.Errorf("upsert subject %d: %w", s.ID, err)
		}
	}

	for _, le := range changes.Lessons {
		if le.IsDeleted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, le.ID); err != nil {
				return fmt.Errorf("delete lesson %d: %w", le.ID, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (id, subject_id, name, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET subject_id = excluded.subject_id,
			     name = excluded.name, updated_at = excluded.updated_at`,
			le.ID, le.SubjectID, le.Name, formatTime(le.UpdatedAt)); err != nil {
			return fmt.Errorf("upsert lesson %d: %w", le.ID, err)
		}
	}

	for _, t := range changes.Topics {
		if t.IsDeleted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, t.ID); err != nil {
				return fmt.Errorf("delete topic %d: %w", t.ID, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO topics (id, lesson_id, name, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET lesson_id = excluded.lesson_id,
			     name = excluded.name, updated_at = excluded.updated_at`,
			t.ID, t.LessonID, t.Name, formatTime(t.UpdatedAt)); err != nil {
			return fmt.Errorf("upsert topic %d: %w", t.ID, err)
		}
	}

	for _, e := range changes.Exams {
		if e.IsDeleted {
			// Cascade locally: the server tombstones questions alongside
			// the exam, but a bootstrap pull omits deleted rows entirely.
			if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE exam_id = ?`, e.ID.String()); err != nil {
				return fmt.Errorf("delete questions of exam %s: %w", e.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, e.ID.String()); err != nil {
				return fmt.Errorf("delete exam %s: %w", e.ID, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exams (id, title, subject_id, lesson_id, topic_id, duration_minutes,
			                    total_marks, pass_mark, negative_mark, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET title = excluded.title,
			     subject_id = excluded.subject_id, lesson_id = excluded.lesson_id,
			     topic_id = excluded.topic_id, duration_minutes = excluded.duration_minutes,
			     total_marks = excluded.total_marks, pass_mark = excluded.pass_mark,
			     negative_mark = excluded.negative_mark, updated_at = excluded.updated_at`,
			e.ID.String(), e.Title, e.SubjectID, e.LessonID, e.TopicID, e.DurationMinutes,
			e.TotalMarks, e.PassMark, e.NegativeMark, formatTime(e.UpdatedAt)); err != nil {
			return fmt.Errorf("upsert exam %s: %w", e.ID, err)
		}
	}

	for _, q := range changes.Questions {
		if q.IsDeleted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, q.ID.String()); err != nil {
				return fmt.Errorf("delete question %s: %w", q.ID, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, exam_id, prompt, options, correct_option, explanation, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET exam_id = excluded.exam_id,
			     prompt = excluded.prompt, options = excluded.options,
			     correct_option = excluded.correct_option, explanation = excluded.explanation,
			     updated_at = excluded.updated_at`,
			q.ID.String(), q.ExamID.String(), q.Prompt, string(q.Options), q.CorrectOption,
			q.Explanation, formatTime(q.UpdatedAt)); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Exam reads one replicated exam row. Returns sql.ErrNoRows via the wrap if
// the exam is not in the local replica.
func (l *Ledger) Exam(ctx context.Context, examID string) (*model.Exam, error) {
	var (
		e       model.Exam
		rawID   string
		updated string
	)
	err := l.db.QueryRowContext(ctx,
		`SELECT id, title, subject_id, lesson_id, topic_id, duration_minutes,
		        total_marks, pass_mark, negative_mark, updated_at
		 FROM exams WHERE id = ?`, examID,
	).Scan(&rawID, &e.Title, &e.SubjectID, &e.LessonID, &e.TopicID, &e.DurationMinutes,
		&e.TotalMarks, &e.PassMark, &e.NegativeMark, &updated)
	if err != nil {
		return nil, fmt.Errorf("read exam %s: %w", examID, err)
	}

	if err := e.ID.UnmarshalText([]byte(rawID)); err != nil {
		return nil, fmt.Errorf("parse exam id %q: %w", rawID, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		e.UpdatedAt = t
	}
	return &e, nil
}

// AnswerKey builds the local answer key (question id → correct option) for
// an exam from the replica. Used for the offline score preview; the server
// key remains authoritative.
func (l *Ledger) AnswerKey(ctx context.Context, examID string) (map[string]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, correct_option FROM questions WHERE exam_id = ?`, examID)
	if err != nil {
		return nil, fmt.Errorf("read answer key: %w", err)
	}
	defer rows.Close()

	key := make(map[string]string)
	for rows.Next() {
		var id, correct string
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id] = correct
	}
	return key, rows.Err()
}

// CountRows reports row counts per replicated table, for the status command.
func (l *Ledger) CountRows(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"subjects", "lessons", "topics", "exams", "questions"} {
		var n int
		if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
