package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/examtrack/examtrack-backend/internal/grading"
	"github.com/examtrack/examtrack-backend/internal/integrity"
)

// PendingAttempt is one offline exam session waiting (or done waiting) for
// server grading. AttemptToken is generated at record time and never changes,
// so retransmission after a lost response is harmless.
type PendingAttempt struct {
	AttemptToken    string            `json:"attempt_token"`
	ExamID          string            `json:"exam_id"`
	Answers         map[string]string `json:"answers"`
	Checksum        string            `json:"checksum"`
	StartedAt       time.Time         `json:"started_at"`
	EndedAt         time.Time         `json:"ended_at"`
	DurationSeconds int               `json:"duration_seconds"`
	LocalScore      *float64          `json:"local_score,omitempty"`
	Synced          bool              `json:"synced"`
}

// RecordAttempt durably stores a finished offline session. It mints the
// attempt token, computes the integrity checksum over the canonical encoding,
// and grades a provisional score from the local replica when the exam is
// present. The write commits before the function returns — a crash after
// this point cannot lose the attempt.
func (l *Ledger) RecordAttempt(ctx context.Context, examID string, answers map[string]string, startedAt, endedAt time.Time) (*PendingAttempt, error) {
	token := uuid.New().String()
	checksum := integrity.Checksum(token, examID, answers)

	p := &PendingAttempt{
		AttemptToken:    token,
		ExamID:          examID,
		Answers:         answers,
		Checksum:        checksum,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationSeconds: int(endedAt.Sub(startedAt).Seconds()),
	}

	// Provisional score for immediate display. The server re-grades from
	// its own key; this value is never uploaded.
	if exam, err := l.Exam(ctx, examID); err == nil {
		if key, err := l.AnswerKey(ctx, examID); err == nil {
			b := grading.Grade(key, answers, exam.NegativeMark)
			p.LocalScore = &b.ScoreWithNegative
		}
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO pending_attempts
		   (attempt_token, exam_id, answers, checksum, started_at, ended_at,
		    duration_seconds, local_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AttemptToken, p.ExamID, string(answersJSON), p.Checksum,
		formatTime(p.StartedAt), formatTime(p.EndedAt), p.DurationSeconds, p.LocalScore)
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, ErrAttemptExists
		}
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	return p, nil
}

// PendingAttempts returns unsynced attempts, oldest first.
func (l *Ledger) PendingAttempts(ctx context.Context) ([]PendingAttempt, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT attempt_token, exam_id, answers, checksum, started_at, ended_at,
		        duration_seconds, local_score, synced
		 FROM pending_attempts WHERE synced = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending attempts: %w", err)
	}
	defer rows.Close()

	var attempts []PendingAttempt
	for rows.Next() {
		p, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *p)
	}
	return attempts, rows.Err()
}

// MarkSynced flags an attempt as accepted by the server. The row is kept —
// it is the local record of the session.
func (l *Ledger) MarkSynced(ctx context.Context, attemptToken string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE pending_attempts SET synced = 1 WHERE attempt_token = ?`, attemptToken)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark synced: unknown attempt token %s", attemptToken)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*PendingAttempt, error) {
	var (
		p           PendingAttempt
		answersJSON string
		startedAt   string
		endedAt     string
		synced      int
	)
	if err := row.Scan(&p.AttemptToken, &p.ExamID, &answersJSON, &p.Checksum,
		&startedAt, &endedAt, &p.DurationSeconds, &p.LocalScore, &synced); err != nil {
		return nil, fmt.Errorf("scan attempt: %w", err)
	}

	if err := json.Unmarshal([]byte(answersJSON), &p.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}

	var err error
	if p.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if p.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return nil, fmt.Errorf("parse ended_at: %w", err)
	}
	p.Synced = synced != 0

	return &p, nil
}
