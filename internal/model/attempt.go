package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptSource distinguishes rows in the general attempt-history ledger.
type AttemptSource string

const (
	AttemptSourceOnline  AttemptSource = "ONLINE"
	AttemptSourceOffline AttemptSource = "OFFLINE"
)

// AttemptSubmission is the client-originated upload of an offline exam
// session. AttemptUUID is the client-generated idempotency token; Answers
// maps question ID to the selected option key (absent = unanswered).
type AttemptSubmission struct {
	AttemptUUID  string            `json:"attempt_uuid" binding:"required,uuid4"`
	ExamID       uuid.UUID         `json:"exam_id" binding:"required"`
	Answers      map[string]string `json:"answers" binding:"required"`
	StartTime    time.Time         `json:"start_time" binding:"required"`
	EndTime      time.Time         `json:"end_time" binding:"required"`
	DurationUsed int               `json:"duration_used" binding:"min=0"`
	Checksum     string            `json:"checksum" binding:"required,len=64,hexadecimal"`
}

// GradedAttempt is the server-canonical result of re-scoring a submission.
// Exactly one exists per attempt token; it is immutable after creation.
type GradedAttempt struct {
	ID                int64     `json:"id"`
	AttemptUUID       string    `json:"attempt_uuid"`
	ExamID            uuid.UUID `json:"exam_id"`
	RightCount        int       `json:"right_answers"`
	WrongCount        int       `json:"wrong_answers"`
	UnansweredCount   int       `json:"unanswered"`
	Score             float64   `json:"score"`
	ScoreWithNegative float64   `json:"score_with_negative"`
	ServerChecksum    string    `json:"server_checksum"`
	ChecksumMatch     bool      `json:"checksum_match"`
	StartedAt         time.Time `json:"started_at"`
	EndedAt           time.Time `json:"ended_at"`
	DurationSeconds   int       `json:"duration_seconds"`
	CreatedAt         time.Time `json:"created_at"`
}

// GradeResult is the response payload echoed back to the client after grading.
type GradeResult struct {
	AttemptID         int64   `json:"attempt_id"`
	Score             float64 `json:"score"`
	ScoreWithNegative float64 `json:"score_with_negative"`
	RightAnswers      int     `json:"right_answers"`
	WrongAnswers      int     `json:"wrong_answers"`
	Unanswered        int     `json:"unanswered"`
}
