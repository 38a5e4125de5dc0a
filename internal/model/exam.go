package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam is a gradeable question set. The taxonomy links are all optional:
// a "custom" exam built from sampled questions carries none of them.
type Exam struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	SubjectID       *int      `json:"subject_id,omitempty"`
	LessonID        *int      `json:"lesson_id,omitempty"`
	TopicID         *int      `json:"topic_id,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalMarks      int       `json:"total_marks"`
	PassMark        int       `json:"pass_mark"`
	NegativeMark    float64   `json:"negative_mark"`
	IsDeleted       bool      `json:"is_deleted"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title           string   `json:"title" binding:"required,min=3,max=255"`
	SubjectID       *int     `json:"subject_id" binding:"omitempty,min=1"`
	LessonID        *int     `json:"lesson_id" binding:"omitempty,min=1"`
	TopicID         *int     `json:"topic_id" binding:"omitempty,min=1"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalMarks      int      `json:"total_marks" binding:"required,min=1"`
	PassMark        int      `json:"pass_mark" binding:"min=0"`
	NegativeMark    *float64 `json:"negative_mark" binding:"omitempty,min=0,max=10"`
}

// UpdateExamRequest is the payload for updating an existing exam.
type UpdateExamRequest struct {
	Title           string   `json:"title" binding:"omitempty,min=3,max=255"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	TotalMarks      *int     `json:"total_marks" binding:"omitempty,min=1"`
	PassMark        *int     `json:"pass_mark" binding:"omitempty,min=0"`
	NegativeMark    *float64 `json:"negative_mark" binding:"omitempty,min=0,max=10"`
}

// CreateCustomExamRequest builds an exam from randomly sampled questions.
// The exam row and the sampled question copies are written in one
// transaction — a failure leaves nothing behind.
type CreateCustomExamRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=255"`
	TopicIDs        []int   `json:"topic_ids" binding:"omitempty,dive,min=1"`
	QuestionCount   int     `json:"question_count" binding:"required,min=1,max=200"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=480"`
	NegativeMark    float64 `json:"negative_mark" binding:"min=0,max=10"`
}

// DefaultNegativeMark is applied at exam creation when no weight is given.
const DefaultNegativeMark = 0.25
