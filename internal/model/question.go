package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Question belongs to an exam. Options is an ordered set of opaque labeled
// choices stored as JSONB; CorrectOption references one option key.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	ExamID        uuid.UUID       `json:"exam_id"`
	Prompt        string          `json:"prompt"`
	Options       json.RawMessage `json:"options"`
	CorrectOption string          `json:"correct_option"`
	Explanation   *string         `json:"explanation,omitempty"`
	IsDeleted     bool            `json:"is_deleted"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	Prompt        string          `json:"prompt" binding:"required,min=1,max=2000"`
	Options       json.RawMessage `json:"options" binding:"required"`
	CorrectOption string          `json:"correct_option" binding:"required,max=10"`
	Explanation   *string         `json:"explanation" binding:"omitempty,max=2000"`
}

// UpdateQuestionRequest is the payload for editing a question.
type UpdateQuestionRequest struct {
	Prompt        string          `json:"prompt" binding:"omitempty,min=1,max=2000"`
	Options       json.RawMessage `json:"options" binding:"omitempty"`
	CorrectOption string          `json:"correct_option" binding:"omitempty,max=10"`
	Explanation   *string         `json:"explanation" binding:"omitempty,max=2000"`
}
