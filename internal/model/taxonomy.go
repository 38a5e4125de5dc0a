package model

import "time"

// Subject is the top level of the study taxonomy.
type Subject struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lesson groups topics under a subject.
type Lesson struct {
	ID        int       `json:"id"`
	SubjectID int       `json:"subject_id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Topic is the leaf of the taxonomy; questions are pooled per topic.
type Topic struct {
	ID        int       `json:"id"`
	LessonID  int       `json:"lesson_id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateLessonRequest is the payload for creating a lesson.
type CreateLessonRequest struct {
	SubjectID int    `json:"subject_id" binding:"required,min=1"`
	Name      string `json:"name" binding:"required,min=2,max=100"`
}

// CreateTopicRequest is the payload for creating a topic.
type CreateTopicRequest struct {
	LessonID int    `json:"lesson_id" binding:"required,min=1"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
}

// RenameRequest is the shared payload for renaming any taxonomy node.
type RenameRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
