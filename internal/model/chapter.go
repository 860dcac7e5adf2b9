package model

import "time"

// Chapter represents a unit within a subject; quizzes belong to chapters.
type Chapter struct {
	ID          int       `json:"id"`
	SubjectID   int       `json:"subject_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateChapterRequest is the payload for creating a chapter.
type CreateChapterRequest struct {
	SubjectID   int     `json:"subject_id" binding:"required,min=1"`
	Name        string  `json:"name" binding:"required,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateChapterRequest is the payload for updating a chapter.
type UpdateChapterRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}
