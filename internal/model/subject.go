package model

import "time"

// Subject represents a top-level study area (e.g. Physics).
type Subject struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}
