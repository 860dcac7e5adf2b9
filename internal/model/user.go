package model

import "time"

// User represents a registered quiz taker.
type User struct {
	ID                 int        `json:"id"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"-"`
	FullName           string     `json:"full_name"`
	Email              *string    `json:"email,omitempty"`
	Qualification      *string    `json:"qualification,omitempty"`
	DOB                *time.Time `json:"dob,omitempty"`
	EmailNotifications bool       `json:"email_notifications"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RegisterRequest is the payload for user self-registration.
type RegisterRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=80"`
	Password      string  `json:"password" binding:"required,min=6,max=72"`
	FullName      string  `json:"full_name" binding:"required,min=2,max=120"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Qualification *string `json:"qualification" binding:"omitempty,max=120"`
	DOB           *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
}

// LoginRequest is the payload for user and admin login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
