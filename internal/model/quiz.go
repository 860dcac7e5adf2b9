package model

import "time"

// Quiz represents a timed collection of questions belonging to one chapter.
// Duration must not change once attempts have started.
type Quiz struct {
	ID              int       `json:"id"`
	ChapterID       int       `json:"chapter_id"`
	DateOfQuiz      time.Time `json:"date_of_quiz"`
	DurationMinutes int       `json:"time_duration"`
	Remarks         *string   `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QuizSummary is a quiz with catalog context for user-facing listings.
type QuizSummary struct {
	Quiz
	ChapterName   string `json:"chapter_name"`
	SubjectName   string `json:"subject_name"`
	QuestionCount int    `json:"question_count"`
	HasAttempted  bool   `json:"has_attempted"`
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	ChapterID       int     `json:"chapter_id" binding:"required,min=1"`
	DateOfQuiz      string  `json:"date_of_quiz" binding:"required,datetime=2006-01-02"`
	DurationMinutes int     `json:"time_duration" binding:"required,min=1,max=480"`
	Remarks         *string `json:"remarks" binding:"omitempty,max=2000"`
}

// UpdateQuizRequest is the payload for updating a quiz.
type UpdateQuizRequest struct {
	DateOfQuiz      string  `json:"date_of_quiz" binding:"omitempty,datetime=2006-01-02"`
	DurationMinutes int     `json:"time_duration" binding:"omitempty,min=1,max=480"`
	Remarks         *string `json:"remarks" binding:"omitempty,max=2000"`
}

// QuizPayload is the Redis-cached payload served to quiz takers
// (no correct options).
type QuizPayload struct {
	QuizID          int               `json:"quiz_id"`
	DurationMinutes int               `json:"time_duration"`
	Remarks         *string           `json:"remarks,omitempty"`
	Questions       []QuestionForUser `json:"questions"`
}

// AttemptState describes an in-progress attempt so a reconnecting client
// can restore its answer store and countdown.
type AttemptState struct {
	QuizID           int            `json:"quiz_id"`
	UserID           int            `json:"user_id"`
	AutosavedAnswers map[string]int `json:"autosaved_answers"`
	RemainingSeconds float64        `json:"remaining_seconds"`
}
