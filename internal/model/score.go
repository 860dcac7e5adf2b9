package model

import "time"

// Score is the persisted percentage result of one completed attempt.
// Exactly one Score exists per (quiz, user) pair.
type Score struct {
	ID          int       `json:"id"`
	QuizID      int       `json:"quiz_id"`
	UserID      int       `json:"user_id"`
	Percentage  float64   `json:"total_scored"`
	AttemptedAt time.Time `json:"time_stamp_of_attempt"`
}

// ScoreAnswer is the per-question snapshot written alongside a Score,
// recording what the user selected (0 = unanswered) and whether it was
// correct. The Results Viewer reads these back.
type ScoreAnswer struct {
	ScoreID        int  `json:"-"`
	QuestionID     int  `json:"question_id"`
	SelectedOption int  `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
}

// ScoreDetail is a score joined with its catalog context for history views.
type ScoreDetail struct {
	Score
	QuizDate    time.Time `json:"date_of_quiz"`
	ChapterName string    `json:"chapter_name"`
	SubjectName string    `json:"subject_name"`
}

// SubmitQuizRequest carries the client's answer store at submission time:
// a mapping from question ID to the selected option index.
type SubmitQuizRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// SubmitQuizResult is returned to the caller after scoring.
type SubmitQuizResult struct {
	ScoreID        int     `json:"score_id"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Percentage     float64 `json:"score"`
}

// AnswerReview pairs a question with the user's recorded selection for
// the results view.
type AnswerReview struct {
	QuestionWithAnswer
	SelectedOption int  `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
}

// QuizStats holds the cached aggregate statistics for one quiz.
type QuizStats struct {
	QuizID        int     `json:"quiz_id"`
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	MinScore      float64 `json:"min_score"`
	MaxScore      float64 `json:"max_score"`
	UpdatedAt     string  `json:"updated_at"`
}

// UserStats summarizes one user's performance across all attempts.
type UserStats struct {
	TotalQuizzes int     `json:"total_quizzes"`
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`
}

// LeaderboardEntry is one row of a quiz or global leaderboard.
type LeaderboardEntry struct {
	UserID       int     `json:"user_id"`
	UserName     string  `json:"user_name"`
	Score        float64 `json:"score"`
	QuizzesTaken int     `json:"quizzes_taken,omitempty"`
}
