package model

import "time"

// OptionCount is the fixed number of options every question carries.
// The 1-based indexing convention (1–4) is part of the wire contract.
const OptionCount = 4

// Question represents a single four-option quiz question with exactly
// one correct option index in the range 1–4.
type Question struct {
	ID            int       `json:"id"`
	QuizID        int       `json:"quiz_id"`
	Statement     string    `json:"question_statement"`
	Options       [4]string `json:"-"`
	CorrectOption int       `json:"correct_option"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionForUser is a question without the correct option, served while
// an attempt is in progress.
type QuestionForUser struct {
	ID        int    `json:"id"`
	Statement string `json:"question_statement"`
	Option1   string `json:"option1"`
	Option2   string `json:"option2"`
	Option3   string `json:"option3"`
	Option4   string `json:"option4"`
}

// QuestionWithAnswer is the full question shape exposed to admins and to
// the results view after an attempt is scored.
type QuestionWithAnswer struct {
	QuestionForUser
	CorrectOption int `json:"correct_option"`
}

// ForUser strips the correct option for delivery to a quiz taker.
func (q *Question) ForUser() QuestionForUser {
	return QuestionForUser{
		ID:        q.ID,
		Statement: q.Statement,
		Option1:   q.Options[0],
		Option2:   q.Options[1],
		Option3:   q.Options[2],
		Option4:   q.Options[3],
	}
}

// WithAnswer returns the full question including the correct option.
func (q *Question) WithAnswer() QuestionWithAnswer {
	return QuestionWithAnswer{
		QuestionForUser: q.ForUser(),
		CorrectOption:   q.CorrectOption,
	}
}

// CreateQuestionRequest is the payload for adding a question to a quiz.
type CreateQuestionRequest struct {
	Statement     string `json:"question_statement" binding:"required,min=1,max=2000"`
	Option1       string `json:"option1" binding:"required,max=200"`
	Option2       string `json:"option2" binding:"required,max=200"`
	Option3       string `json:"option3" binding:"required,max=200"`
	Option4       string `json:"option4" binding:"required,max=200"`
	CorrectOption int    `json:"correct_option" binding:"required,min=1,max=4"`
}

// UpdateQuestionRequest is the payload for editing a question.
type UpdateQuestionRequest struct {
	Statement     string `json:"question_statement" binding:"required,min=1,max=2000"`
	Option1       string `json:"option1" binding:"required,max=200"`
	Option2       string `json:"option2" binding:"required,max=200"`
	Option3       string `json:"option3" binding:"required,max=200"`
	Option4       string `json:"option4" binding:"required,max=200"`
	CorrectOption int    `json:"correct_option" binding:"required,min=1,max=4"`
}
