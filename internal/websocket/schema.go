package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect Action = "select"
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// RequestPayload is the single client frame shape. QuestionID and
// Option are only meaningful for the select action; selecting again for
// the same question overwrites the earlier choice.
type RequestPayload struct {
	Action     Action `json:"action"`
	QuestionID int    `json:"question_id,omitempty"`
	Option     int    `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventSaved   Event = "saved"
	EventGraded  Event = "graded"
	EventTick    Event = "tick"
	EventExpired Event = "expired"
	EventPong    Event = "pong"
)

// SavedResponse acknowledges an autosaved selection.
type SavedResponse struct {
	Event      Event `json:"event"`
	QuestionID int   `json:"question_id"`
	Option     int   `json:"option"`
}

// GradedResponse carries the final score after a submission.
type GradedResponse struct {
	Event          Event   `json:"event"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

// TickResponse is the periodic countdown broadcast. The server clock is
// authoritative; clients only display this value.
type TickResponse struct {
	Event            Event   `json:"event"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

// ExpiredResponse tells the client the countdown ran out and the
// attempt was auto-submitted server-side.
type ExpiredResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
