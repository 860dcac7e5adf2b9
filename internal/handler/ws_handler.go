package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prepwise/quizmaster-backend/internal/attempt"
	"github.com/prepwise/quizmaster-backend/internal/middleware"
	"github.com/prepwise/quizmaster-backend/internal/response"
	"github.com/prepwise/quizmaster-backend/internal/service"
	ws "github.com/prepwise/quizmaster-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live attempt: answer autosaves flow up, countdown
// ticks flow down, and submission can happen over the same connection.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/user/quizzes/:quiz_id/stream
// Requires an attempt started via GET /user/attempt_quiz/:quiz_id.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := strconv.Atoi(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	userID := claims.UserID

	att, ok := h.attemptService.Attempt(quizID, userID)
	if !ok || att.Submitted() {
		conn.WriteError("no attempt in progress for this quiz")
		return
	}

	wsLog := h.log.With().
		Int("user_id", userID).
		Int("quiz_id", quizID).
		Logger()

	wsLog.Info().Msg("Attempt stream connected")

	// Countdown ticks ride a side goroutine; the write mutex in ws.Conn
	// keeps them from interleaving with request responses.
	done := make(chan struct{})
	defer close(done)
	go h.tickLoop(conn, att, done)

	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSelect:
			h.handleSelect(conn, wsLog, quizID, userID, &msg)
		case ws.ActionSubmit:
			if h.handleSubmit(conn, wsLog, quizID, userID) {
				return
			}
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

// attemptOver reports whether an attempt has reached a terminal state,
// and whether that state was a timeout rather than a submission (or
// cancellation) that beat the clock.
func attemptOver(a *attempt.Attempt) (over, timedOut bool) {
	if a.Submitted() {
		return true, a.Expired()
	}
	if a.Expired() {
		return true, true
	}
	return false, false
}

// tickLoop pushes the authoritative remaining time once per second.
// Only a genuine timeout is announced as expired; a manual submission
// already got its graded reply and closes the stream quietly.
func (h *WSHandler) tickLoop(conn *ws.Conn, a *attempt.Attempt, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			over, timedOut := attemptOver(a)
			if over {
				if timedOut {
					conn.WriteTyped(ws.ExpiredResponse{Event: ws.EventExpired})
				}
				return
			}
			conn.WriteTyped(ws.TickResponse{
				Event:            ws.EventTick,
				RemainingSeconds: a.Remaining().Seconds(),
			})
		}
	}
}

// handleSelect autosaves a single selection.
func (h *WSHandler) handleSelect(conn *ws.Conn, wsLog zerolog.Logger, quizID, userID int, msg *ws.RequestPayload) {
	ctx := context.Background()

	if msg.QuestionID <= 0 || msg.Option < 1 || msg.Option > 4 {
		conn.WriteError("question_id and option (1-4) are required")
		return
	}

	if err := h.attemptService.SelectAnswer(ctx, quizID, userID, msg.QuestionID, msg.Option); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			conn.WriteError("question does not belong to this quiz")
		case errors.Is(err, service.ErrNoActiveAttempt):
			conn.WriteError("attempt already finished")
		default:
			wsLog.Error().Err(err).Msg("Autosave failed")
			conn.WriteError("save failed")
		}
		return
	}

	conn.WriteTyped(ws.SavedResponse{
		Event:      ws.EventSaved,
		QuestionID: msg.QuestionID,
		Option:     msg.Option,
	})
}

// handleSubmit grades the attempt from its autosaved answers. Returns
// true when the stream should close.
func (h *WSHandler) handleSubmit(conn *ws.Conn, wsLog zerolog.Logger, quizID, userID int) bool {
	ctx := context.Background()

	result, err := h.attemptService.SubmitAnswers(ctx, quizID, userID, nil)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyAttempted) {
			conn.WriteError("quiz already submitted")
			return true
		}
		wsLog.Error().Err(err).Msg("Submit over stream failed")
		conn.WriteError("grading failed")
		return false
	}

	wsLog.Info().
		Float64("score", result.Percentage).
		Int("correct", result.CorrectAnswers).
		Int("total", result.TotalQuestions).
		Msg("Attempt submitted over stream")

	conn.WriteTyped(ws.GradedResponse{
		Event:          ws.EventGraded,
		Score:          result.Percentage,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
	})
	return true
}
