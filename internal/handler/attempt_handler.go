package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/prepwise/quizmaster-backend/internal/middleware"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/response"
	"github.com/prepwise/quizmaster-backend/internal/service"
	"github.com/prepwise/quizmaster-backend/internal/validator"
)

// AttemptHandler exposes the timed attempt workflow: load a quiz,
// submit answers, review the scored attempt.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// AttemptQuiz godoc
// GET /api/v1/user/attempt_quiz/:quiz_id
// Serves the quiz questions without correct options and starts the
// server-side countdown. Repeat attempts are rejected.
func (h *AttemptHandler) AttemptQuiz(c *gin.Context) {
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

	payload, err := h.attemptService.StartAttempt(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyAttempted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// SubmitQuiz godoc
// POST /api/v1/user/submit_quiz/:quiz_id
// Grades the submitted answer map in a single pass and returns the
// score. Only the first submission per (quiz, user) wins.
func (h *AttemptHandler) SubmitQuiz(c *gin.Context) {
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

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answers := make(map[int]int, len(req.Answers))
	for qidStr, opt := range req.Answers {
		qid, err := strconv.Atoi(qidStr)
		if err != nil {
			fields := map[string]string{"answers": "question IDs must be integers"}
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		answers[qid] = opt
	}

	result, err := h.attemptService.SubmitAnswers(c.Request.Context(), quizID, claims.UserID, answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestion)
		case errors.Is(err, service.ErrAlreadyAttempted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ViewAnswers godoc
// GET /api/v1/user/view_answers/:quiz_id
// Per-question correctness breakdown of the caller's scored attempt.
func (h *AttemptHandler) ViewAnswers(c *gin.Context) {
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

	view, err := h.attemptService.ViewAnswers(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAttempted):
			response.Fail(c, http.StatusNotFound, response.ErrNotAttempted)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

// GetState godoc
// GET /api/v1/user/attempt_state/:quiz_id
// Remaining time and autosaved answers of an in-progress attempt, for
// clients that reconnect mid-countdown.
func (h *AttemptHandler) GetState(c *gin.Context) {
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

	state, err := h.attemptService.GetState(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// CancelAttempt godoc
// DELETE /api/v1/user/attempt_quiz/:quiz_id
// Abandons an in-progress attempt without scoring it.
func (h *AttemptHandler) CancelAttempt(c *gin.Context) {
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

	h.attemptService.CancelAttempt(c.Request.Context(), quizID, claims.UserID)
	response.Success(c, http.StatusOK, gin.H{"message": "attempt cancelled"})
}
