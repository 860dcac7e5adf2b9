package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepwise/quizmaster-backend/internal/middleware"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/response"
	"github.com/prepwise/quizmaster-backend/internal/service"
	"github.com/prepwise/quizmaster-backend/internal/validator"
)

// ScoreHandler serves score history, statistics and leaderboards.
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// historyQuery carries the optional score-history filters.
type historyQuery struct {
	SubjectID *int   `form:"subject_id"`
	ChapterID *int   `form:"chapter_id"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// History godoc
// GET /api/v1/user/scores?subject_id=N&chapter_id=N&from=YYYY-MM-DD&to=YYYY-MM-DD
// The caller's scored attempts, newest first.
func (h *ScoreHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var query historyQuery
	if fields := validator.BindQuery(c, &query); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	filter := service.ScoreFilter{
		SubjectID: query.SubjectID,
		ChapterID: query.ChapterID,
	}
	if query.From != "" {
		t, _ := time.Parse("2006-01-02", query.From)
		filter.From = &t
	}
	if query.To != "" {
		t, _ := time.Parse("2006-01-02", query.To)
		// Inclusive upper bound: the whole of the named day counts.
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}

	scores, err := h.scoreService.History(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if scores == nil {
		scores = []model.ScoreDetail{}
	}

	response.Success(c, http.StatusOK, gin.H{"scores": scores})
}

// UserStats godoc
// GET /api/v1/user/stats
// The caller's aggregate performance across all attempts.
func (h *ScoreHandler) UserStats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.scoreService.UserStats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// QuizStats godoc
// GET /api/v1/admin/quizzes/:id/stats
// Attempt count and score aggregates for one quiz, served from the
// worker-maintained cache.
func (h *ScoreHandler) QuizStats(c *gin.Context) {
	quizID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stats, err := h.scoreService.QuizStats(c.Request.Context(), quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// QuizLeaderboard godoc
// GET /api/v1/user/quizzes/:quiz_id/leaderboard?limit=N
func (h *ScoreHandler) QuizLeaderboard(c *gin.Context) {
	quizID, err := strconv.Atoi(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.scoreService.QuizLeaderboard(c.Request.Context(), quizID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// GlobalLeaderboard godoc
// GET /api/v1/user/leaderboard?limit=N
func (h *ScoreHandler) GlobalLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.scoreService.GlobalLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}
