package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/response"
	"github.com/prepwise/quizmaster-backend/internal/service"
	"github.com/prepwise/quizmaster-backend/internal/validator"
)

type ChapterHandler struct {
	chapterService *service.ChapterService
}

func NewChapterHandler(chapterService *service.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

// List godoc
// GET /api/v1/chapters?subject_id=N
func (h *ChapterHandler) List(c *gin.Context) {
	var subjectID *int
	if raw := c.Query("subject_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		subjectID = &id
	}

	chapters, err := h.chapterService.List(c.Request.Context(), subjectID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if chapters == nil {
		chapters = []model.Chapter{}
	}

	response.Success(c, http.StatusOK, gin.H{"chapters": chapters})
}

// Create godoc
// POST /api/v1/admin/chapters
func (h *ChapterHandler) Create(c *gin.Context) {
	var req model.CreateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ch := &model.Chapter{SubjectID: req.SubjectID, Name: req.Name, Description: req.Description}
	if err := h.chapterService.Create(c.Request.Context(), ch); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"chapter": ch})
}

// Update godoc
// PUT /api/v1/admin/chapters/:id
func (h *ChapterHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ch := &model.Chapter{ID: id, Name: req.Name, Description: req.Description}
	if err := h.chapterService.Update(c.Request.Context(), ch); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "chapter updated successfully"})
}

// Delete godoc
// DELETE /api/v1/admin/chapters/:id
func (h *ChapterHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.chapterService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "chapter deleted successfully"})
}
