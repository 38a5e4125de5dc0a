package handler

import (
	"errors"
	"strconv"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/examtrack/examtrack-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// TaxonomyHandler handles the subject → lesson → topic hierarchy.
type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.FailMessage(c, response.ErrValidation, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *TaxonomyHandler) failStorage(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrRowNotFound) {
		response.Fail(c, response.ErrNotFound)
		return
	}
	response.FailMessage(c, response.ErrStorage, err.Error())
}

// ─── Subjects ───────────────────────────────────────────────────────

// ListSubjects godoc
// GET /api/v1/admin/subjects
func (h *TaxonomyHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.taxonomyService.ListSubjects(c.Request.Context())
	if err != nil {
		h.failStorage(c, err)
		return
	}
	response.OK(c, subjects)
}

// CreateSubject godoc
// POST /api/v1/admin/subjects
func (h *TaxonomyHandler) CreateSubject(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	sub := &model.Subject{Name: req.Name}
	if err := h.taxonomyService.CreateSubject(c.Request.Context(), sub); err != nil {
		h.failStorage(c, err)
		return
	}
	response.Created(c, sub)
}

// RenameSubject godoc
// PUT /api/v1/admin/subjects/:subjectId
func (h *TaxonomyHandler) RenameSubject(c *gin.Context) {
	id, ok := parseIntParam(c, "subjectId")
	if !ok {
		return
	}

	var req model.RenameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	if err := h.taxonomyService.RenameSubject(c.Request.Context(), id, req.Name); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "subject updated", nil)
}

// DeleteSubject godoc
// DELETE /api/v1/admin/subjects/:subjectId
func (h *TaxonomyHandler) DeleteSubject(c *gin.Context) {
	id, ok := parseIntParam(c, "subjectId")
	if !ok {
		return
	}

	if err := h.taxonomyService.DeleteSubject(c.Request.Context(), id); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "subject deleted", nil)
}

// ─── Lessons ────────────────────────────────────────────────────────

// ListLessons godoc
// GET /api/v1/admin/subjects/:subjectId/lessons
func (h *TaxonomyHandler) ListLessons(c *gin.Context) {
	subjectID, ok := parseIntParam(c, "subjectId")
	if !ok {
		return
	}

	lessons, err := h.taxonomyService.ListLessons(c.Request.Context(), subjectID)
	if err != nil {
		h.failStorage(c, err)
		return
	}
	response.OK(c, lessons)
}

// CreateLesson godoc
// POST /api/v1/admin/lessons
func (h *TaxonomyHandler) CreateLesson(c *gin.Context) {
	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	lesson := &model.Lesson{SubjectID: req.SubjectID, Name: req.Name}
	if err := h.taxonomyService.CreateLesson(c.Request.Context(), lesson); err != nil {
		h.failStorage(c, err)
		return
	}
	response.Created(c, lesson)
}

// RenameLesson godoc
// PUT /api/v1/admin/lessons/:lessonId
func (h *TaxonomyHandler) RenameLesson(c *gin.Context) {
	id, ok := parseIntParam(c, "lessonId")
	if !ok {
		return
	}

	var req model.RenameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	if err := h.taxonomyService.RenameLesson(c.Request.Context(), id, req.Name); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "lesson updated", nil)
}

// DeleteLesson godoc
// DELETE /api/v1/admin/lessons/:lessonId
func (h *TaxonomyHandler) DeleteLesson(c *gin.Context) {
	id, ok := parseIntParam(c, "lessonId")
	if !ok {
		return
	}

	if err := h.taxonomyService.DeleteLesson(c.Request.Context(), id); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "lesson deleted", nil)
}

// ─── Topics ─────────────────────────────────────────────────────────

// ListTopics godoc
// GET /api/v1/admin/lessons/:lessonId/topics
func (h *TaxonomyHandler) ListTopics(c *gin.Context) {
	lessonID, ok := parseIntParam(c, "lessonId")
	if !ok {
		return
	}

	topics, err := h.taxonomyService.ListTopics(c.Request.Context(), lessonID)
	if err != nil {
		h.failStorage(c, err)
		return
	}
	response.OK(c, topics)
}

// CreateTopic godoc
// POST /api/v1/admin/topics
func (h *TaxonomyHandler) CreateTopic(c *gin.Context) {
	var req model.CreateTopicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	topic := &model.Topic{LessonID: req.LessonID, Name: req.Name}
	if err := h.taxonomyService.CreateTopic(c.Request.Context(), topic); err != nil {
		h.failStorage(c, err)
		return
	}
	response.Created(c, topic)
}

// RenameTopic godoc
// PUT /api/v1/admin/topics/:topicId
func (h *TaxonomyHandler) RenameTopic(c *gin.Context) {
	id, ok := parseIntParam(c, "topicId")
	if !ok {
		return
	}

	var req model.RenameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	if err := h.taxonomyService.RenameTopic(c.Request.Context(), id, req.Name); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "topic updated", nil)
}

// DeleteTopic godoc
// DELETE /api/v1/admin/topics/:topicId
func (h *TaxonomyHandler) DeleteTopic(c *gin.Context) {
	id, ok := parseIntParam(c, "topicId")
	if !ok {
		return
	}

	if err := h.taxonomyService.DeleteTopic(c.Request.Context(), id); err != nil {
		h.failStorage(c, err)
		return
	}
	response.OKMessage(c, "topic deleted", nil)
}
