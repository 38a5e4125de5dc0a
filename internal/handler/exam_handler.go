package handler

import (
	"errors"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/examtrack/examtrack-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExamHandler handles exam and question administration.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

func parseExamID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.FailMessage(c, response.ErrValidation, "examId must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// ListExams godoc
// GET /api/v1/admin/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context())
	if err != nil {
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OK(c, exams)
}

// GetExam godoc
// GET /api/v1/admin/exams/:examId
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OK(c, exam)
}

// CreateExam godoc
// POST /api/v1/admin/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.Created(c, exam)
}

// CreateCustomExam godoc
// POST /api/v1/admin/exams/custom
// Builds an exam from randomly sampled pool questions. All-or-nothing: a
// short pool rolls the whole creation back.
func (h *ExamHandler) CreateCustomExam(c *gin.Context) {
	var req model.CreateCustomExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.CreateCustom(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotEnoughQuestions) {
			response.Fail(c, response.ErrNoQuestionsAvailable)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.Created(c, exam)
}

// UpdateExam godoc
// PUT /api/v1/admin/exams/:examId
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.TotalMarks != nil {
		exam.TotalMarks = *req.TotalMarks
	}
	if req.PassMark != nil {
		exam.PassMark = *req.PassMark
	}
	if req.NegativeMark != nil {
		exam.NegativeMark = *req.NegativeMark
	}

	if err := h.examService.Update(c.Request.Context(), exam); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OK(c, exam)
}

// DeleteExam godoc
// DELETE /api/v1/admin/exams/:examId
// Soft delete. The exam and its questions become tombstones for syncing
// clients.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OKMessage(c, "exam deleted", nil)
}

// ListQuestions godoc
// GET /api/v1/admin/exams/:examId/questions
func (h *ExamHandler) ListQuestions(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	questions, err := h.examService.ListQuestions(c.Request.Context(), id)
	if err != nil {
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OK(c, questions)
}

// AddQuestion godoc
// POST /api/v1/admin/exams/:examId/questions
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	id, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	q := &model.Question{
		ExamID:        id,
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := h.examService.AddQuestion(c.Request.Context(), q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.FailMessage(c, response.ErrNotFound, "exam not found")
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.Created(c, q)
}

// UpdateQuestion godoc
// PUT /api/v1/admin/questions/:questionId
func (h *ExamHandler) UpdateQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		response.FailMessage(c, response.ErrValidation, "questionId must be a UUID")
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	q := &model.Question{
		ID:            id,
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := h.examService.UpdateQuestion(c.Request.Context(), q); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OKMessage(c, "question updated", nil)
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:questionId
// Soft delete. Grading excludes the question immediately; clients see the
// tombstone on their next pull.
func (h *ExamHandler) DeleteQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		response.FailMessage(c, response.ErrValidation, "questionId must be a UUID")
		return
	}

	if err := h.examService.DeleteQuestion(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			response.Fail(c, response.ErrNotFound)
			return
		}
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}
	response.OKMessage(c, "question deleted", nil)
}
