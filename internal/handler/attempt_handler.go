package handler

import (
	"errors"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/examtrack/examtrack-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AttemptHandler receives offline attempt submissions for authoritative
// grading.
type AttemptHandler struct {
	gradingService *service.GradingService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(gradingService *service.GradingService) *AttemptHandler {
	return &AttemptHandler{gradingService: gradingService}
}

// SubmitAttempt godoc
// POST /api/v1/sync/attempts
// Re-scores a single offline attempt. Resubmitting the same attempt token is
// not an error: the response reports DUPLICATE with already_synced set so the
// client can clear its pending queue.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var sub model.AttemptSubmission
	if fields := validator.Bind(c, &sub); fields != nil {
		response.FailWithFields(c, response.ErrValidation, fields)
		return
	}

	result, err := h.gradingService.Grade(c.Request.Context(), &sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyGraded):
			response.Duplicate(c)
		case errors.Is(err, service.ErrExamNotFound):
			response.FailMessage(c, response.ErrNotFound, "exam not found")
		case errors.Is(err, service.ErrChecksumRejected):
			response.Fail(c, response.ErrChecksumMismatch)
		default:
			response.FailMessage(c, response.ErrStorage, err.Error())
		}
		return
	}

	response.OK(c, result)
}
