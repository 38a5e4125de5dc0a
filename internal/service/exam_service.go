package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	// ErrNotEnoughQuestions means the sampling pool is smaller than the
	// requested custom-exam size. Nothing is written.
	ErrNotEnoughQuestions = errors.New("not enough questions in the pool")
)

// ExamService handles exam lifecycle, including transactional custom-exam
// creation from sampled questions.
type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	notify       *NotifyService
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	notify *NotifyService,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		notify:       notify,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.examRepo.GetByID(ctx, id)
}

// List retrieves all live exams.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	return exams, nil
}

// Create inserts a new exam. The negative-mark weight defaults at creation
// time when the request omits it.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	negativeMark := model.DefaultNegativeMark
	if req.NegativeMark != nil {
		negativeMark = *req.NegativeMark
	}

	exam := &model.Exam{
		Title:           req.Title,
		SubjectID:       req.SubjectID,
		LessonID:        req.LessonID,
		TopicID:         req.TopicID,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		PassMark:        req.PassMark,
		NegativeMark:    negativeMark,
	}

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.notify.PublishSyncChanged(ctx, "exams")
	s.notify.QueueActivity(ctx, "exam_created", map[string]interface{}{"exam_id": exam.ID, "title": exam.Title})
	return exam, nil
}

// CreateCustom builds an exam from randomly sampled pool questions in a
// single transaction. Either the exam and all its questions become visible
// together, or nothing does.
func (s *ExamService) CreateCustom(ctx context.Context, req *model.CreateCustomExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.QuestionCount,
		NegativeMark:    req.NegativeMark,
	}

	sampled, err := s.examRepo.CreateWithSampledQuestions(ctx, exam, req.TopicIDs, req.QuestionCount)
	if err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			s.log.Debug().
				Int("requested", req.QuestionCount).
				Int("available", sampled).
				Msg("Custom exam sampling short, rolled back")
			return nil, ErrNotEnoughQuestions
		}
		return nil, err
	}

	s.notify.PublishSyncChanged(ctx, "exams")
	s.notify.QueueActivity(ctx, "custom_exam_created", map[string]interface{}{
		"exam_id":   exam.ID,
		"title":     exam.Title,
		"questions": sampled,
	})

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("questions", sampled).
		Msg("Custom exam created")
	return exam, nil
}

// Update modifies an existing exam.
func (s *ExamService) Update(ctx context.Context, exam *model.Exam) error {
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "exams")
	return nil
}

// Delete soft-deletes an exam and its questions (sync tombstones).
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "exams")
	s.notify.QueueActivity(ctx, "exam_deleted", map[string]interface{}{"exam_id": id})
	return nil
}

// ListQuestions retrieves an exam's live questions.
func (s *ExamService) ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// AddQuestion appends a question to an exam.
func (s *ExamService) AddQuestion(ctx context.Context, q *model.Question) error {
	if _, err := s.examRepo.GetByID(ctx, q.ExamID); err != nil {
		return err
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "questions")
	return nil
}

// UpdateQuestion edits a question in place.
func (s *ExamService) UpdateQuestion(ctx context.Context, q *model.Question) error {
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "questions")
	return nil
}

// DeleteQuestion soft-deletes a question. Already-downloaded clients learn
// about it through the tombstone on their next pull; grading excludes it
// immediately.
func (s *ExamService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "questions")
	return nil
}
