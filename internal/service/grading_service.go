package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/grading"
	"github.com/examtrack/examtrack-backend/internal/integrity"
	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Domain errors surfaced to the attempt endpoint.
var (
	// ErrAlreadyGraded means the attempt token already has a graded row.
	// The caller should treat this as success (idempotent no-op).
	ErrAlreadyGraded = errors.New("attempt already graded")
	// ErrExamNotFound means the referenced exam does not exist or is deleted.
	ErrExamNotFound = errors.New("exam not found")
	// ErrChecksumRejected is returned in strict mode when the client
	// checksum does not match the server-recomputed one.
	ErrChecksumRejected = errors.New("integrity checksum mismatch")
)

// GradingService re-scores offline attempt submissions against the current
// canonical answer key. The client-supplied score, if any, is never read.
type GradingService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	notify       *NotifyService
	cfg          *config.Config
	log          zerolog.Logger
}

// NewGradingService creates a new GradingService.
func NewGradingService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	notify *NotifyService,
	cfg *config.Config,
	log zerolog.Logger,
) *GradingService {
	return &GradingService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		notify:       notify,
		cfg:          cfg,
		log:          log.With().Str("component", "grading_service").Logger(),
	}
}

// Grade consumes one attempt submission and returns the canonical result.
//
// The answer key is fetched fresh from the database: grading always reflects
// the exam's current question set, so questions deleted after the client
// downloaded the exam are excluded, and questions the client never saw count
// as unanswered. Idempotency is enforced by the storage layer's unique
// constraint on the attempt token — a duplicate surfaces as ErrAlreadyGraded
// and leaves the original row untouched.
func (s *GradingService) Grade(ctx context.Context, sub *model.AttemptSubmission) (*model.GradeResult, error) {
	exam, err := s.examRepo.GetByID(ctx, sub.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	answerKey, err := s.questionRepo.AnswerKey(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	breakdown := grading.Grade(answerKey, sub.Answers, exam.NegativeMark)

	// The server-computed checksum is the one persisted as canonical; the
	// client's is kept alongside for the tamper-evidence record.
	serverChecksum := integrity.Checksum(sub.AttemptUUID, exam.ID.String(), sub.Answers)
	checksumMatch := integrity.Verify(sub.Checksum, sub.AttemptUUID, exam.ID.String(), sub.Answers)
	if !checksumMatch {
		s.log.Warn().
			Str("attempt_uuid", sub.AttemptUUID).
			Str("exam_id", exam.ID.String()).
			Msg("Checksum mismatch on attempt submission")
		if s.cfg.StrictChecksum {
			return nil, ErrChecksumRejected
		}
	}

	graded := &model.GradedAttempt{
		AttemptUUID:       sub.AttemptUUID,
		ExamID:            exam.ID,
		RightCount:        breakdown.Right,
		WrongCount:        breakdown.Wrong,
		UnansweredCount:   breakdown.Unanswered,
		Score:             breakdown.Score,
		ScoreWithNegative: breakdown.ScoreWithNegative,
		ServerChecksum:    serverChecksum,
		ChecksumMatch:     checksumMatch,
		StartedAt:         sub.StartTime,
		EndedAt:           sub.EndTime,
		DurationSeconds:   sub.DurationUsed,
	}

	if err := s.attemptRepo.InsertGraded(ctx, graded, sub.Answers, sub.Checksum); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return nil, ErrAlreadyGraded
		}
		return nil, err
	}

	s.notify.QueueActivity(ctx, "offline_attempt_graded", map[string]interface{}{
		"attempt_uuid":        graded.AttemptUUID,
		"exam_id":             graded.ExamID,
		"score":               graded.Score,
		"score_with_negative": graded.ScoreWithNegative,
		"checksum_match":      graded.ChecksumMatch,
	})

	s.log.Info().
		Str("attempt_uuid", graded.AttemptUUID).
		Str("exam_id", graded.ExamID.String()).
		Int("right", graded.RightCount).
		Int("wrong", graded.WrongCount).
		Int("unanswered", graded.UnansweredCount).
		Msg("Offline attempt graded")

	return &model.GradeResult{
		AttemptID:         graded.ID,
		Score:             graded.Score,
		ScoreWithNegative: graded.ScoreWithNegative,
		RightAnswers:      graded.RightCount,
		WrongAnswers:      graded.WrongCount,
		Unanswered:        graded.UnansweredCount,
	}, nil
}
