package service

import (
	"context"

	"github.com/examtrack/examtrack-backend/internal/model"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/rs/zerolog"
)

// TaxonomyService handles the subject → lesson → topic hierarchy. Thin
// pass-through CRUD; the only extra behavior is the sync-change hint after
// every mutation.
type TaxonomyService struct {
	taxonomyRepo *repository.TaxonomyRepository
	notify       *NotifyService
	log          zerolog.Logger
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(taxonomyRepo *repository.TaxonomyRepository, notify *NotifyService, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{
		taxonomyRepo: taxonomyRepo,
		notify:       notify,
		log:          log.With().Str("component", "taxonomy_service").Logger(),
	}
}

func (s *TaxonomyService) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.taxonomyRepo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, nil
}

func (s *TaxonomyService) CreateSubject(ctx context.Context, sub *model.Subject) error {
	if err := s.taxonomyRepo.CreateSubject(ctx, sub); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "subjects")
	return nil
}

func (s *TaxonomyService) RenameSubject(ctx context.Context, id int, name string) error {
	if err := s.taxonomyRepo.RenameSubject(ctx, id, name); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "subjects")
	return nil
}

func (s *TaxonomyService) DeleteSubject(ctx context.Context, id int) error {
	if err := s.taxonomyRepo.DeleteSubject(ctx, id); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "subjects")
	return nil
}

func (s *TaxonomyService) ListLessons(ctx context.Context, subjectID int) ([]model.Lesson, error) {
	lessons, err := s.taxonomyRepo.ListLessons(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	return lessons, nil
}

func (s *TaxonomyService) CreateLesson(ctx context.Context, l *model.Lesson) error {
	if err := s.taxonomyRepo.CreateLesson(ctx, l); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "lessons")
	return nil
}

func (s *TaxonomyService) RenameLesson(ctx context.Context, id int, name string) error {
	if err := s.taxonomyRepo.RenameLesson(ctx, id, name); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "lessons")
	return nil
}

func (s *TaxonomyService) DeleteLesson(ctx context.Context, id int) error {
	if err := s.taxonomyRepo.DeleteLesson(ctx, id); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "lessons")
	return nil
}

func (s *TaxonomyService) ListTopics(ctx context.Context, lessonID int) ([]model.Topic, error) {
	topics, err := s.taxonomyRepo.ListTopics(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, nil
}

func (s *TaxonomyService) CreateTopic(ctx context.Context, t *model.Topic) error {
	if err := s.taxonomyRepo.CreateTopic(ctx, t); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "topics")
	return nil
}

func (s *TaxonomyService) RenameTopic(ctx context.Context, id int, name string) error {
	if err := s.taxonomyRepo.RenameTopic(ctx, id, name); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "topics")
	return nil
}

func (s *TaxonomyService) DeleteTopic(ctx context.Context, id int) error {
	if err := s.taxonomyRepo.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.notify.PublishSyncChanged(ctx, "topics")
	return nil
}
