package service

import (
	"context"

	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/prepwise/quizmaster-backend/internal/repository"
	"github.com/rs/zerolog"
)

type ChapterService struct {
	chapterRepo *repository.ChapterRepository
	log         zerolog.Logger
}

func NewChapterService(chapterRepo *repository.ChapterRepository, log zerolog.Logger) *ChapterService {
	return &ChapterService{
		chapterRepo: chapterRepo,
		log:         log.With().Str("component", "chapter_service").Logger(),
	}
}

func (s *ChapterService) List(ctx context.Context, subjectID *int) ([]model.Chapter, error) {
	return s.chapterRepo.List(ctx, subjectID)
}

func (s *ChapterService) GetByID(ctx context.Context, id int) (*model.Chapter, error) {
	return s.chapterRepo.GetByID(ctx, id)
}

func (s *ChapterService) Create(ctx context.Context, ch *model.Chapter) error {
	return s.chapterRepo.Create(ctx, ch)
}

func (s *ChapterService) Update(ctx context.Context, ch *model.Chapter) error {
	return s.chapterRepo.Update(ctx, ch)
}

func (s *ChapterService) Delete(ctx context.Context, id int) error {
	return s.chapterRepo.Delete(ctx, id)
}
