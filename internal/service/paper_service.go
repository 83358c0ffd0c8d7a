package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
)

// PaperService is the question supply: it resolves a test configuration
// into the question set a session runs over.
type PaperService struct {
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewPaperService creates a new PaperService.
func NewPaperService(questionRepo *repository.QuestionRepository, log zerolog.Logger) *PaperService {
	return &PaperService{
		questionRepo: questionRepo,
		log:          log.With().Str("component", "paper_service").Logger(),
	}
}

// Resolve draws a random paper matching cfg. Bank rows that violate the
// MCQ invariant (no options, or a correct answer that is not a valid
// option index) are dropped with a warning rather than poisoning the
// session. An empty result is a valid outcome; refusing to start on it
// is the session engine's job.
func (s *PaperService) Resolve(ctx context.Context, cfg model.TestConfig) ([]model.Question, error) {
	drawn, err := s.questionRepo.Draw(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}

	questions := drawn[:0]
	for i := range drawn {
		if !drawn[i].WellFormed() {
			s.log.Warn().
				Str("question_id", drawn[i].ID.String()).
				Msg("Dropping malformed bank question")
			continue
		}
		questions = append(questions, drawn[i])
	}
	return questions, nil
}

// Chapters lists the distinct chapters of a subject for the test builder.
func (s *PaperService) Chapters(ctx context.Context, subject model.Subject) ([]string, error) {
	return s.questionRepo.ListChapters(ctx, subject)
}
