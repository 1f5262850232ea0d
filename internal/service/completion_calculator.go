package service

import (
	"context"
	"math"

	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
)

// Completion is derived at query time and never stored.
type Completion struct {
	TotalRecordings int64
	TotalQuestions  int64
	Percentage      int
}

// CompletionPercentage returns round(submitted/total*100). An empty catalog yields 0.
func CompletionPercentage(submitted, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(submitted) / float64(total) * 100))
}

type CompletionCalculator interface {
	Compute(ctx context.Context, key model.ProgressKey) (Completion, error)
}

type recordingCounter interface {
	CountByProgress(ctx context.Context, key model.ProgressKey) (int64, error)
}

type questionCounter interface {
	CountByLanguage(ctx context.Context, language string) (int64, error)
}

type completionCalculator struct {
	recordings recordingCounter
	questions  questionCounter
}

func NewCompletionCalculator(recordingRepo repository.RecordingRepository, questionRepo repository.QuestionRepository) CompletionCalculator {
	return &completionCalculator{recordings: recordingRepo, questions: questionRepo}
}

func (c *completionCalculator) Compute(ctx context.Context, key model.ProgressKey) (Completion, error) {
	key = key.Normalized()
	submitted, err := c.recordings.CountByProgress(ctx, key)
	if err != nil {
		return Completion{}, err
	}
	total, err := c.questions.CountByLanguage(ctx, key.Language)
	if err != nil {
		return Completion{}, err
	}
	return Completion{
		TotalRecordings: submitted,
		TotalQuestions:  total,
		Percentage:      CompletionPercentage(submitted, total),
	}, nil
}
