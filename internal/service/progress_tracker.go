package service

import (
	"context"
	"time"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/rs/zerolog/log"
)

// ProgressTracker owns the Assessment record of every (participant, language, test index).
type ProgressTracker interface {
	// GetStatus returns the stored record or a not_started placeholder.
	GetStatus(ctx context.Context, key model.ProgressKey) (*model.Assessment, error)
	// UpdateStatus applies an explicit status change. A non-nil lastQuestionIndex
	// overwrites the stored index.
	UpdateStatus(ctx context.Context, key model.ProgressKey, status model.AssessmentStatus, lastQuestionIndex *int) (*model.Assessment, error)
	// RecordProgress marks the run in progress after a recording and ratchets the index forward.
	RecordProgress(ctx context.Context, key model.ProgressKey, questionIndex int) (*model.Assessment, error)
}

type progressTracker struct {
	assessmentRepo repository.AssessmentRepository
	now            func() time.Time
}

func NewProgressTracker(assessmentRepo repository.AssessmentRepository) ProgressTracker {
	return &progressTracker{assessmentRepo: assessmentRepo, now: time.Now}
}

func validateKey(key model.ProgressKey) (model.ProgressKey, error) {
	key = key.Normalized()
	if key.ParticipantID == "" {
		return key, apperr.Validation("participantId is required")
	}
	return key, nil
}

func (t *progressTracker) GetStatus(ctx context.Context, key model.ProgressKey) (*model.Assessment, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	assessment, err := t.assessmentRepo.Find(ctx, key)
	if apperr.Is(err, apperr.KindNotFound) {
		return model.NotStartedAssessment(key), nil
	}
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func (t *progressTracker) UpdateStatus(ctx context.Context, key model.ProgressKey, status model.AssessmentStatus, lastQuestionIndex *int) (*model.Assessment, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation("invalid status %q", status)
	}

	update := repository.ProgressUpdate{Key: key, Status: status, IndexPolicy: repository.IndexKeep, At: t.now().UTC()}
	if lastQuestionIndex != nil {
		if *lastQuestionIndex < 0 {
			return nil, apperr.Validation("lastQuestionIndex must not be negative")
		}
		update.IndexPolicy = repository.IndexOverwrite
		update.LastQuestionIndex = *lastQuestionIndex
	}

	assessment, err := t.assessmentRepo.Upsert(ctx, update)
	if err != nil {
		log.Error().Err(err).Str("participantId", key.ParticipantID).Str("language", key.Language).Int("testIndex", key.TestIndex).Msg("UpdateStatus: upsert failed")
		return nil, err
	}
	// The upsert refuses to lower the status; surface that instead of pretending it applied.
	if assessment.Status.Rank() > status.Rank() {
		return nil, apperr.Conflict("assessment is already %s and cannot move back to %s", assessment.Status, status)
	}
	return assessment, nil
}

func (t *progressTracker) RecordProgress(ctx context.Context, key model.ProgressKey, questionIndex int) (*model.Assessment, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	if questionIndex < 0 {
		questionIndex = 0
	}
	return t.assessmentRepo.Upsert(ctx, repository.ProgressUpdate{
		Key:               key,
		Status:            model.StatusInProgress,
		LastQuestionIndex: questionIndex,
		IndexPolicy:       repository.IndexRatchet,
		At:                t.now().UTC(),
	})
}
