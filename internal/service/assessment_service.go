package service

import (
	"context"
	"fmt"

	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/rs/zerolog/log"
)

// AssessmentService answers the read side: progress joined with completion figures.
type AssessmentService interface {
	Stats(ctx context.Context, key model.ProgressKey) (*dto.AssessmentStatsDTO, error)
	ForParticipant(ctx context.Context, participantID string) ([]dto.AssessmentWithStatsDTO, error)
	All(ctx context.Context) ([]dto.AssessmentWithStatsDTO, error)
}

type assessmentService struct {
	tracker         ProgressTracker
	calculator      CompletionCalculator
	assessmentRepo  repository.AssessmentRepository
	participantRepo repository.ParticipantRepository
}

func NewAssessmentService(
	tracker ProgressTracker,
	calculator CompletionCalculator,
	assessmentRepo repository.AssessmentRepository,
	participantRepo repository.ParticipantRepository,
) AssessmentService {
	return &assessmentService{
		tracker:         tracker,
		calculator:      calculator,
		assessmentRepo:  assessmentRepo,
		participantRepo: participantRepo,
	}
}

func (s *assessmentService) Stats(ctx context.Context, key model.ProgressKey) (*dto.AssessmentStatsDTO, error) {
	assessment, err := s.tracker.GetStatus(ctx, key)
	if err != nil {
		return nil, err
	}
	key = assessment.Key()
	completion, err := s.calculator.Compute(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("participantId", key.ParticipantID).Msg("Stats: failed to compute completion")
		return nil, fmt.Errorf("error computing completion: %w", err)
	}
	return &dto.AssessmentStatsDTO{
		TotalRecordings:      completion.TotalRecordings,
		TotalQuestions:       completion.TotalQuestions,
		CompletionPercentage: completion.Percentage,
		Status:               string(assessment.Status),
		StartedAt:            assessment.StartedAt,
		CompletedAt:          assessment.CompletedAt,
		LastQuestionIndex:    assessment.LastQuestionIndex,
		Language:             key.Language,
		TestIndex:            key.TestIndex,
	}, nil
}

func (s *assessmentService) ForParticipant(ctx context.Context, participantID string) ([]dto.AssessmentWithStatsDTO, error) {
	if _, err := s.participantRepo.FindByParticipantID(ctx, participantID); err != nil {
		return nil, err
	}
	assessments, err := s.assessmentRepo.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, assessments)
}

func (s *assessmentService) All(ctx context.Context) ([]dto.AssessmentWithStatsDTO, error) {
	assessments, err := s.assessmentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, assessments)
}

func (s *assessmentService) withStats(ctx context.Context, assessments []model.Assessment) ([]dto.AssessmentWithStatsDTO, error) {
	result := make([]dto.AssessmentWithStatsDTO, 0, len(assessments))
	for i := range assessments {
		a := &assessments[i]
		completion, err := s.calculator.Compute(ctx, a.Key())
		if err != nil {
			return nil, fmt.Errorf("error computing completion for %s/%s/%d: %w", a.ParticipantID, a.Language, a.TestIndex, err)
		}
		result = append(result, dto.AssessmentWithStatsDTO{
			AssessmentDTO:        toAssessmentDTO(a),
			TotalRecordings:      completion.TotalRecordings,
			TotalQuestions:       completion.TotalQuestions,
			CompletionPercentage: completion.Percentage,
		})
	}
	return result, nil
}
