package service

import (
	"context"
	"strings"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/rs/zerolog/log"
)

type ParticipantService interface {
	List(ctx context.Context) ([]dto.ParticipantDTO, error)
	Get(ctx context.Context, participantID string) (*dto.ParticipantDetailDTO, error)
	Update(ctx context.Context, participantID string, req dto.ParticipantUpdateDTO) (*dto.ParticipantDTO, error)
}

type participantService struct {
	participantRepo repository.ParticipantRepository
	assessmentRepo  repository.AssessmentRepository
	recordingRepo   repository.RecordingRepository
}

func NewParticipantService(
	participantRepo repository.ParticipantRepository,
	assessmentRepo repository.AssessmentRepository,
	recordingRepo repository.RecordingRepository,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		assessmentRepo:  assessmentRepo,
		recordingRepo:   recordingRepo,
	}
}

func (s *participantService) List(ctx context.Context) ([]dto.ParticipantDTO, error) {
	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ParticipantDTO, 0, len(participants))
	for i := range participants {
		resp = append(resp, toParticipantDTO(&participants[i]))
	}
	return resp, nil
}

// Get returns the participant with their most recently started assessment.
func (s *participantService) Get(ctx context.Context, participantID string) (*dto.ParticipantDetailDTO, error) {
	participant, err := s.participantRepo.FindByParticipantID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	assessments, err := s.assessmentRepo.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	count, err := s.recordingRepo.CountByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ParticipantDetailDTO{
		ParticipantDTO: toParticipantDTO(participant),
		RecordingCount: count,
	}
	if len(assessments) > 0 {
		detail.Assessment = toAssessmentDTO(&assessments[0])
	} else {
		detail.Assessment = dto.AssessmentDTO{ParticipantID: participantID, Status: "not_started"}
	}
	return detail, nil
}

func (s *participantService) Update(ctx context.Context, participantID string, req dto.ParticipantUpdateDTO) (*dto.ParticipantDTO, error) {
	participant, err := s.participantRepo.FindByParticipantID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if req.Age != nil {
		participant.Age = req.Age
	}
	if req.Gender != nil && *req.Gender != "" {
		participant.Gender = *req.Gender
	}
	if req.Language != nil && *req.Language != "" {
		participant.Language = strings.ToLower(strings.TrimSpace(*req.Language))
	}
	if req.Notes != nil {
		participant.Notes = *req.Notes
	}
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		log.Error().Err(err).Str("participantId", participantID).Msg("Failed to update participant")
		return nil, apperr.Internal(err, "failed to update participant")
	}
	resp := toParticipantDTO(participant)
	return &resp, nil
}
