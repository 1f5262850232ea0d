package service

import (
	"encoding/json"

	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

func toAssessmentDTO(a *model.Assessment) dto.AssessmentDTO {
	var resp dto.AssessmentDTO
	if err := copier.Copy(&resp, a); err != nil {
		log.Warn().Err(err).Msg("Failed to copy Assessment model to AssessmentDTO")
	}
	resp.Status = string(a.Status)
	return resp
}

func toQuestionDTO(q *model.Question) dto.QuestionDTO {
	var resp dto.QuestionDTO
	if err := copier.Copy(&resp, q); err != nil {
		log.Warn().Err(err).Msg("Failed to copy Question model to QuestionDTO")
	}
	resp.AudioType = string(q.AudioType)
	return resp
}

func toParticipantDTO(p *model.Participant) dto.ParticipantDTO {
	var resp dto.ParticipantDTO
	if err := copier.Copy(&resp, p); err != nil {
		log.Warn().Err(err).Msg("Failed to copy Participant model to ParticipantDTO")
	}
	return resp
}

func toQuestionSummary(q *model.Question) *dto.QuestionSummaryDTO {
	if q == nil {
		return nil
	}
	return &dto.QuestionSummaryDTO{
		ID:            q.ID,
		SequenceID:    q.SequenceID,
		AudioType:     string(q.AudioType),
		DisplayNumber: q.DisplayNumber,
		Text:          q.Text,
	}
}

// uuid and datatypes.JSON do not convert cleanly with copier, so recordings are mapped by hand.
func toRecordingDTO(r *model.Recording, question *model.Question) dto.RecordingDTO {
	resp := dto.RecordingDTO{
		ID:               r.ID.String(),
		ParticipantID:    r.ParticipantID,
		QuestionID:       r.QuestionID,
		Question:         toQuestionSummary(question),
		Language:         r.Language,
		TestIndex:        r.TestIndex,
		AudioURL:         r.AudioURL,
		AudioStoragePath: r.AudioStoragePath,
		DurationMs:       r.DurationMs,
		Transcription:    r.Transcription,
		AnalyzedAt:       r.AnalyzedAt,
		CreatedAt:        r.CreatedAt,
	}
	if len(r.AnalysisResults) > 0 {
		resp.AnalysisResults = json.RawMessage(r.AnalysisResults)
	}
	return resp
}

// AssessmentResponse is the HTTP shape of an assessment record.
func AssessmentResponse(a *model.Assessment) dto.AssessmentDTO {
	return toAssessmentDTO(a)
}
