package dto

import (
	"encoding/json"
	"time"
)

// RecordingUploadForm holds the non-file fields of the multipart upload.
type RecordingUploadForm struct {
	ParticipantID string `form:"participantId" binding:"required"`
	QuestionID    uint   `form:"questionId" binding:"required"`
	Duration      int64  `form:"duration" binding:"min=0"`
	Language      string `form:"language"`
	TestIndex     int    `form:"testIndex" binding:"min=0"`
}

type RecordingCreatedDTO struct {
	ID        string `json:"id"`
	AudioURL  string `json:"audioUrl"`
	Language  string `json:"language"`
	TestIndex int    `json:"testIndex"`
}

type RecordingUploadResponse struct {
	Success   bool                `json:"success"`
	Recording RecordingCreatedDTO `json:"recording"`
}

type QuestionSummaryDTO struct {
	ID            uint   `json:"id"`
	SequenceID    int    `json:"sequenceId"`
	AudioType     string `json:"audioType"`
	DisplayNumber int    `json:"displayNumber"`
	Text          string `json:"text"`
}

type RecordingDTO struct {
	ID               string              `json:"id"`
	ParticipantID    string              `json:"participantId"`
	QuestionID       uint                `json:"questionId"`
	Question         *QuestionSummaryDTO `json:"question,omitempty"`
	Language         string              `json:"language"`
	TestIndex        int                 `json:"testIndex"`
	AudioURL         string              `json:"audioUrl"`
	AudioStoragePath string              `json:"audioStoragePath"`
	DurationMs       int64               `json:"durationMs"`
	Transcription    *string             `json:"transcription,omitempty"`
	AnalysisResults  json.RawMessage     `json:"analysisResults,omitempty"`
	AnalyzedAt       *time.Time          `json:"analyzedAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// RecordingAnalysisDTO is posted by an external analysis process to annotate a recording.
type RecordingAnalysisDTO struct {
	Transcription   *string         `json:"transcription"`
	AnalysisResults json.RawMessage `json:"analysisResults"`
}
