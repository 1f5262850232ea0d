package dto

import "time"

// ParticipantUpdateDTO only touches the fields that are present.
type ParticipantUpdateDTO struct {
	Age      *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender   *string `json:"gender"`
	Language *string `json:"language"`
	Notes    *string `json:"notes"`
}

type ParticipantDTO struct {
	ParticipantID string    `json:"participantId"`
	Age           *int      `json:"age,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Language      string    `json:"language,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ParticipantDetailDTO struct {
	ParticipantDTO
	Assessment     AssessmentDTO `json:"assessment"`
	RecordingCount int64         `json:"recordingCount"`
}
