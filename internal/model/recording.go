package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recording references its participant and question by identifier only; there are
// no foreign keys, so deleting a question leaves its recordings in place.
type Recording struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID    string         `json:"participantId" gorm:"not null;index:idx_recording_progress,priority:1"`
	Language         string         `json:"language" gorm:"not null;index:idx_recording_progress,priority:2"`
	TestIndex        int            `json:"testIndex" gorm:"not null;index:idx_recording_progress,priority:3"`
	QuestionID       uint           `json:"questionId" gorm:"not null;index"`
	AudioURL         string         `json:"audioUrl" gorm:"type:text;not null"`
	AudioStoragePath string         `json:"audioStoragePath" gorm:"not null"`
	ContentType      string         `json:"contentType,omitempty"`
	DurationMs       int64          `json:"durationMs"`
	Transcription    *string        `json:"transcription,omitempty" gorm:"type:text"`
	AnalysisResults  datatypes.JSON `json:"analysisResults,omitempty"`
	AnalyzedAt       *time.Time     `json:"analyzedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (r *Recording) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Recording) Key() ProgressKey {
	return ProgressKey{ParticipantID: r.ParticipantID, Language: r.Language, TestIndex: r.TestIndex}
}
