package model

import (
	"strings"
	"time"
)

const DefaultLanguage = "english"

type AssessmentStatus string

const (
	StatusNotStarted AssessmentStatus = "not_started"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

// Rank orders statuses along the only allowed direction of travel.
func (s AssessmentStatus) Rank() int {
	switch s {
	case StatusCompleted:
		return 2
	case StatusInProgress:
		return 1
	default:
		return 0
	}
}

func (s AssessmentStatus) Valid() bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusCompleted
}

// ProgressKey identifies one assessment run: a participant taking the test for a
// language for the TestIndex-th time.
type ProgressKey struct {
	ParticipantID string
	Language      string
	TestIndex     int
}

// Normalized applies the defaults used across the API: language "english", test index 0.
func (k ProgressKey) Normalized() ProgressKey {
	k.ParticipantID = strings.TrimSpace(k.ParticipantID)
	k.Language = strings.ToLower(strings.TrimSpace(k.Language))
	if k.Language == "" {
		k.Language = DefaultLanguage
	}
	if k.TestIndex < 0 {
		k.TestIndex = 0
	}
	return k
}

// Assessment is the progress record for one ProgressKey. The unique index makes
// the key a natural upsert target.
type Assessment struct {
	ID                uint             `gorm:"primarykey" json:"id,omitempty"`
	ParticipantID     string           `json:"participantId" gorm:"not null;uniqueIndex:idx_assessment_progress,priority:1"`
	Language          string           `json:"language" gorm:"not null;uniqueIndex:idx_assessment_progress,priority:2"`
	TestIndex         int              `json:"testIndex" gorm:"not null;uniqueIndex:idx_assessment_progress,priority:3"`
	Status            AssessmentStatus `json:"status" gorm:"type:varchar(16);not null"`
	StartedAt         *time.Time       `json:"startedAt"`
	CompletedAt       *time.Time       `json:"completedAt"`
	LastQuestionIndex int              `json:"lastQuestionIndex" gorm:"not null"`
	Notes             string           `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt         time.Time        `json:"createdAt,omitempty"`
	UpdatedAt         time.Time        `json:"updatedAt,omitempty"`
}

func (a *Assessment) Key() ProgressKey {
	return ProgressKey{ParticipantID: a.ParticipantID, Language: a.Language, TestIndex: a.TestIndex}
}

// NotStartedAssessment is what callers see for a key that has no stored record.
func NotStartedAssessment(key ProgressKey) *Assessment {
	return &Assessment{
		ParticipantID:     key.ParticipantID,
		Language:          key.Language,
		TestIndex:         key.TestIndex,
		Status:            StatusNotStarted,
		LastQuestionIndex: 0,
	}
}
