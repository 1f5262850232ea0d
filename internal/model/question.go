package model

import "time"

type AudioType string

const (
	AudioTypeInstruction AudioType = "instruction"
	AudioTypePractice    AudioType = "practice"
	AudioTypeTest        AudioType = "test"
)

// Question is one audio prompt. SequenceID orders the prompts within a language;
// (AudioType, DisplayNumber) is only a label and may repeat.
type Question struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	Language               string    `json:"language" gorm:"not null;uniqueIndex:idx_question_language_sequence"`
	SequenceID             int       `json:"sequenceId" gorm:"not null;uniqueIndex:idx_question_language_sequence"`
	AudioType              AudioType `json:"audioType" gorm:"type:varchar(16);not null;index"`
	DisplayNumber          int       `json:"displayNumber" gorm:"not null"`
	Text                   string    `json:"text" gorm:"type:text;not null"`
	AudioPromptURL         string    `json:"audioPromptUrl" gorm:"type:text"`
	AudioPromptStoragePath string    `json:"audioPromptStoragePath"`
	Instructions           string    `json:"instructions" gorm:"type:text"`
	RequiresRecording      bool      `json:"requiresRecording" gorm:"not null"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Index is the 0-based position of the question in its assessment flow: SequenceID-1,
// falling back to DisplayNumber-1 when no sequence is set. Never negative.
func (q *Question) Index() int {
	idx := 0
	switch {
	case q.SequenceID > 0:
		idx = q.SequenceID - 1
	case q.DisplayNumber > 0:
		idx = q.DisplayNumber - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}
