package dto

import "time"

type QuestionListQuery struct {
	Language  string `form:"language"`
	AudioType string `form:"audioType" binding:"omitempty,oneof=instruction practice test"`
}

// QuestionUpsertDTO is used by admins to create or replace a question.
type QuestionUpsertDTO struct {
	Language               string `json:"language"`
	SequenceID             int    `json:"sequenceId" binding:"required,min=1"`
	AudioType              string `json:"audioType" binding:"required,oneof=instruction practice test"`
	DisplayNumber          int    `json:"displayNumber" binding:"min=0"`
	Text                   string `json:"text" binding:"required"`
	AudioPromptURL         string `json:"audioPromptUrl"`
	AudioPromptStoragePath string `json:"audioPromptStoragePath"`
	Instructions           string `json:"instructions"`
	RequiresRecording      *bool  `json:"requiresRecording"`
}

type QuestionImportDTO struct {
	Language string `json:"language" binding:"required"`
}

type QuestionImportResultDTO struct {
	Language     string `json:"language"`
	Prefix       string `json:"prefix"`
	Instructions int    `json:"instructions"`
	Practice     int    `json:"practice"`
	Test         int    `json:"test"`
	Total        int    `json:"total"`
}

type QuestionDTO struct {
	ID                     uint      `json:"id"`
	Language               string    `json:"language"`
	SequenceID             int       `json:"sequenceId"`
	AudioType              string    `json:"audioType"`
	DisplayNumber          int       `json:"displayNumber"`
	Text                   string    `json:"text"`
	AudioPromptURL         string    `json:"audioPromptUrl"`
	AudioPromptStoragePath string    `json:"audioPromptStoragePath,omitempty"`
	Instructions           string    `json:"instructions"`
	RequiresRecording      bool      `json:"requiresRecording"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
