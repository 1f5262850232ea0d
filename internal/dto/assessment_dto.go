package dto

import "time"

// ProgressQuery is bound from ?language=&testIndex=.
type ProgressQuery struct {
	Language  string `form:"language"`
	TestIndex int    `form:"testIndex" binding:"min=0"`
}

// AssessmentStatusUpdateDTO is the body of POST /assessments/status.
type AssessmentStatusUpdateDTO struct {
	ParticipantID     string `json:"participantId" binding:"required"`
	Status            string `json:"status" binding:"required,oneof=not_started in_progress completed"`
	LastQuestionIndex *int   `json:"lastQuestionIndex" binding:"omitempty,min=0"`
	Language          string `json:"language"`
	TestIndex         int    `json:"testIndex" binding:"min=0"`
}

type AssessmentDTO struct {
	ParticipantID     string     `json:"participantId"`
	Language          string     `json:"language"`
	TestIndex         int        `json:"testIndex"`
	Status            string     `json:"status"`
	StartedAt         *time.Time `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt"`
	LastQuestionIndex int        `json:"lastQuestionIndex"`
	Notes             string     `json:"notes,omitempty"`
}

// AssessmentWithStatsDTO is an assessment annotated with its completion figures.
type AssessmentWithStatsDTO struct {
	AssessmentDTO
	TotalRecordings      int64 `json:"totalRecordings"`
	TotalQuestions       int64 `json:"totalQuestions"`
	CompletionPercentage int   `json:"completionPercentage"`
}

// AssessmentStatsDTO is the response of GET /recordings/stats/:participantId.
type AssessmentStatsDTO struct {
	TotalRecordings      int64      `json:"totalRecordings"`
	TotalQuestions       int64      `json:"totalQuestions"`
	CompletionPercentage int        `json:"completionPercentage"`
	Status               string     `json:"status"`
	StartedAt            *time.Time `json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt"`
	LastQuestionIndex    int        `json:"lastQuestionIndex"`
	Language             string     `json:"language"`
	TestIndex            int        `json:"testIndex"`
}
