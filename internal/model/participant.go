package model

import "time"

type Participant struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	ParticipantID string    `json:"participantId" gorm:"not null;uniqueIndex"`
	Age           *int      `json:"age,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Language      string    `json:"language,omitempty"`
	Notes         string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
