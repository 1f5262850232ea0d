package repository

import (
	"context"

	"github.com/dlandlab/voicetrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository interface {
	// EnsureExists returns the participant, creating a bare record on first sight.
	EnsureExists(ctx context.Context, participantID string) (*model.Participant, error)
	FindByParticipantID(ctx context.Context, participantID string) (*model.Participant, error)
	FindAll(ctx context.Context) ([]model.Participant, error)
	Update(ctx context.Context, participant *model.Participant) error
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) EnsureExists(ctx context.Context, participantID string) (*model.Participant, error) {
	// DO NOTHING on the unique participant_id keeps concurrent first uploads from racing.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "participant_id"}}, DoNothing: true}).
		Create(&model.Participant{ParticipantID: participantID}).Error
	if err != nil {
		return nil, translateError(err, "participant")
	}
	return r.FindByParticipantID(ctx, participantID)
}

func (r *participantRepository) FindByParticipantID(ctx context.Context, participantID string) (*model.Participant, error) {
	var participant model.Participant
	if err := r.db.WithContext(ctx).Where("participant_id = ?", participantID).First(&participant).Error; err != nil {
		return nil, translateError(err, "participant")
	}
	return &participant, nil
}

func (r *participantRepository) FindAll(ctx context.Context) ([]model.Participant, error) {
	var participants []model.Participant
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&participants).Error; err != nil {
		return nil, translateError(err, "participant")
	}
	return participants, nil
}

func (r *participantRepository) Update(ctx context.Context, participant *model.Participant) error {
	return translateError(r.db.WithContext(ctx).Save(participant).Error, "participant")
}
