package repository

import (
	"context"
	"time"

	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordingRepository interface {
	Create(ctx context.Context, recording *model.Recording) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recording, error)
	FindByProgress(ctx context.Context, key model.ProgressKey) ([]model.Recording, error)
	CountByProgress(ctx context.Context, key model.ProgressKey) (int64, error)
	CountByParticipant(ctx context.Context, participantID string) (int64, error)
	UpdateAnalysis(ctx context.Context, id uuid.UUID, transcription *string, analysis datatypes.JSON, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recordingRepository struct {
	db *gorm.DB
}

func NewRecordingRepository(db *gorm.DB) RecordingRepository {
	return &recordingRepository{db: db}
}

func (r *recordingRepository) Create(ctx context.Context, recording *model.Recording) error {
	return translateError(r.db.WithContext(ctx).Create(recording).Error, "recording")
}

func (r *recordingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Recording, error) {
	var recording model.Recording
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recording).Error; err != nil {
		return nil, translateError(err, "recording")
	}
	return &recording, nil
}

func progressScope(key model.ProgressKey) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("participant_id = ? AND language = ? AND test_index = ?",
			key.ParticipantID, key.Language, key.TestIndex)
	}
}

func (r *recordingRepository) FindByProgress(ctx context.Context, key model.ProgressKey) ([]model.Recording, error) {
	var recordings []model.Recording
	err := r.db.WithContext(ctx).Scopes(progressScope(key)).Order("created_at ASC").Find(&recordings).Error
	if err != nil {
		return nil, translateError(err, "recording")
	}
	return recordings, nil
}

func (r *recordingRepository) CountByProgress(ctx context.Context, key model.ProgressKey) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recording{}).Scopes(progressScope(key)).Count(&count).Error
	return count, translateError(err, "recording")
}

func (r *recordingRepository) CountByParticipant(ctx context.Context, participantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recording{}).Where("participant_id = ?", participantID).Count(&count).Error
	return count, translateError(err, "recording")
}

func (r *recordingRepository) UpdateAnalysis(ctx context.Context, id uuid.UUID, transcription *string, analysis datatypes.JSON, at time.Time) error {
	updates := map[string]interface{}{"analyzed_at": at}
	if transcription != nil {
		updates["transcription"] = *transcription
	}
	if analysis != nil {
		updates["analysis_results"] = analysis
	}
	result := r.db.WithContext(ctx).Model(&model.Recording{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error, "recording")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "recording")
	}
	return nil
}

func (r *recordingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recording{})
	if result.Error != nil {
		return translateError(result.Error, "recording")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "recording")
	}
	return nil
}
