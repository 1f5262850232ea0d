package repository

import (
	"context"

	"github.com/dlandlab/voicetrack/internal/model"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	Language  string
	AudioType model.AudioType
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindAll(ctx context.Context, filter QuestionFilter) ([]model.Question, error)
	FindByLanguageAndSequence(ctx context.Context, language string, sequenceID int) (*model.Question, error)
	CountByLanguage(ctx context.Context, language string) (int64, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint) error
	// ReplaceLanguage swaps the whole question set of a language in one transaction.
	ReplaceLanguage(ctx context.Context, language string, questions []model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return translateError(r.db.WithContext(ctx).Create(question).Error, "question")
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translateError(err, "question")
	}
	return &question, nil
}

func (r *questionRepository) FindAll(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	query := r.db.WithContext(ctx)
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.AudioType != "" {
		query = query.Where("audio_type = ?", filter.AudioType)
	}
	var questions []model.Question
	if err := query.Order("language ASC").Order("sequence_id ASC").Find(&questions).Error; err != nil {
		return nil, translateError(err, "question")
	}
	return questions, nil
}

func (r *questionRepository) FindByLanguageAndSequence(ctx context.Context, language string, sequenceID int) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).
		Where("language = ? AND sequence_id = ?", language, sequenceID).
		First(&question).Error
	if err != nil {
		return nil, translateError(err, "question")
	}
	return &question, nil
}

func (r *questionRepository) CountByLanguage(ctx context.Context, language string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Where("language = ?", language).Count(&count).Error
	return count, translateError(err, "question")
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return translateError(r.db.WithContext(ctx).Save(question).Error, "question")
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Question{}, id)
	if result.Error != nil {
		return translateError(result.Error, "question")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "question")
	}
	return nil
}

func (r *questionRepository) ReplaceLanguage(ctx context.Context, language string, questions []model.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("language = ?", language).Delete(&model.Question{}).Error; err != nil {
			return translateError(err, "question")
		}
		if len(questions) == 0 {
			return nil
		}
		return translateError(tx.CreateInBatches(&questions, 100).Error, "question")
	})
}
