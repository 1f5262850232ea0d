package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dlandlab/voicetrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndexPolicy says how a ProgressUpdate treats the stored last_question_index.
type IndexPolicy int

const (
	// IndexKeep leaves the stored value untouched (0 on insert).
	IndexKeep IndexPolicy = iota
	// IndexOverwrite replaces the stored value.
	IndexOverwrite
	// IndexRatchet replaces the stored value only when the new one is greater.
	IndexRatchet
)

type ProgressUpdate struct {
	Key               model.ProgressKey
	Status            model.AssessmentStatus
	LastQuestionIndex int
	IndexPolicy       IndexPolicy
	At                time.Time
}

type AssessmentRepository interface {
	Find(ctx context.Context, key model.ProgressKey) (*model.Assessment, error)
	FindByParticipant(ctx context.Context, participantID string) ([]model.Assessment, error)
	FindAll(ctx context.Context) ([]model.Assessment, error)
	// Upsert applies the update in a single INSERT ... ON CONFLICT statement and
	// returns the stored record.
	Upsert(ctx context.Context, update ProgressUpdate) (*model.Assessment, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Find(ctx context.Context, key model.ProgressKey) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND language = ? AND test_index = ?", key.ParticipantID, key.Language, key.TestIndex).
		First(&assessment).Error
	if err != nil {
		return nil, translateError(err, "assessment")
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindByParticipant(ctx context.Context, participantID string) ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order(startedDesc).
		Find(&assessments).Error
	if err != nil {
		return nil, translateError(err, "assessment")
	}
	return assessments, nil
}

func (r *assessmentRepository) FindAll(ctx context.Context) ([]model.Assessment, error) {
	var assessments []model.Assessment
	if err := r.db.WithContext(ctx).Order(startedDesc).Find(&assessments).Error; err != nil {
		return nil, translateError(err, "assessment")
	}
	return assessments, nil
}

// Never-started rows sort last on both postgres and sqlite.
const startedDesc = "CASE WHEN started_at IS NULL THEN 1 ELSE 0 END, started_at DESC, id DESC"

func statusRankSQL(column string) string {
	return fmt.Sprintf("(CASE %s WHEN '%s' THEN 2 WHEN '%s' THEN 1 ELSE 0 END)",
		column, model.StatusCompleted, model.StatusInProgress)
}

// regressionGuard is true when the incoming row would lower the stored status.
var regressionGuard = statusRankSQL("excluded.status") + " < " + statusRankSQL("assessments.status")

func guarded(column, next string) clause.Expr {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %s THEN assessments.%s ELSE %s END", regressionGuard, column, next))
}

func upsertAssignments(policy IndexPolicy) clause.Set {
	set := map[string]interface{}{
		"status":       guarded("status", "excluded.status"),
		"started_at":   guarded("started_at", "COALESCE(assessments.started_at, excluded.started_at)"),
		"completed_at": guarded("completed_at", "COALESCE(assessments.completed_at, excluded.completed_at)"),
		"updated_at":   gorm.Expr("excluded.updated_at"),
	}
	switch policy {
	case IndexOverwrite:
		set["last_question_index"] = guarded("last_question_index", "excluded.last_question_index")
	case IndexRatchet:
		// Monotonic by itself, so it also applies to completed records.
		set["last_question_index"] = gorm.Expr(
			"CASE WHEN excluded.last_question_index > assessments.last_question_index " +
				"THEN excluded.last_question_index ELSE assessments.last_question_index END")
	}
	return clause.Assignments(set)
}

func (r *assessmentRepository) Upsert(ctx context.Context, update ProgressUpdate) (*model.Assessment, error) {
	at := update.At
	row := model.Assessment{
		ParticipantID: update.Key.ParticipantID,
		Language:      update.Key.Language,
		TestIndex:     update.Key.TestIndex,
		Status:        update.Status,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if update.IndexPolicy != IndexKeep {
		row.LastQuestionIndex = update.LastQuestionIndex
	}
	switch update.Status {
	case model.StatusInProgress:
		row.StartedAt = &at
	case model.StatusCompleted:
		row.CompletedAt = &at
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "language"}, {Name: "test_index"}},
			DoUpdates: upsertAssignments(update.IndexPolicy),
		}).
		Create(&row).Error
	if err != nil {
		return nil, translateError(err, "assessment")
	}
	return r.Find(ctx, update.Key)
}
