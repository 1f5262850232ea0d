package service

import (
	"context"
	"testing"
	"time"

	"github.com/dlandlab/voicetrack/config"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/dlandlab/voicetrack/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture wires the services against sqlite and a local store.
type fixture struct {
	db              *gorm.DB
	store           *storage.LocalStore
	cfg             *config.Config
	participantRepo repository.ParticipantRepository
	questionRepo    repository.QuestionRepository
	recordingRepo   repository.RecordingRepository
	assessmentRepo  repository.AssessmentRepository
	tracker         ProgressTracker
	calculator      CompletionCalculator
	assessments     AssessmentService
	participants    ParticipantService
	questions       QuestionService
	recordings      RecordingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080", "test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		db:              db,
		store:           store,
		cfg:             &config.Config{Server: config.Server{MaxUploadBytes: 1024}},
		participantRepo: repository.NewParticipantRepository(db),
		questionRepo:    repository.NewQuestionRepository(db),
		recordingRepo:   repository.NewRecordingRepository(db),
		assessmentRepo:  repository.NewAssessmentRepository(db),
	}
	f.tracker = NewProgressTracker(f.assessmentRepo)
	f.calculator = NewCompletionCalculator(f.recordingRepo, f.questionRepo)
	f.assessments = NewAssessmentService(f.tracker, f.calculator, f.assessmentRepo, f.participantRepo)
	f.participants = NewParticipantService(f.participantRepo, f.assessmentRepo, f.recordingRepo)
	f.questions = NewQuestionService(f.questionRepo, store)
	f.recordings = NewRecordingService(f.cfg, f.recordingRepo, f.questionRepo, f.participantRepo, f.tracker, store)
	return f
}

// failingTracker fails every write, standing in for a broken assessment store.
type failingTracker struct {
	ProgressTracker
	calls int
}

func (f *failingTracker) RecordProgress(ctx context.Context, key model.ProgressKey, questionIndex int) (*model.Assessment, error) {
	f.calls++
	return nil, context.DeadlineExceeded
}

func intPtr(v int) *int { return &v }
