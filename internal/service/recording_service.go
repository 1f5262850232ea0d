package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlandlab/voicetrack/config"
	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// RecordingUpload is a submitted audio response together with its form fields.
type RecordingUpload struct {
	Form        dto.RecordingUploadForm
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type RecordingService interface {
	Submit(ctx context.Context, upload RecordingUpload) (*dto.RecordingUploadResponse, error)
	ListByProgress(ctx context.Context, key model.ProgressKey) ([]dto.RecordingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RecordingDTO, error)
	// Delete removes the record. Removing the stored audio is best effort.
	Delete(ctx context.Context, id uuid.UUID) error
	Annotate(ctx context.Context, id uuid.UUID, req dto.RecordingAnalysisDTO) (*dto.RecordingDTO, error)
}

type recordingService struct {
	recordingRepo   repository.RecordingRepository
	questionRepo    repository.QuestionRepository
	participantRepo repository.ParticipantRepository
	tracker         ProgressTracker
	store           storage.Store
	maxUploadBytes  int64
	now             func() time.Time
}

func NewRecordingService(
	cfg *config.Config,
	recordingRepo repository.RecordingRepository,
	questionRepo repository.QuestionRepository,
	participantRepo repository.ParticipantRepository,
	tracker ProgressTracker,
	store storage.Store,
) RecordingService {
	return &recordingService{
		recordingRepo:   recordingRepo,
		questionRepo:    questionRepo,
		participantRepo: participantRepo,
		tracker:         tracker,
		store:           store,
		maxUploadBytes:  cfg.Server.MaxUploadBytes,
		now:             time.Now,
	}
}

func audioExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".wav"
}

func (s *recordingService) validateUpload(upload RecordingUpload) error {
	if upload.File == nil {
		return apperr.Validation("No audio file provided")
	}
	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "audio/") {
		return apperr.Validation("File type not supported. Please upload an audio file.")
	}
	if s.maxUploadBytes > 0 && upload.Size > s.maxUploadBytes {
		return apperr.Validation("File is too large. Maximum size is %d bytes.", s.maxUploadBytes)
	}
	return nil
}

// Submit stores the audio, persists the recording and then advances the assessment.
// Once the recording row exists the call succeeds even if the assessment update fails.
func (s *recordingService) Submit(ctx context.Context, upload RecordingUpload) (*dto.RecordingUploadResponse, error) {
	if err := s.validateUpload(upload); err != nil {
		return nil, err
	}
	key, err := validateKey(model.ProgressKey{
		ParticipantID: upload.Form.ParticipantID,
		Language:      upload.Form.Language,
		TestIndex:     upload.Form.TestIndex,
	})
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(ctx, upload.Form.QuestionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.participantRepo.EnsureExists(ctx, key.ParticipantID); err != nil {
		log.Error().Err(err).Str("participantId", key.ParticipantID).Msg("Submit: failed to ensure participant")
		return nil, err
	}

	objectPath := fmt.Sprintf("recordings/%s/%s_%d_%d_%d%s",
		url.PathEscape(key.ParticipantID), key.Language, key.TestIndex, question.ID,
		s.now().UnixMilli(), audioExtension(upload.Filename, upload.ContentType))
	obj, err := s.store.Upload(ctx, upload.File, objectPath, upload.ContentType)
	if err != nil {
		log.Error().Err(err).Str("path", objectPath).Msg("Submit: storage upload failed")
		return nil, apperr.Upstream(err, "could not upload recording")
	}

	recording := model.Recording{
		ParticipantID:    key.ParticipantID,
		QuestionID:       question.ID,
		Language:         key.Language,
		TestIndex:        key.TestIndex,
		AudioURL:         obj.URL,
		AudioStoragePath: obj.Path,
		ContentType:      upload.ContentType,
		DurationMs:       upload.Form.Duration,
	}
	if err := s.recordingRepo.Create(ctx, &recording); err != nil {
		log.Error().Err(err).Str("path", obj.Path).Msg("Submit: failed to persist recording")
		if delErr := s.store.Delete(ctx, obj.Path); delErr != nil {
			log.Warn().Err(delErr).Str("path", obj.Path).Msg("Submit: could not remove orphaned audio")
		}
		return nil, err
	}

	if _, err := s.tracker.RecordProgress(ctx, key, question.Index()); err != nil {
		log.Error().Err(err).
			Str("participantId", key.ParticipantID).Str("language", key.Language).Int("testIndex", key.TestIndex).
			Str("recordingId", recording.ID.String()).
			Msg("Submit: assessment update failed, recording kept")
	}

	return &dto.RecordingUploadResponse{
		Success: true,
		Recording: dto.RecordingCreatedDTO{
			ID:        recording.ID.String(),
			AudioURL:  recording.AudioURL,
			Language:  recording.Language,
			TestIndex: recording.TestIndex,
		},
	}, nil
}

// present maps a recording for output, re-signing its audio URL.
func (s *recordingService) present(ctx context.Context, r *model.Recording, question *model.Question) dto.RecordingDTO {
	resp := toRecordingDTO(r, question)
	if r.AudioStoragePath == "" {
		return resp
	}
	if url, err := s.store.SignedURL(ctx, r.AudioStoragePath); err == nil {
		resp.AudioURL = url
	} else {
		log.Warn().Err(err).Str("recordingId", r.ID.String()).Msg("Failed to re-sign recording url, using stored url")
	}
	return resp
}

// lookupQuestion tolerates questions deleted after the recording was made.
func (s *recordingService) lookupQuestion(ctx context.Context, id uint, cache map[uint]*model.Question) (*model.Question, error) {
	if q, ok := cache[id]; ok {
		return q, nil
	}
	q, err := s.questionRepo.FindByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		q, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[id] = q
	return q, nil
}

func (s *recordingService) ListByProgress(ctx context.Context, key model.ProgressKey) ([]dto.RecordingDTO, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	recordings, err := s.recordingRepo.FindByProgress(ctx, key)
	if err != nil {
		return nil, err
	}
	cache := make(map[uint]*model.Question)
	resp := make([]dto.RecordingDTO, 0, len(recordings))
	for i := range recordings {
		q, err := s.lookupQuestion(ctx, recordings[i].QuestionID, cache)
		if err != nil {
			return nil, err
		}
		resp = append(resp, s.present(ctx, &recordings[i], q))
	}
	return resp, nil
}

func (s *recordingService) Get(ctx context.Context, id uuid.UUID) (*dto.RecordingDTO, error) {
	recording, err := s.recordingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := s.lookupQuestion(ctx, recording.QuestionID, map[uint]*model.Question{})
	if err != nil {
		return nil, err
	}
	resp := s.present(ctx, recording, q)
	return &resp, nil
}

func (s *recordingService) Delete(ctx context.Context, id uuid.UUID) error {
	recording, err := s.recordingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.recordingRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, recording.AudioStoragePath); err != nil {
		log.Warn().Err(err).Str("recordingId", id.String()).Str("path", recording.AudioStoragePath).
			Msg("Recording deleted but stored audio was not removed")
	}
	return nil
}

func (s *recordingService) Annotate(ctx context.Context, id uuid.UUID, req dto.RecordingAnalysisDTO) (*dto.RecordingDTO, error) {
	if req.Transcription == nil && len(req.AnalysisResults) == 0 {
		return nil, apperr.Validation("transcription or analysisResults is required")
	}
	var analysis datatypes.JSON
	if len(req.AnalysisResults) > 0 {
		if !json.Valid(req.AnalysisResults) {
			return nil, apperr.Validation("analysisResults must be valid JSON")
		}
		analysis = datatypes.JSON(req.AnalysisResults)
	}
	if err := s.recordingRepo.UpdateAnalysis(ctx, id, req.Transcription, analysis, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
