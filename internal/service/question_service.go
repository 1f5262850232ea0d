package service

import (
	"context"
	"strings"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	List(ctx context.Context, query dto.QuestionListQuery) ([]dto.QuestionDTO, error)
	Get(ctx context.Context, id uint) (*dto.QuestionDTO, error)
	Create(ctx context.Context, req dto.QuestionUpsertDTO) (*dto.QuestionDTO, error)
	Update(ctx context.Context, id uint, req dto.QuestionUpsertDTO) (*dto.QuestionDTO, error)
	Delete(ctx context.Context, id uint) error
	Import(ctx context.Context, language string) (*dto.QuestionImportResultDTO, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	store        storage.Store
}

func NewQuestionService(questionRepo repository.QuestionRepository, store storage.Store) QuestionService {
	return &questionService{questionRepo: questionRepo, store: store}
}

func normalizeLanguage(language string) string {
	return model.ProgressKey{Language: language}.Normalized().Language
}

// withFreshURL re-signs the prompt URL; stored URLs expire.
func (s *questionService) withFreshURL(ctx context.Context, q *model.Question) dto.QuestionDTO {
	resp := toQuestionDTO(q)
	if q.AudioPromptStoragePath == "" {
		return resp
	}
	url, err := s.store.SignedURL(ctx, q.AudioPromptStoragePath)
	if err != nil {
		log.Warn().Err(err).Uint("questionID", q.ID).Msg("Failed to re-sign prompt url, using stored url")
		return resp
	}
	resp.AudioPromptURL = url
	return resp
}

func (s *questionService) List(ctx context.Context, query dto.QuestionListQuery) ([]dto.QuestionDTO, error) {
	filter := repository.QuestionFilter{AudioType: model.AudioType(query.AudioType)}
	if query.Language != "" {
		filter.Language = normalizeLanguage(query.Language)
	}
	questions, err := s.questionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionDTO, 0, len(questions))
	for i := range questions {
		resp = append(resp, s.withFreshURL(ctx, &questions[i]))
	}
	return resp, nil
}

func (s *questionService) Get(ctx context.Context, id uint) (*dto.QuestionDTO, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.withFreshURL(ctx, question)
	return &resp, nil
}

func applyQuestion(q *model.Question, req dto.QuestionUpsertDTO) {
	q.Language = normalizeLanguage(req.Language)
	q.SequenceID = req.SequenceID
	q.AudioType = model.AudioType(req.AudioType)
	q.DisplayNumber = req.DisplayNumber
	q.Text = strings.TrimSpace(req.Text)
	q.AudioPromptURL = req.AudioPromptURL
	q.AudioPromptStoragePath = req.AudioPromptStoragePath
	q.Instructions = req.Instructions
	q.RequiresRecording = q.AudioType != model.AudioTypeInstruction
	if req.RequiresRecording != nil {
		q.RequiresRecording = *req.RequiresRecording
	}
}

// ensureSequenceFree rejects a (language, sequenceId) already used by another question.
func (s *questionService) ensureSequenceFree(ctx context.Context, language string, sequenceID int, selfID uint) error {
	existing, err := s.questionRepo.FindByLanguageAndSequence(ctx, language, sequenceID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return apperr.Validation("sequence %d already exists for language %s", sequenceID, language)
	}
	return nil
}

func (s *questionService) Create(ctx context.Context, req dto.QuestionUpsertDTO) (*dto.QuestionDTO, error) {
	var question model.Question
	applyQuestion(&question, req)
	if err := s.ensureSequenceFree(ctx, question.Language, question.SequenceID, 0); err != nil {
		return nil, err
	}
	// The unique index still catches a concurrent duplicate as a Validation error.
	if err := s.questionRepo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Msg("Failed to create question in database")
		return nil, err
	}
	resp := s.withFreshURL(ctx, &question)
	return &resp, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req dto.QuestionUpsertDTO) (*dto.QuestionDTO, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyQuestion(question, req)
	if err := s.ensureSequenceFree(ctx, question.Language, question.SequenceID, question.ID); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Update(ctx, question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, err
	}
	resp := s.withFreshURL(ctx, question)
	return &resp, nil
}

// Delete removes the question only; recordings that reference it are kept.
func (s *questionService) Delete(ctx context.Context, id uint) error {
	return s.questionRepo.Delete(ctx, id)
}
