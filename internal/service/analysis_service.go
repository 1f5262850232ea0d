package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dlandlab/voicetrack/config"
	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// RecordingAnalyzer transcribes a stored recording with Gemini and saves the result on it.
type RecordingAnalyzer interface {
	Analyze(ctx context.Context, id uuid.UUID) (*dto.RecordingDTO, error)
}

// contentGenerator is the part of *genai.GenerativeModel the analyzer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type recordingAnalyzer struct {
	model         contentGenerator
	recordingRepo repository.RecordingRepository
	questionRepo  repository.QuestionRepository
	recordings    RecordingService
	store         storage.Store
}

// analysisOutput is the JSON shape requested from the model.
type analysisOutput struct {
	Transcription string          `json:"transcription"`
	Analysis      json.RawMessage `json:"analysis"`
}

func NewRecordingAnalyzer(
	cfg *config.Config,
	recordingRepo repository.RecordingRepository,
	questionRepo repository.QuestionRepository,
	recordings RecordingService,
	store storage.Store,
) (RecordingAnalyzer, error) {
	a := &recordingAnalyzer{
		recordingRepo: recordingRepo,
		questionRepo:  questionRepo,
		recordings:    recordings,
		store:         store,
	}
	if cfg.Analysis.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Recording analysis is disabled.")
		return a, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Analysis.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Analysis.GeminiModel)
	m.ResponseMIMEType = "application/json"
	a.model = m
	return a, nil
}

func analysisPrompt(r *model.Recording, q *model.Question) string {
	var b strings.Builder
	b.WriteString("You are a linguist analysing a participant's spoken response in a language assessment.\n")
	fmt.Fprintf(&b, "The response is in %s.\n", r.Language)
	if q != nil {
		fmt.Fprintf(&b, "The participant was answering prompt %d (%s): %q.\n", q.DisplayNumber, q.AudioType, q.Text)
	}
	b.WriteString("Transcribe the audio verbatim, then assess it.\n")
	b.WriteString(`Respond with a single JSON object of the form
{"transcription": "<verbatim transcript>", "analysis": {"fluency": <0-5>, "pronunciation": <0-5>, "grammar": <0-5>, "wordCount": <int>, "notes": "<short comments>"}}`)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// parseAnalysis accepts the model's JSON, tolerating a fenced code block around it.
func parseAnalysis(raw string) (*analysisOutput, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var out analysisOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("could not parse analysis response: %w", err)
	}
	if out.Transcription == "" && len(out.Analysis) == 0 {
		return nil, fmt.Errorf("analysis response is empty")
	}
	return &out, nil
}

func (a *recordingAnalyzer) Analyze(ctx context.Context, id uuid.UUID) (*dto.RecordingDTO, error) {
	if a.model == nil {
		return nil, apperr.Validation("recording analysis is not configured")
	}
	recording, err := a.recordingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	question, err := a.questionRepo.FindByID(ctx, recording.QuestionID)
	if apperr.Is(err, apperr.KindNotFound) {
		question, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	rc, err := a.store.Open(ctx, recording.AudioStoragePath)
	if err != nil {
		return nil, apperr.Upstream(err, "could not read recording audio")
	}
	defer rc.Close()
	audio, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperr.Upstream(err, "could not read recording audio")
	}

	mimeType := recording.ContentType
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	resp, err := a.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text(analysisPrompt(recording, question)),
	)
	if err != nil {
		log.Error().Err(err).Str("recordingId", id.String()).Msg("Gemini API error during analysis")
		return nil, apperr.Upstream(err, "analysis service failed")
	}
	out, err := parseAnalysis(responseText(resp))
	if err != nil {
		log.Warn().Err(err).Str("recordingId", id.String()).Msg("Failed to parse Gemini analysis")
		return nil, apperr.Upstream(err, "analysis service returned an unreadable response")
	}

	req := dto.RecordingAnalysisDTO{AnalysisResults: out.Analysis}
	if out.Transcription != "" {
		req.Transcription = &out.Transcription
	}
	return a.recordings.Annotate(ctx, id, req)
}
