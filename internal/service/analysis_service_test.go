package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/testutil"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
	parts []genai.Part
}

func (s *stubGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.parts = parts
	if s.err != nil {
		return nil, s.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(s.reply)}},
	}}}, nil
}

func TestParseAnalysis(t *testing.T) {
	out, err := parseAnalysis("```json\n{\"transcription\":\"hi\",\"analysis\":{\"fluency\":3}}\n```")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Transcription)
	assert.JSONEq(t, `{"fluency":3}`, string(out.Analysis))

	_, err = parseAnalysis("Score: 3")
	assert.Error(t, err)
	_, err = parseAnalysis("{}")
	assert.Error(t, err)
}

func TestAnalyzeStoresResult(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	questions := testutil.CreateQuestions(t, f.db, "english", 1)
	resp, err := f.recordings.Submit(ctx, wavUpload("P1", questions[0].ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.Recording.ID)

	gen := &stubGenerator{reply: `{"transcription":"the cat sat","analysis":{"wordCount":3}}`}
	analyzer := &recordingAnalyzer{model: gen, recordingRepo: f.recordingRepo, questionRepo: f.questionRepo, recordings: f.recordings, store: f.store}

	got, err := analyzer.Analyze(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Transcription)
	assert.Equal(t, "the cat sat", *got.Transcription)
	assert.JSONEq(t, `{"wordCount":3}`, string(got.AnalysisResults))

	require.Len(t, gen.parts, 2)
	blob, ok := gen.parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "audio/wav", blob.MIMEType)
	assert.Equal(t, "RIFF0000WAVE", string(blob.Data))
	prompt, ok := gen.parts[1].(genai.Text)
	require.True(t, ok)
	assert.True(t, strings.Contains(string(prompt), "Question 1"))
}

func TestAnalyzeFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	questions := testutil.CreateQuestions(t, f.db, "english", 1)
	resp, err := f.recordings.Submit(ctx, wavUpload("P1", questions[0].ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.Recording.ID)

	disabled := &recordingAnalyzer{recordingRepo: f.recordingRepo, questionRepo: f.questionRepo, recordings: f.recordings, store: f.store}
	_, err = disabled.Analyze(ctx, id)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	failing := &recordingAnalyzer{model: &stubGenerator{err: context.DeadlineExceeded}, recordingRepo: f.recordingRepo, questionRepo: f.questionRepo, recordings: f.recordings, store: f.store}
	_, err = failing.Analyze(ctx, id)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	garbled := &recordingAnalyzer{model: &stubGenerator{reply: "not json"}, recordingRepo: f.recordingRepo, questionRepo: f.questionRepo, recordings: f.recordings, store: f.store}
	_, err = garbled.Analyze(ctx, id)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	_, err = failing.Analyze(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
