package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/dlandlab/voicetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(objects []storage.ObjectInfo) []string {
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		out = append(out, o.Path)
	}
	return out
}

func TestClassifyPrompts(t *testing.T) {
	var objects []storage.ObjectInfo
	for _, p := range []string{
		"prompts/english_sentences/10_dog.mp3",
		"prompts/english_sentences/Practice 2.wav",
		"prompts/english_sentences/2_cat.mp3",
		"prompts/english_sentences/instructions.mp3",
		"prompts/english_sentences/practice1.wav",
		"prompts/english_sentences/readme.txt",
		"prompts/english_sentences/bird.ogg",
	} {
		objects = append(objects, storage.ObjectInfo{Path: p})
	}

	c := classifyPrompts(objects)
	assert.Equal(t, []string{"prompts/english_sentences/instructions.mp3"}, paths(c.instructions))
	assert.Equal(t, []string{
		"prompts/english_sentences/practice1.wav",
		"prompts/english_sentences/Practice 2.wav",
	}, paths(c.practice))
	require.Len(t, c.tests, 3)
	assert.Equal(t, "prompts/english_sentences/2_cat.mp3", c.tests[0].Path)
	assert.Equal(t, "prompts/english_sentences/10_dog.mp3", c.tests[1].Path)
	assert.Equal(t, "prompts/english_sentences/bird.ogg", c.tests[2].Path)
}

func TestClassifyPromptsOrderIgnoresListingOrder(t *testing.T) {
	want := []string{"p/3_b.mp3", "p/12_a.mp3", "p/alpha.mp3", "p/zeta.mp3"}
	for _, listing := range [][]string{
		{"p/zeta.mp3", "p/12_a.mp3", "p/alpha.mp3", "p/3_b.mp3"},
		{"p/alpha.mp3", "p/3_b.mp3", "p/zeta.mp3", "p/12_a.mp3"},
		{"p/12_a.mp3", "p/zeta.mp3", "p/3_b.mp3", "p/alpha.mp3"},
	} {
		var objects []storage.ObjectInfo
		for _, p := range listing {
			objects = append(objects, storage.ObjectInfo{Path: p})
		}
		assert.Equal(t, want, paths(classifyPrompts(objects).tests), listing)
	}
	assert.Equal(t, 0, promptNumber("intro.mp3"))
	assert.Equal(t, 12, promptNumber("12_a.mp3"))
}

func TestPromptPrefix(t *testing.T) {
	assert.Equal(t, "prompts/english_sentences/", PromptPrefix("english"))
	assert.Equal(t, "prompts/mandarin_sentences/", PromptPrefix("chinese"))
	assert.Equal(t, "prompts/mandarin_sentences/", PromptPrefix("mandarin"))
}

func TestImportReplacesLanguageCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateQuestions(t, f.db, "chinese", 8)
	for _, p := range []string{"instruction.mp3", "practice 1.mp3", "1.mp3", "2.mp3", "3.mp3"} {
		_, err := f.store.Upload(ctx, strings.NewReader("x"), "prompts/mandarin_sentences/"+p, "audio/mpeg")
		require.NoError(t, err)
	}

	result, err := f.questions.Import(ctx, "Chinese")
	require.NoError(t, err)
	assert.Equal(t, dto.QuestionImportResultDTO{
		Language: "chinese", Prefix: "prompts/mandarin_sentences/",
		Instructions: 1, Practice: 1, Test: 3, Total: 5,
	}, *result)

	list, err := f.questions.List(ctx, dto.QuestionListQuery{Language: "chinese"})
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, string(model.AudioTypeInstruction), list[0].AudioType)
	assert.False(t, list[0].RequiresRecording)
	assert.Equal(t, "练习 1", list[1].Text)
	assert.Equal(t, 5, list[4].SequenceID)
	assert.Equal(t, 3, list[4].DisplayNumber)
	assert.True(t, list[4].RequiresRecording)
	assert.Contains(t, list[4].AudioPromptURL, "token=")
}

func TestImportWithoutPrompts(t *testing.T) {
	f := newFixture(t)
	_, err := f.questions.Import(context.Background(), "english")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestQuestionCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.questions.Create(ctx, dto.QuestionUpsertDTO{
		SequenceID: 1, AudioType: "instruction", Text: " Welcome ",
	})
	require.NoError(t, err)
	assert.Equal(t, "english", created.Language)
	assert.Equal(t, "Welcome", created.Text)
	assert.False(t, created.RequiresRecording)

	_, err = f.questions.Create(ctx, dto.QuestionUpsertDTO{SequenceID: 1, AudioType: "test", Text: "dup"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	second, err := f.questions.Create(ctx, dto.QuestionUpsertDTO{SequenceID: 2, AudioType: "test", DisplayNumber: 1, Text: "Q1"})
	require.NoError(t, err)
	assert.True(t, second.RequiresRecording)

	_, err = f.questions.Update(ctx, second.ID, dto.QuestionUpsertDTO{SequenceID: 1, AudioType: "test", Text: "Q1"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	updated, err := f.questions.Update(ctx, second.ID, dto.QuestionUpsertDTO{SequenceID: 2, AudioType: "test", DisplayNumber: 1, Text: "Question 1"})
	require.NoError(t, err)
	assert.Equal(t, "Question 1", updated.Text)

	require.NoError(t, f.questions.Delete(ctx, created.ID))
	_, err = f.questions.Get(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
