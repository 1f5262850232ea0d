package service

import (
	"context"
	"testing"
	"time"

	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		submitted, total int64
		want             int
	}{
		{3, 10, 30},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CompletionPercentage(c.submitted, c.total), "%d/%d", c.submitted, c.total)
	}
}

func TestCompletionCalculatorCountsPerKeyAndLanguage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	questions := testutil.CreateQuestions(t, f.db, "english", 10)
	testutil.CreateQuestions(t, f.db, "chinese", 4)

	key := model.ProgressKey{ParticipantID: "P1", Language: "english"}
	for i := 0; i < 3; i++ {
		require.NoError(t, f.recordingRepo.Create(ctx, &model.Recording{
			ParticipantID: "P1", Language: "english", QuestionID: questions[i].ID,
			AudioURL: "u", AudioStoragePath: "p", CreatedAt: time.Now(),
		}))
	}
	// a retake does not count toward the first run
	require.NoError(t, f.recordingRepo.Create(ctx, &model.Recording{
		ParticipantID: "P1", Language: "english", TestIndex: 1, QuestionID: questions[0].ID,
		AudioURL: "u", AudioStoragePath: "p",
	}))

	c, err := f.calculator.Compute(ctx, key)
	require.NoError(t, err)
	assert.EqualValues(t, 3, c.TotalRecordings)
	assert.EqualValues(t, 10, c.TotalQuestions)
	assert.Equal(t, 30, c.Percentage)

	empty, err := f.calculator.Compute(ctx, model.ProgressKey{ParticipantID: "P1", Language: "spanish"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.TotalQuestions)
	assert.Equal(t, 0, empty.Percentage)
}
