package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	audioExtensions  = []string{".mp3", ".wav", ".ogg"}
	practiceNumberRe = regexp.MustCompile(`(?i)practice\s*(\d+)`)
	firstNumberRe    = regexp.MustCompile(`(\d+)`)
)

type promptTexts struct {
	instructionText  string
	instructionHint  string
	practiceText     string // takes the practice number
	practiceHint     string
	testText         string // takes the question number
	testInstructions string
}

var localizedPrompts = map[string]promptTexts{
	"english": {
		instructionText:  "Instructions",
		instructionHint:  "Please listen to these instructions carefully.",
		practiceText:     "Practice %d",
		practiceHint:     "This is a practice question. Please respond to familiarize yourself with the recording system.",
		testText:         "Question %d",
		testInstructions: "Listen carefully and speak clearly into the microphone.",
	},
	"chinese": {
		instructionText:  "指示",
		instructionHint:  "请仔细听这些指示。",
		practiceText:     "练习 %d",
		practiceHint:     "这是一个练习问题。请回答以熟悉录音系统。",
		testText:         "问题 %d",
		testInstructions: "请仔细听并清晰地对着麦克风说话。",
	},
}

// PromptPrefix is where the prompt audio for a language lives in the bucket.
func PromptPrefix(language string) string {
	if language == "chinese" || language == "mandarin" {
		return "prompts/mandarin_sentences/"
	}
	return fmt.Sprintf("prompts/%s_sentences/", language)
}

// promptNumber is the first number in a file name, ignoring its extension.
func promptNumber(name string) int {
	return numberIn(firstNumberRe, strings.TrimSuffix(name, path.Ext(name)))
}

func isAudioFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range audioExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func numberIn(re *regexp.Regexp, name string) int {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// classifiedPrompts splits listed objects into instruction, practice and test prompts,
// each in presentation order.
type classifiedPrompts struct {
	instructions []storage.ObjectInfo
	practice     []storage.ObjectInfo
	tests        []storage.ObjectInfo
}

func classifyPrompts(objects []storage.ObjectInfo) classifiedPrompts {
	var c classifiedPrompts
	for _, obj := range objects {
		if !isAudioFile(obj.Path) {
			continue
		}
		lower := strings.ToLower(path.Base(obj.Path))
		switch {
		case strings.Contains(lower, "instruction"):
			c.instructions = append(c.instructions, obj)
		case strings.Contains(lower, "practice"):
			c.practice = append(c.practice, obj)
		default:
			c.tests = append(c.tests, obj)
		}
	}

	sort.SliceStable(c.instructions, func(i, j int) bool {
		return c.instructions[i].Path < c.instructions[j].Path
	})
	sort.SliceStable(c.practice, func(i, j int) bool {
		return numberIn(practiceNumberRe, path.Base(c.practice[i].Path)) < numberIn(practiceNumberRe, path.Base(c.practice[j].Path))
	})
	sort.SliceStable(c.tests, func(i, j int) bool {
		a, b := path.Base(c.tests[i].Path), path.Base(c.tests[j].Path)
		na, nb := promptNumber(a), promptNumber(b)
		// numbered prompts first, in number order, then the rest by name
		switch {
		case na != 0 && nb != 0 && na != nb:
			return na < nb
		case (na != 0) != (nb != 0):
			return na != 0
		}
		return a < b
	})
	return c
}

// Import rebuilds a language's question catalog from the prompt audio in storage.
func (s *questionService) Import(ctx context.Context, language string) (*dto.QuestionImportResultDTO, error) {
	language = normalizeLanguage(language)
	prefix := PromptPrefix(language)
	texts, ok := localizedPrompts[language]
	if !ok {
		texts = localizedPrompts["english"]
	}

	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Import: failed to list prompt objects")
		return nil, apperr.Upstream(err, "could not list prompt audio")
	}
	prompts := classifyPrompts(objects)
	if len(prompts.instructions)+len(prompts.practice)+len(prompts.tests) == 0 {
		return nil, apperr.Validation("no audio prompts found under %s", prefix)
	}

	var questions []model.Question
	add := func(obj storage.ObjectInfo, audioType model.AudioType, display int, text, instructions string) error {
		url, err := s.store.SignedURL(ctx, obj.Path)
		if err != nil {
			return apperr.Upstream(err, "could not sign prompt audio url")
		}
		questions = append(questions, model.Question{
			Language:               language,
			SequenceID:             len(questions) + 1,
			AudioType:              audioType,
			DisplayNumber:          display,
			Text:                   text,
			AudioPromptURL:         url,
			AudioPromptStoragePath: obj.Path,
			Instructions:           instructions,
			RequiresRecording:      audioType != model.AudioTypeInstruction,
		})
		return nil
	}

	for _, obj := range prompts.instructions {
		if err := add(obj, model.AudioTypeInstruction, 0, texts.instructionText, texts.instructionHint); err != nil {
			return nil, err
		}
	}
	for i, obj := range prompts.practice {
		n := numberIn(practiceNumberRe, path.Base(obj.Path))
		if n == 0 {
			n = i + 1
		}
		if err := add(obj, model.AudioTypePractice, n, fmt.Sprintf(texts.practiceText, n), texts.practiceHint); err != nil {
			return nil, err
		}
	}
	for i, obj := range prompts.tests {
		n := promptNumber(path.Base(obj.Path))
		if n == 0 {
			n = i + 1
		}
		if err := add(obj, model.AudioTypeTest, n, fmt.Sprintf(texts.testText, n), texts.testInstructions); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.ReplaceLanguage(ctx, language, questions); err != nil {
		log.Error().Err(err).Str("language", language).Msg("Import: failed to replace questions")
		return nil, err
	}

	log.Info().Str("language", language).
		Int("instructions", len(prompts.instructions)).
		Int("practice", len(prompts.practice)).
		Int("test", len(prompts.tests)).
		Msg("Imported questions from storage")

	return &dto.QuestionImportResultDTO{
		Language:     language,
		Prefix:       prefix,
		Instructions: len(prompts.instructions),
		Practice:     len(prompts.practice),
		Test:         len(prompts.tests),
		Total:        len(questions),
	}, nil
}
