package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fabula-server/internal/ai"
	"fabula-server/internal/contextbuilder"
	"fabula-server/internal/mocks"
	"fabula-server/internal/model"
	"fabula-server/internal/service"
)

var testStoryID = uuid.MustParse("7b8259a1-55a3-4ef1-9cb9-553fa9b26d39")

// goodChapterText строит текст, проходящий порог качества: 12 абзацев
// по ~175 слов, разнообразные предложения, прямая речь.
func goodChapterText() string {
	sentence := func(n int) string {
		words := make([]string, n)
		for i := range words {
			words[i] = fmt.Sprintf("word%d", i)
		}
		return strings.Join(words, " ") + "."
	}
	paragraph := func(lengths ...int) string {
		parts := make([]string, len(lengths))
		for i, n := range lengths {
			parts[i] = sentence(n)
		}
		return strings.Join(parts, " ")
	}

	var paragraphs []string
	for i := 0; i < 12; i++ {
		p := paragraph(4, 12, 25, 7, 18, 30, 9, 22, 15, 33)
		if i%3 == 0 {
			p = `"Hold the line," she said evenly. ` + p
		}
		paragraphs = append(paragraphs, p)
	}
	return strings.Join(paragraphs, "\n\n")
}

// weakDraftText строит короткий однообразный текст с клише; nuance
// регулирует длину, чтобы различать качество попыток.
func weakDraftText(sentences int) string {
	s := "His heart pounded loudly while his blood ran cold and the night marched on slowly without any sense of mercy."
	parts := make([]string, sentences)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

// setupStore настраивает мок хранилища с одной историей и планом из
// четырёх глав (первая уже сгенерирована).
func setupStore(t *testing.T) *mocks.MockStore {
	store := mocks.NewMockStore(t)

	story := &model.Story{
		ID:                 testStoryID,
		Title:              "The Hollow Crown",
		Premise:            "An exiled cartographer discovers the maps she draws change the land itself.",
		Genre:              "fantasy",
		TargetWordCount:    80000,
		TargetChapterCount: 12,
	}
	generated := "Chapter one content."
	chapters := []model.Chapter{
		{StoryID: testStoryID, Number: 1, Title: "Ink and Tide", Summary: "The bargain is struck.", Content: &generated, WordCount: 3},
		{StoryID: testStoryID, Number: 2, Title: "Upriver", Summary: "The crew grows suspicious."},
		{StoryID: testStoryID, Number: 3, Title: "The Fork", Summary: "A map redraws itself."},
		{StoryID: testStoryID, Number: 4, Title: "Old Debts", Summary: "Helder boards the barge."},
	}

	store.On("GetStory", mock.Anything, testStoryID).Return(story, nil)
	store.On("GetCharacters", mock.Anything, testStoryID).Return([]model.Character{
		{Name: "Mira Voss", Role: "protagonist"},
	}, nil)
	store.On("GetWorldElements", mock.Anything, testStoryID).Return([]model.WorldElement{}, nil)
	store.On("GetChapters", mock.Anything, testStoryID).Return(chapters, nil)
	return store
}

func newOrchestrator(t *testing.T, provider ai.Provider, store *mocks.MockStore) *service.Orchestrator {
	logger := zap.NewNop()
	assembler := contextbuilder.NewAssembler(store, logger)
	settings := service.NewSettings(model.ComplexityStandard)
	return service.NewOrchestrator(provider, store, assembler, settings, 0.7, 3, logger)
}

func TestGenerateChapter_PassesOnFirstAttempt(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.Result{Text: goodChapterText(), TokensUsed: 2800, ModelID: "gpt-4o", FinishReason: "stop"}, nil).
		Once()

	orch := newOrchestrator(t, provider, store)
	result, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		TargetWordCount:     2500,
		QualityCheckEnabled: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.QualityReport)
	assert.GreaterOrEqual(t, result.QualityReport.OverallScore, 0.7)
	assert.Equal(t, 1, result.PassesCompleted)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "gpt-4o", result.ModelIdentifier)
	assert.Equal(t, 2800, result.TokensUsed)
}

func TestGenerateChapter_RegeneratesWithFeedbackAndReturnsBest(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	var prompts []string
	record := func(args mock.Arguments) {
		prompts = append(prompts, args.String(1))
	}

	// Три слабые попытки; вторая чуть длиннее остальных и должна
	// стать лучшей.
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Run(record).Return(&ai.Result{Text: weakDraftText(20), ModelID: "gpt-4o"}, nil).Once()
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Run(record).Return(&ai.Result{Text: weakDraftText(40), ModelID: "gpt-4o"}, nil).Once()
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Run(record).Return(&ai.Result{Text: weakDraftText(10), ModelID: "gpt-4o"}, nil).Once()

	orch := newOrchestrator(t, provider, store)
	result, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		TargetWordCount:     2500,
		QualityCheckEnabled: true,
	})

	require.NoError(t, err)
	require.Len(t, prompts, 3)

	// Первая попытка идёт без фидбека, последующие несут проблемы
	// предыдущего захода.
	assert.NotContains(t, prompts[0], "CRITICAL QUALITY ISSUES DETECTED")
	assert.Contains(t, prompts[1], "CRITICAL QUALITY ISSUES DETECTED")
	assert.Contains(t, prompts[2], "CRITICAL QUALITY ISSUES DETECTED")

	// Исчерпание попыток — не ошибка: возвращается лучший результат
	// с предупреждением.
	assert.Equal(t, weakDraftText(40), result.Text)
	assert.Equal(t, 3, result.PassesCompleted)
	assert.Contains(t, result.Warning, "quality threshold 0.70 not met after 3 attempts")
	require.NotNil(t, result.QualityReport)
	assert.Less(t, result.QualityReport.OverallScore, 0.7)
}

func TestGenerateChapter_QualityDisabledSingleCall(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.Result{Text: weakDraftText(10), ModelID: "gpt-4o"}, nil).
		Once()

	orch := newOrchestrator(t, provider, store)
	result, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: false,
	})

	require.NoError(t, err)
	assert.Nil(t, result.QualityReport)
	assert.Equal(t, 1, result.PassesCompleted)
	assert.Empty(t, result.Warning)
}

func TestGenerateChapter_RequestFeedbackReachesPrompt(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	var prompt string
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(&ai.Result{Text: weakDraftText(10), ModelID: "gpt-4o"}, nil).
		Once()

	orch := newOrchestrator(t, provider, store)
	_, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: false,
		Feedback:            []string{"the toll gate scene drags"},
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, "- the toll gate scene drags")
}

func TestGenerateChapter_MultiPassChainsThreeCalls(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	structureOut := "Scene 1: the barge at dawn. Scene 2: the toll gate."
	characterOut := "Mira said nothing as the toll keeper counted twice."
	proseOut := goodChapterText()

	matchTemp := func(want float64) interface{} {
		return mock.MatchedBy(func(p ai.Params) bool {
			return p.Temperature != nil && *p.Temperature == want
		})
	}

	provider.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PASS 1")
	}), matchTemp(0.7)).Return(&ai.Result{Text: structureOut, TokensUsed: 400, ModelID: "gpt-4o"}, nil).Once()

	provider.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PASS 2") && strings.Contains(p, structureOut)
	}), matchTemp(0.8)).Return(&ai.Result{Text: characterOut, TokensUsed: 900, ModelID: "gpt-4o"}, nil).Once()

	provider.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PASS 3") && strings.Contains(p, characterOut)
	}), matchTemp(0.6)).Return(&ai.Result{Text: proseOut, TokensUsed: 3100, ModelID: "gpt-4o", FinishReason: "stop"}, nil).Once()

	orch := newOrchestrator(t, provider, store)
	result, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		TargetWordCount:     2500,
		QualityCheckEnabled: true,
		Mode:                model.ModeMultiPass,
	})

	require.NoError(t, err)
	// Итоговый текст — только вывод третьего прохода, токены суммируются.
	assert.Equal(t, proseOut, result.Text)
	assert.Equal(t, 400+900+3100, result.TokensUsed)
	assert.Equal(t, 3, result.PassesCompleted)
	assert.Empty(t, result.Warning)
}

func TestGenerateChapter_MultiPassErrorNamesFailedPass(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	provider.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PASS 1")
	}), mock.Anything).Return(&ai.Result{Text: "outline"}, nil).Once()
	provider.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PASS 2")
	}), mock.Anything).Return(nil, &ai.ConnectionError{Message: "dial tcp: refused"}).Once()

	orch := newOrchestrator(t, provider, store)
	_, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: true,
		Mode:                model.ModeMultiPass,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "character pass:")
	var connErr *ai.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestGenerateChapter_ProviderErrorsAreNotRetried(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &ai.AuthError{Message: "invalid api key"}).
		Once()

	orch := newOrchestrator(t, provider, store)
	_, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: true,
	})

	require.Error(t, err)
	var authErr *ai.AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestGenerateChapter_UnknownStory(t *testing.T) {
	store := mocks.NewMockStore(t)
	store.On("GetStory", mock.Anything, testStoryID).Return(nil, model.ErrNotFound)
	provider := mocks.NewMockProvider(t)

	orch := newOrchestrator(t, provider, store)
	_, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{})

	assert.ErrorIs(t, err, model.ErrNotFound)
	provider.AssertNotCalled(t, "GenerateText")
}

func TestGenerateChapter_ComplexitySnapshotFromSettings(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	var prompt string
	provider.On("GenerateText", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(&ai.Result{Text: "short"}, nil).
		Once()

	orch := newOrchestrator(t, provider, store)
	require.NoError(t, orch.Settings().SetComplexity(model.ComplexityLiterary))

	_, err := orch.GenerateChapter(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: false,
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, "COMPLEXITY LEVEL: LITERARY")
}

func TestGenerateChapterStream_BypassesQualityGate(t *testing.T) {
	store := setupStore(t)
	provider := mocks.NewMockProvider(t)

	fragments := make(chan ai.Fragment, 3)
	fragments <- ai.Fragment{Text: "The barge "}
	fragments <- ai.Fragment{Text: "slid past the gate."}
	close(fragments)

	provider.On("GenerateTextStream", mock.Anything, mock.Anything, mock.Anything).
		Return((<-chan ai.Fragment)(fragments), nil).
		Once()

	orch := newOrchestrator(t, provider, store)
	out, err := orch.GenerateChapterStream(context.Background(), testStoryID, 2, model.GenerationRequest{
		QualityCheckEnabled: true,
	})
	require.NoError(t, err)

	var full strings.Builder
	for fragment := range out {
		require.NoError(t, fragment.Err)
		full.WriteString(fragment.Text)
	}
	assert.Equal(t, "The barge slid past the gate.", full.String())
	provider.AssertNotCalled(t, "GenerateText")
}
