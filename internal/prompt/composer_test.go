package prompt_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula-server/internal/model"
	"fabula-server/internal/prompt"
	"fabula-server/internal/quality"
)

// testContext возвращает контекст истории с фокусом на главе chapterNumber.
func testContext(chapterNumber int, previous []model.ChapterRef) *model.StoryContext {
	return &model.StoryContext{
		StoryMeta: model.StoryMeta{
			Title:              "The Hollow Crown",
			Premise:            "An exiled cartographer discovers the maps she draws change the land itself.",
			Genre:              "fantasy",
			TargetWordCount:    80000,
			TargetChapterCount: 12,
		},
		Characters: []model.Character{
			{Name: "Mira Voss", Role: "protagonist", Personality: "methodical, guarded"},
			{Name: "Captain Helder", Role: "antagonist", Personality: "charming, ruthless"},
		},
		WorldElements: map[string][]model.WorldElement{
			"Location": {{Name: "The Saltmarsh Archive", ElementType: "Location", Description: "A flooded library."}},
		},
		ChapterFocus: &model.ChapterFocus{
			CurrentChapter: &model.ChapterRef{
				Number:  chapterNumber,
				Title:   "Ink and Tide",
				Summary: "Mira trades her last honest map for passage upriver.",
			},
			PreviousChapters: previous,
		},
	}
}

func defaultRequest() model.GenerationRequest {
	return model.GenerationRequest{
		TargetWordCount:     2500,
		QualityCheckEnabled: true,
		ComplexityLevel:     model.ComplexityStandard,
		Mode:                model.ModeSinglePass,
	}
}

func TestChapter_ContainsCoreDirectives(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.Chapter(testContext(1, nil), defaultRequest())

	assert.Contains(t, text, "TARGET: 2500 words")
	assert.Contains(t, text, fmt.Sprintf("Minimum %d substantial paragraphs", quality.MinParagraphs(2500)))
	assert.Contains(t, text, "NOW WRITE THE COMPLETE CHAPTER - 2500 WORDS MINIMUM.")
	assert.Contains(t, text, "STORY CONTEXT FOR CONSISTENCY:")
	assert.Contains(t, text, "The Hollow Crown")
	assert.Contains(t, text, "Mira Voss")
}

func TestChapter_InjectsEveryBannedPhrase(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.Chapter(testContext(1, nil), defaultRequest())

	for _, phrase := range quality.BannedPhrases {
		assert.Contains(t, text, fmt.Sprintf("- %q or any variation", phrase))
	}
}

func TestChapter_ExactlyOneComplexityBlock(t *testing.T) {
	composer := prompt.NewComposer()

	for _, level := range []model.ComplexityLevel{
		model.ComplexitySimple, model.ComplexityStandard, model.ComplexityComplex, model.ComplexityLiterary,
	} {
		req := defaultRequest()
		req.ComplexityLevel = level
		text := composer.Chapter(testContext(1, nil), req)

		marker := "COMPLEXITY LEVEL: " + strings.ToUpper(string(level))
		assert.Equal(t, 1, strings.Count(text, marker), "level %s", level)
		assert.Equal(t, 1, strings.Count(text, "COMPLEXITY LEVEL:"), "level %s", level)
	}
}

func TestChapter_CustomPromptComesLast(t *testing.T) {
	composer := prompt.NewComposer()
	req := defaultRequest()
	req.CustomPrompt = "Focus the chapter on the river crossing."

	text := composer.Chapter(testContext(1, nil), req)

	idx := strings.Index(text, "ADDITIONAL INSTRUCTIONS (HIGHEST PRIORITY):")
	require.Greater(t, idx, 0)
	assert.Contains(t, text[idx:], req.CustomPrompt)
	// После пользовательских инструкций других блоков нет.
	assert.NotContains(t, text[idx:], "NOW WRITE THE COMPLETE CHAPTER")
}

func TestChapter_OpeningVersusContinuation(t *testing.T) {
	composer := prompt.NewComposer()

	opening := composer.Chapter(testContext(1, nil), defaultRequest())
	assert.Contains(t, opening, "STORY OPENING:")
	assert.NotContains(t, opening, "CONTINUITY REQUIREMENTS:")
	assert.Contains(t, opening, "OPENING CHAPTER REQUIREMENTS:")

	previous := []model.ChapterRef{
		{Number: 1, Title: "Ink and Tide", Summary: "The bargain is struck."},
		{Number: 2, Title: "Upriver", Summary: "The crew grows suspicious."},
		{Number: 3, Title: "The Fork", Summary: "A map redraws itself."},
		{Number: 4, Title: "Old Debts", Summary: "Helder boards the barge."},
	}
	continuation := composer.Chapter(testContext(5, previous), defaultRequest())
	assert.Contains(t, continuation, "CONTINUITY REQUIREMENTS:")
	assert.NotContains(t, continuation, "STORY OPENING:")
	assert.Contains(t, continuation, "CONTINUING CHAPTER REQUIREMENTS:")

	// В блок непрерывности попадают только три последние главы.
	assert.NotContains(t, continuation, "Chapter 1: Ink and Tide")
	assert.Contains(t, continuation, "Chapter 4: Old Debts")
}

func TestChapter_FeedbackBlock(t *testing.T) {
	composer := prompt.NewComposer()
	req := defaultRequest()
	req.Feedback = []string{"too little dialogue for the amount of narration"}

	text := composer.Chapter(testContext(2, nil), req)

	assert.Contains(t, text, "CRITICAL QUALITY ISSUES DETECTED IN PREVIOUS ATTEMPT - MANDATORY FIXES:")
	assert.Contains(t, text, "- too little dialogue for the amount of narration")

	clean := composer.Chapter(testContext(2, nil), defaultRequest())
	assert.NotContains(t, clean, "CRITICAL QUALITY ISSUES DETECTED")
}

func TestMultiPassPromptsChain(t *testing.T) {
	composer := prompt.NewComposer()
	req := defaultRequest()

	structurePrompt := composer.StructurePass(testContext(3, nil), req)
	assert.Contains(t, structurePrompt, "PASS 1")
	assert.Contains(t, structurePrompt, "Do NOT write prose - structure only.")
	assert.Contains(t, structurePrompt, "Ink and Tide")

	structureOutput := "Scene 1: the barge at dawn. Scene 2: the toll gate."
	characterPrompt := composer.CharacterPass(structureOutput, req)
	assert.Contains(t, characterPrompt, "PASS 2")
	assert.Contains(t, characterPrompt, structureOutput)

	characterOutput := "Mira said nothing as the toll keeper counted the coins twice."
	prosePrompt := composer.ProsePass(characterOutput, req)
	assert.Contains(t, prosePrompt, "PASS 3")
	assert.Contains(t, prosePrompt, characterOutput)
	assert.Contains(t, prosePrompt, "Target: 2500 words.")
	// Финальный проход несёт и запрет клише, и директиву объёма.
	assert.Contains(t, prosePrompt, "ABSOLUTELY FORBIDDEN - BANNED PHRASES AND PATTERNS:")
	assert.Contains(t, prosePrompt, "TARGET: 2500 words")
}

func TestProsePass_CarriesFeedbackAndCustomPrompt(t *testing.T) {
	composer := prompt.NewComposer()
	req := defaultRequest()
	req.Feedback = []string{"sentence lengths are too uniform"}
	req.CustomPrompt = "Keep the ending unresolved."

	text := composer.ProsePass("draft content", req)

	assert.Contains(t, text, "- sentence lengths are too uniform")
	customIdx := strings.Index(text, "Keep the ending unresolved.")
	feedbackIdx := strings.Index(text, "CRITICAL QUALITY ISSUES DETECTED")
	require.Greater(t, customIdx, 0)
	require.Greater(t, feedbackIdx, 0)
	assert.Greater(t, customIdx, feedbackIdx)
}

func TestOutlinePrompt(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.Outline(testContext(1, nil), 15, model.ComplexityComplex)

	assert.Contains(t, text, "15-chapter novel outline")
	assert.Contains(t, text, "Chapter 1: [Title]")
	assert.Contains(t, text, "COMPLEXITY LEVEL: COMPLEX")

	// Нулевое значение берётся из метаданных истории.
	fallback := composer.Outline(testContext(1, nil), 0, model.ComplexityStandard)
	assert.Contains(t, fallback, "12-chapter novel outline")
}

func TestCharacterBatchPrompt(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.CharacterBatch(testContext(1, nil), 0, model.ComplexityStandard)

	assert.Contains(t, text, "Create 5 fully realized characters")
	assert.Contains(t, text, "1. [Full Name]")
	assert.Contains(t, text, "Role: [protagonist/antagonist/supporting]")
}

func TestWorldBatchPrompt(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.WorldBatch(testContext(1, nil), 0, model.ComplexityLiterary)

	assert.Contains(t, text, "Design 8 original")
	assert.Contains(t, text, "- [Name]")
	assert.Contains(t, text, "Type: [Location/Faction/Artifact/Culture/History/Technology]")
}

func TestEditingPrompt(t *testing.T) {
	composer := prompt.NewComposer()
	text := composer.Editing("The rain fell.", "Make it tense.", "Chapter 3 opening")

	assert.Contains(t, text, "EDITING INSTRUCTION: Make it tense.")
	assert.Contains(t, text, "CONTEXT: Chapter 3 opening")
	assert.Contains(t, text, "The rain fell.")

	noContext := composer.Editing("The rain fell.", "Make it tense.", "")
	assert.NotContains(t, noContext, "CONTEXT:")
}

func TestSophisticationPrompt(t *testing.T) {
	composer := prompt.NewComposer()
	original := strings.Repeat("word ", 100)

	text := composer.Sophistication(original, model.FocusDialogue)
	assert.Contains(t, text, "FOCUS AREA: DIALOGUE")
	assert.Contains(t, text, "approximately 150 words")

	// Неизвестный фокус откатывается к general.
	fallback := composer.Sophistication(original, model.FocusArea("unknown"))
	assert.Contains(t, fallback, "Improve all aspects of the writing simultaneously")
}
