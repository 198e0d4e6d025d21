package quality_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula-server/internal/quality"
)

// sentence возвращает предложение из n слов.
func sentence(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(words, " ") + "."
}

// paragraph возвращает абзац из предложений заданных длин.
func paragraph(lengths ...int) string {
	sentences := make([]string, len(lengths))
	for i, n := range lengths {
		sentences[i] = sentence(n)
	}
	return strings.Join(sentences, " ")
}

// goodChapter строит текст, удовлетворяющий всем эвристикам: 12 абзацев
// по ~175 слов, разнообразные длины предложений, каждый третий абзац с
// прямой речью.
func goodChapter() string {
	var paragraphs []string
	for i := 0; i < 12; i++ {
		if i%3 == 0 {
			p := `"Hello there," she said quietly. ` + paragraph(12, 25, 7, 18, 30, 9, 22, 15, 33)
			paragraphs = append(paragraphs, p)
			continue
		}
		paragraphs = append(paragraphs, paragraph(4, 12, 25, 7, 18, 30, 9, 22, 15, 33))
	}
	return strings.Join(paragraphs, "\n\n")
}

// clichedDraft строит короткий однообразный текст, насыщенный клише:
// 25 одинаковых предложений по 20 слов в одном абзаце.
func clichedDraft() string {
	s := "His heart pounded loudly while his blood ran cold and the night marched on slowly without any sense of mercy."
	sentences := make([]string, 25)
	for i := range sentences {
		sentences[i] = s
	}
	return strings.Join(sentences, " ")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, quality.WordCount(""))
	assert.Equal(t, 3, quality.WordCount("one  two\nthree"))
}

func TestParagraphs(t *testing.T) {
	text := "first paragraph\n\n\n\nsecond paragraph\n\n   \n\nthird"
	paras := quality.Paragraphs(text)
	require.Len(t, paras, 3)
	assert.Equal(t, "first paragraph", paras[0])
	assert.Equal(t, "third", paras[2])
}

func TestSentences(t *testing.T) {
	text := "One sentence. Another one! A question? Trailing tail without dot"
	sentences := quality.Sentences(text)
	require.Len(t, sentences, 4)
	assert.Equal(t, "One sentence.", sentences[0])
	assert.Equal(t, "Trailing tail without dot", sentences[3])

	// Многоточия и голая пунктуация не порождают пустых предложений.
	assert.Len(t, quality.Sentences("Wait... what?"), 2)
	assert.Empty(t, quality.Sentences("... !!! ???"))
}

func TestMinParagraphs(t *testing.T) {
	assert.Equal(t, 8, quality.MinParagraphs(1500))
	assert.Equal(t, 12, quality.MinParagraphs(2500))
	assert.Equal(t, 25, quality.MinParagraphs(5000))
	assert.Equal(t, 8, quality.MinParagraphs(0))
}

func TestAssess_GoodChapterPassesThreshold(t *testing.T) {
	text := goodChapter()
	require.GreaterOrEqual(t, quality.WordCount(text), 2000)

	report := quality.Assess(text, 2000)

	assert.GreaterOrEqual(t, report.OverallScore, 0.7)
	assert.LessOrEqual(t, report.OverallScore, 1.0)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Suggestions)

	assert.InDelta(t, 1.0, report.ComponentScores["length"], 0.001)
	assert.InDelta(t, 1.0, report.ComponentScores["originality"], 0.001)
	assert.InDelta(t, 1.0, report.ComponentScores["dialogue"], 0.001)
}

func TestAssess_ClichedDraftFails(t *testing.T) {
	text := clichedDraft()
	require.Equal(t, 500, quality.WordCount(text))

	report := quality.Assess(text, 2500)

	assert.Less(t, report.OverallScore, 0.7)
	assert.InDelta(t, 0.2, report.ComponentScores["length"], 0.001)
	assert.InDelta(t, 0.0, report.ComponentScores["originality"], 0.001)
	assert.InDelta(t, 0.0, report.ComponentScores["variety"], 0.001)
	assert.InDelta(t, 0.0, report.ComponentScores["dialogue"], 0.001)

	// Каждая проблема парна рекомендации; порядок фиксирован, длина — первая.
	require.Len(t, report.Issues, 5)
	require.Len(t, report.Suggestions, 5)
	assert.Equal(t, "chapter is 80% below target length (500 of 2500 words)", report.Issues[0])
}

func TestAssess_ScoreIsDeterministic(t *testing.T) {
	text := goodChapter()
	first := quality.Assess(text, 2500)
	second := quality.Assess(text, 2500)
	assert.Equal(t, first, second)
}

func TestAssess_LongerTextScoresHigher(t *testing.T) {
	full := goodChapter()
	truncated := strings.Join(quality.Paragraphs(full)[:6], "\n\n")

	fullReport := quality.Assess(full, 2000)
	truncatedReport := quality.Assess(truncated, 2000)

	assert.Greater(t, fullReport.OverallScore, truncatedReport.OverallScore)
}

func TestAssess_EmptyText(t *testing.T) {
	report := quality.Assess("", 2500)
	assert.InDelta(t, 0.0, report.OverallScore, 0.001)
	assert.NotEmpty(t, report.Issues)
}
