package quality

import (
	"fmt"
	"math"
	"strings"

	"fabula-server/internal/model"
)

// Веса компонентов итоговой оценки.
const (
	weightLength      = 0.30
	weightOriginality = 0.20
	weightVariety     = 0.20
	weightDialogue    = 0.15
	weightStructure   = 0.15
)

// issueFloor — порог компонента, ниже которого фиксируется проблема.
const issueFloor = 0.5

// varietyReferenceStdDev — референсное стандартное отклонение длины
// предложения (в словах), при котором разнообразие считается максимальным.
const varietyReferenceStdDev = 6.0

// Границы целевой длины абзаца в словах.
const (
	paragraphBandMin = 150
	paragraphBandMax = 300
)

// BannedPhrases — клише, запрещённые в сгенерированной прозе. Список
// внедряется в промпты как негативное ограничение и используется при
// оценке оригинальности.
var BannedPhrases = []string{
	"little did", "unbeknownst", "time seemed to slow", "heart pounded",
	"blood ran cold", "breath caught", "world spun", "chill ran down",
	"wave of", "washed over", "couldn't help but", "deep inside told",
}

// MinParagraphs возвращает минимальную директиву по числу абзацев:
// ~200 слов на абзац, но не меньше восьми.
func MinParagraphs(targetWordCount int) int {
	n := targetWordCount / 200
	if n < 8 {
		n = 8
	}
	return n
}

// Assess оценивает текст по пяти взвешенным измерениям. Чистая функция:
// результат полностью определяется текстом и целевым объёмом.
func Assess(text string, targetWordCount int) model.QualityReport {
	wordCount := WordCount(text)
	paragraphs := Paragraphs(text)
	sentences := Sentences(text)

	length := lengthScore(wordCount, targetWordCount)
	originality := originalityScore(text, len(sentences))
	variety := varietyScore(sentences)
	dialogue := dialogueScore(paragraphs)
	structure := structureScore(paragraphs, targetWordCount)

	overall := weightLength*length +
		weightOriginality*originality +
		weightVariety*variety +
		weightDialogue*dialogue +
		weightStructure*structure

	report := model.QualityReport{
		OverallScore: clamp01(overall),
		ComponentScores: map[string]float64{
			"length":      length,
			"originality": originality,
			"variety":     variety,
			"dialogue":    dialogue,
			"structure":   structure,
		},
	}

	collectIssues(&report, wordCount, targetWordCount, paragraphs)
	return report
}

// lengthScore: достижение или превышение цели — 1.0, ниже цели —
// линейная деградация. Штрафа за перебор нет.
func lengthScore(wordCount, targetWordCount int) float64 {
	if targetWordCount <= 0 {
		return 0
	}
	return math.Min(float64(wordCount)/float64(targetWordCount), 1.0)
}

// originalityScore: доля предложений без запрещённых фраз.
func originalityScore(text string, sentenceCount int) float64 {
	if sentenceCount == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, phrase := range BannedPhrases {
		hits += strings.Count(lower, phrase)
	}
	return math.Max(0, 1.0-float64(hits)/float64(sentenceCount))
}

// varietyScore: нормированное стандартное отклонение длины предложения.
// Монотонные, одинаковые по длине предложения дают оценку около нуля.
func varietyScore(sentences []string) float64 {
	if len(sentences) < 2 {
		return 0
	}
	lengths := make([]float64, len(sentences))
	var sum float64
	for i, s := range sentences {
		lengths[i] = float64(WordCount(s))
		sum += lengths[i]
	}
	mean := sum / float64(len(lengths))
	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))
	return math.Min(math.Sqrt(variance)/varietyReferenceStdDev, 1.0)
}

// dialogueScore: фактические диалоговые абзацы против ожидаемых
// (30% от общего числа абзацев, минимум один).
func dialogueScore(paragraphs []string) float64 {
	if len(paragraphs) == 0 {
		return 0
	}
	dialogueCount := 0
	for _, p := range paragraphs {
		if isDialogueParagraph(p) {
			dialogueCount++
		}
	}
	expected := math.Max(1, 0.3*float64(len(paragraphs)))
	return math.Min(float64(dialogueCount)/expected, 1.0)
}

// structureScore: половина — выполнение минимальной директивы по числу
// абзацев, половина — доля абзацев в целевой полосе 150–300 слов.
func structureScore(paragraphs []string, targetWordCount int) float64 {
	if len(paragraphs) == 0 {
		return 0
	}
	minParas := MinParagraphs(targetWordCount)
	countScore := math.Min(float64(len(paragraphs))/float64(minParas), 1.0)

	inBand := 0
	for _, p := range paragraphs {
		wc := WordCount(p)
		if wc >= paragraphBandMin && wc <= paragraphBandMax {
			inBand++
		}
	}
	bandScore := float64(inBand) / float64(len(paragraphs))

	return 0.5*countScore + 0.5*bandScore
}

// collectIssues добавляет по одной проблеме и одной рекомендации на каждый
// компонент ниже порога. Порядок фиксирован для воспроизводимости.
func collectIssues(report *model.QualityReport, wordCount, targetWordCount int, paragraphs []string) {
	add := func(issue, suggestion string) {
		report.Issues = append(report.Issues, issue)
		report.Suggestions = append(report.Suggestions, suggestion)
	}

	if report.ComponentScores["length"] < issueFloor {
		deficit := 100 - int(math.Round(100*float64(wordCount)/float64(targetWordCount)))
		add(
			fmt.Sprintf("chapter is %d%% below target length (%d of %d words)", deficit, wordCount, targetWordCount),
			"expand scenes with concrete detail and action instead of summary to reach the target word count",
		)
	}
	if report.ComponentScores["originality"] < issueFloor {
		add(
			"text leans on banned clichéd phrasing",
			"remove clichéd expressions and replace them with specific, original imagery",
		)
	}
	if report.ComponentScores["variety"] < issueFloor {
		add(
			"sentence lengths are too uniform",
			"mix short punchy sentences with longer descriptive ones",
		)
	}
	if report.ComponentScores["dialogue"] < issueFloor {
		add(
			"too little dialogue for the amount of narration",
			"add character dialogue with distinct voices to balance narration",
		)
	}
	if report.ComponentScores["structure"] < issueFloor {
		add(
			fmt.Sprintf("weak paragraph structure (%d paragraphs, %d expected)", len(paragraphs), MinParagraphs(targetWordCount)),
			"break the text into more paragraphs of roughly 150-300 words each",
		)
	}
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
