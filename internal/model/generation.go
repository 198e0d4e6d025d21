package model

// ComplexityLevel — стилистический уровень генерации. Выбирает один из
// четырёх под-шаблонов промпта (лексика и структура повествования).
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityStandard ComplexityLevel = "standard"
	ComplexityComplex  ComplexityLevel = "complex"
	ComplexityLiterary ComplexityLevel = "literary"
)

// Valid проверяет, что уровень — один из четырёх поддерживаемых.
func (l ComplexityLevel) Valid() bool {
	switch l {
	case ComplexitySimple, ComplexityStandard, ComplexityComplex, ComplexityLiterary:
		return true
	}
	return false
}

// GenerationMode определяет конвейер генерации главы.
type GenerationMode string

const (
	ModeSinglePass GenerationMode = "single-pass"
	ModeMultiPass  GenerationMode = "multi-pass"
)

// ContextDetail — текстовый бюджет рендера StoryContext.
type ContextDetail string

const (
	DetailFull    ContextDetail = "full"
	DetailSummary ContextDetail = "summary"
	DetailMinimal ContextDetail = "minimal"
)

// FocusArea — направление стилистического улучшения текста.
type FocusArea string

const (
	FocusDialogue    FocusArea = "dialogue"
	FocusDescription FocusArea = "description"
	FocusPacing      FocusArea = "pacing"
	FocusCharacter   FocusArea = "character"
	FocusGeneral     FocusArea = "general"
)

// Границы целевого объёма главы в словах.
const (
	MinTargetWordCount     = 1500
	MaxTargetWordCount     = 5000
	DefaultTargetWordCount = 2500
)

// GenerationRequest — входные параметры одного вызова оркестратора.
// Запрос неизменяем на протяжении вызова.
type GenerationRequest struct {
	TargetWordCount     int             `json:"target_word_count"`
	QualityCheckEnabled bool            `json:"quality_check_enabled"`
	CustomPrompt        string          `json:"custom_prompt,omitempty"`
	ComplexityLevel     ComplexityLevel `json:"complexity_level,omitempty"`
	Mode                GenerationMode  `json:"mode,omitempty"`
	Feedback            []string        `json:"feedback,omitempty"` // корректирующие замечания для повторной генерации
}

// Normalize приводит запрос к допустимым значениям: объём зажимается в
// [MinTargetWordCount, MaxTargetWordCount] (0 → значение по умолчанию),
// пустой режим трактуется как single-pass.
func (r GenerationRequest) Normalize() GenerationRequest {
	if r.TargetWordCount == 0 {
		r.TargetWordCount = DefaultTargetWordCount
	}
	if r.TargetWordCount < MinTargetWordCount {
		r.TargetWordCount = MinTargetWordCount
	}
	if r.TargetWordCount > MaxTargetWordCount {
		r.TargetWordCount = MaxTargetWordCount
	}
	if r.Mode == "" {
		r.Mode = ModeSinglePass
	}
	return r
}

// QualityReport — результат эвристической оценки текста.
// OverallScore — детерминированная чистая функция текста и целевого объёма.
type QualityReport struct {
	OverallScore    float64            `json:"overall_score"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Issues          []string           `json:"issues"`
	Suggestions     []string           `json:"suggestions"`
}

// GenerationResult — итоговый артефакт генерации. Оркестратор сам ничего
// не пишет в хранилище: результат отдаётся транспортному слою.
type GenerationResult struct {
	Text            string         `json:"text"`
	WordCount       int            `json:"word_count"`
	TokensUsed      int            `json:"tokens_used"`
	ModelIdentifier string         `json:"model_identifier"`
	FinishReason    string         `json:"finish_reason"`
	QualityReport   *QualityReport `json:"quality_report,omitempty"`
	PassesCompleted int            `json:"passes_completed"`
	Warning         string         `json:"warning,omitempty"` // порог качества не достигнут после всех попыток
}
