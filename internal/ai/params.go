package ai

// Params — параметры генерации. Используем указатели, чтобы отличить 0/0.0
// от отсутствия: nil означает "использовать дефолт провайдера".
type Params struct {
	Temperature      *float64
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	MaxTokens        *int
	StopSequences    []string
}

// ForCreativeWriting — профиль для художественной прозы: умеренная
// температура, сильный штраф за повторяющиеся фразы.
func ForCreativeWriting() Params {
	return Params{
		Temperature:      floatPtr(0.7),
		TopP:             floatPtr(0.9),
		FrequencyPenalty: floatPtr(0.6),
		PresencePenalty:  floatPtr(0.4),
	}
}

// ForCharacterCreation — профиль для генерации персонажей: высокая
// креативность, штрафы против клишированных черт.
func ForCharacterCreation() Params {
	return Params{
		Temperature:      floatPtr(0.85),
		TopP:             floatPtr(0.85),
		FrequencyPenalty: floatPtr(0.4),
		PresencePenalty:  floatPtr(0.3),
	}
}

// ForPlotDevelopment — профиль для планов и сюжета: баланс креативности
// и связности.
func ForPlotDevelopment() Params {
	return Params{
		Temperature:      floatPtr(0.75),
		TopP:             floatPtr(0.9),
		FrequencyPenalty: floatPtr(0.25),
		PresencePenalty:  floatPtr(0.15),
	}
}

// WithTemperature возвращает копию параметров с заданной температурой.
func (p Params) WithTemperature(t float64) Params {
	p.Temperature = &t
	return p
}

// WithMaxTokens возвращает копию параметров с заданным лимитом токенов.
func (p Params) WithMaxTokens(n int) Params {
	p.MaxTokens = &n
	return p
}

func floatPtr(f float64) *float64 { return &f }

// --- Вспомогательные функции для конвертации указателей в значения API ---

// float32Val конвертирует *float64 в float32; nil → 0 (API подставит дефолт).
func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 0
	}
	return float32(*f64)
}

// intVal конвертирует *int в int; 0 означает "не установлено".
func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
