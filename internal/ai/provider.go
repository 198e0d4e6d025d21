package ai

import "context"

// Result содержит результат одного вызова генерации.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TokensUsed       int
	ModelID          string
	FinishReason     string
}

// Fragment — один фрагмент потоковой генерации. Err != nil означает, что
// поток оборвался; после такого фрагмента канал закрывается.
type Fragment struct {
	Text string
	Err  error
}

// ModelInfo описывает активный бэкенд для статусных эндпоинтов.
type ModelInfo struct {
	Provider string `json:"provider"` // cloud или local
	ModelID  string `json:"model_id"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Provider — единый контракт над взаимозаменяемыми бэкендами генерации
// текста. Оба варианта (облачный и локальный) нормализуются к нему.
type Provider interface {
	// GenerateText выполняет один полный запрос генерации.
	GenerateText(ctx context.Context, prompt string, params Params) (*Result, error)
	// GenerateTextStream возвращает канал фрагментов. Канал закрывается по
	// завершении потока; отмена ctx останавливает продюсера, явного вызова
	// отмены не требуется — достаточно перестать читать.
	GenerateTextStream(ctx context.Context, prompt string, params Params) (<-chan Fragment, error)
	// IsAvailable проверяет доступность бэкенда.
	IsAvailable(ctx context.Context) bool
	// EstimateTokens грубо оценивает число токенов в тексте. Оценка
	// используется только для предварительных проверок бюджета.
	EstimateTokens(text string) int
	// Info возвращает описание активной модели.
	Info() ModelInfo
}
