package ai

import "github.com/pkoukk/tiktoken-go"

// estimateTokensByChars — грубая оценка: ~4 символа на токен. Используется
// как контрактный fallback, когда точный токенизатор недоступен.
func estimateTokensByChars(text string) int {
	return len(text) / 4
}

// estimateTokensForModel оценивает токены через tiktoken, если для модели
// есть кодировка, иначе падает обратно на оценку по символам.
func estimateTokensForModel(model, text string) int {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return estimateTokensByChars(text)
	}
	return len(tke.Encode(text, nil, nil))
}
