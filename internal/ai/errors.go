package ai

import "fmt"

// Таксономия ошибок бэкенда. Ошибки никогда не глотаются молча: исходное
// сообщение провайдера сохраняется, вид ошибки различим через errors.As.

// RateLimitError — бэкенд сигнализирует троттлинг. Вызывающий должен
// отступить и повторить позже; гейтвей сам не повторяет.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// AuthError — неверные учётные данные. Фатально, повтор бессмысленен.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// ConnectionError — временный сетевой сбой, повтор безопасен.
type ConnectionError struct {
	Message string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s", e.Message)
}

// ProviderError — все остальные ошибки бэкенда.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Message)
}
