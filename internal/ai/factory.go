package ai

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fabula-server/internal/config"
)

// SupportedProviders перечисляет известные типы бэкендов.
var SupportedProviders = []string{"cloud", "local"}

// NewProvider создаёт бэкенд генерации в зависимости от конфигурации.
func NewProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "cloud":
		logger.Info("Используется AI провайдер: cloud (OpenAI-совместимый)")
		return newCloudProvider(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL, cfg.AIOrgID, cfg.AITimeout, logger), nil
	case "local":
		logger.Info("Используется AI провайдер: local (Ollama)")
		return newLocalProvider(cfg.OllamaHost, cfg.OllamaModel, cfg.AITimeout, logger)
	default:
		return nil, fmt.Errorf("неизвестный тип AI провайдера: '%s'", cfg.AIProvider)
	}
}
