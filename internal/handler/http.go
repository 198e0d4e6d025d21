package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fabula-server/internal/ai"
	"fabula-server/internal/model"
	"fabula-server/internal/repository"
	"fabula-server/internal/service"
)

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// GenerationHandler обрабатывает HTTP запросы генерации.
type GenerationHandler struct {
	orchestrator *service.Orchestrator
	store        repository.Store
	logger       *zap.Logger
}

// NewGenerationHandler создает новый GenerationHandler.
func NewGenerationHandler(orchestrator *service.Orchestrator, store repository.Store, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		orchestrator: orchestrator,
		store:        store,
		logger:       logger.Named("GenerationHandler"),
	}
}

// RegisterRoutes регистрирует маршруты сервиса генерации.
func (h *GenerationHandler) RegisterRoutes(r *gin.Engine) {
	storiesGroup := r.Group("/stories/:id")
	{
		storiesGroup.POST("/generate/outline", h.generateOutline)
		storiesGroup.POST("/generate/characters", h.generateCharacters)
		storiesGroup.POST("/generate/world", h.generateWorldElements)
		storiesGroup.POST("/generate/chapters/:number", h.generateChapter)
		storiesGroup.POST("/generate/chapters/:number/multi-pass", h.generateChapterMultiPass)
		storiesGroup.POST("/generate/chapters/:number/regenerate", h.regenerateChapter)
		storiesGroup.GET("/chapters/:number/analyze-quality", h.analyzeChapterQuality)
	}

	generateGroup := r.Group("/generate")
	{
		generateGroup.POST("/edit", h.editText)
		generateGroup.POST("/sophisticate", h.sophisticateText)
	}

	r.GET("/providers", h.listProviders)
	r.GET("/providers/status", h.providerStatus)
	r.GET("/generation/complexity", h.getComplexity)
	r.POST("/generation/complexity", h.setComplexity)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// handleServiceError транслирует ошибки сервисного слоя в HTTP статусы.
// Ошибки провайдера различаем через errors.As: это восходящие (upstream)
// ошибки, клиентской аутентификации они не касаются.
func handleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var (
		rateLimitErr  *ai.RateLimitError
		authErr       *ai.AuthError
		connectionErr *ai.ConnectionError
		providerErr   *ai.ProviderError
	)

	switch {
	case errors.Is(err, model.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, APIError{Message: err.Error()})
	case errors.Is(err, model.ErrBadRequest), errors.Is(err, model.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, APIError{Message: err.Error()})
	case errors.As(err, &rateLimitErr):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, APIError{Message: "AI provider rate limit exceeded"})
	case errors.As(err, &authErr):
		logger.Error("Ошибка аутентификации у AI провайдера", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, APIError{Message: "AI provider authentication failed"})
	case errors.As(err, &connectionErr):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, APIError{Message: "AI provider is unreachable"})
	case errors.As(err, &providerErr), errors.Is(err, model.ErrEmptyResponse):
		logger.Error("Ошибка AI провайдера", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, APIError{Message: "AI provider request failed"})
	default:
		logger.Error("Внутренняя ошибка сервиса", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{Message: "Internal server error"})
	}
}

// providerStatusResponse описывает ответ статуса провайдера.
type providerStatusResponse struct {
	Provider  string `json:"provider"`
	ModelID   string `json:"model_id"`
	BaseURL   string `json:"base_url,omitempty"`
	Available bool   `json:"available"`
}

// listProviders перечисляет поддерживаемые бэкенды и отмечает активный.
func (h *GenerationHandler) listProviders(c *gin.Context) {
	active := h.orchestrator.Provider().Info().Provider
	providers := make([]gin.H, 0, len(ai.SupportedProviders))
	for _, name := range ai.SupportedProviders {
		providers = append(providers, gin.H{
			"provider": name,
			"active":   name == active,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// providerStatus возвращает активный бэкенд и его доступность.
func (h *GenerationHandler) providerStatus(c *gin.Context) {
	provider := h.orchestrator.Provider()
	info := provider.Info()
	c.JSON(http.StatusOK, providerStatusResponse{
		Provider:  info.Provider,
		ModelID:   info.ModelID,
		BaseURL:   info.BaseURL,
		Available: provider.IsAvailable(c.Request.Context()),
	})
}

// getComplexity возвращает текущий процессный уровень сложности.
func (h *GenerationHandler) getComplexity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"complexity_level": h.orchestrator.Settings().Complexity(),
	})
}

type setComplexityRequest struct {
	ComplexityLevel string `json:"complexity_level" binding:"required"`
}

// setComplexity меняет процессный уровень сложности. Уже идущие генерации
// продолжают работать со снятым в начале запроса уровнем.
func (h *GenerationHandler) setComplexity(c *gin.Context) {
	var req setComplexityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for setComplexity", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	level := model.ComplexityLevel(req.ComplexityLevel)
	if err := h.orchestrator.Settings().SetComplexity(level); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	h.logger.Info("Уровень сложности изменен", zap.String("complexity_level", string(level)))
	c.JSON(http.StatusOK, gin.H{"complexity_level": level})
}
