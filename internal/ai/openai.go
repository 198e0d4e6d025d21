package ai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// cloudProvider реализует Provider поверх OpenAI-совместимого API
// через go-openai.
type cloudProvider struct {
	client  *openaigo.Client
	model   string
	baseURL string
	logger  *zap.Logger
}

func newCloudProvider(apiKey, model, baseURL, orgID string, timeout time.Duration, logger *zap.Logger) *cloudProvider {
	clientConfig := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if orgID != "" {
		clientConfig.OrgID = orgID
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	logger.Info("OpenAI клиент создан",
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("model", model),
		zap.Duration("timeout", timeout))

	return &cloudProvider{
		client:  openaigo.NewClientWithConfig(clientConfig),
		model:   model,
		baseURL: clientConfig.BaseURL,
		logger:  logger,
	}
}

func (p *cloudProvider) chatRequest(prompt string, params Params, stream bool) openaigo.ChatCompletionRequest {
	return openaigo.ChatCompletionRequest{
		Model: p.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		Stream:           stream,
		Temperature:      float32Val(params.Temperature),
		TopP:             float32Val(params.TopP),
		FrequencyPenalty: float32Val(params.FrequencyPenalty),
		PresencePenalty:  float32Val(params.PresencePenalty),
		MaxTokens:        intVal(params.MaxTokens),
		Stop:             params.StopSequences,
	}
}

// GenerateText выполняет один полный запрос генерации.
func (p *cloudProvider) GenerateText(ctx context.Context, prompt string, params Params) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error"}).Inc()
		return nil, &ProviderError{Message: "промпт пуст"}
	}

	startTime := time.Now()
	p.logger.Debug("Отправка запроса к OpenAI API",
		zap.String("model", p.model),
		zap.Int("prompt_bytes", len(prompt)))

	resp, err := p.client.CreateChatCompletion(ctx, p.chatRequest(prompt, params, false))
	duration := time.Since(startTime)

	if err != nil {
		p.logger.Warn("Ошибка от OpenAI API", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error"}).Inc()
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error_empty_response"}).Inc()
		return nil, &ProviderError{Message: "получен пустой ответ"}
	}

	aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": p.model}).Observe(duration.Seconds())
	observeUsage(p.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	p.logger.Debug("Ответ от OpenAI API получен",
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return &Result{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TokensUsed:       resp.Usage.TotalTokens,
		ModelID:          p.model,
		FinishReason:     string(resp.Choices[0].FinishReason),
	}, nil
}

// GenerateTextStream инициирует потоковую генерацию и отдаёт фрагменты в
// канал. Канал закрывается по завершении стрима или при ошибке.
func (p *cloudProvider) GenerateTextStream(ctx context.Context, prompt string, params Params) (<-chan Fragment, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ProviderError{Message: "промпт пуст"}
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, p.chatRequest(prompt, params, true))
	if err != nil {
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error_stream_init"}).Inc()
		return nil, mapOpenAIError(err)
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)
		defer stream.Close()
		startTime := time.Now()

		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "success_stream"}).Inc()
				aiRequestDuration.With(prometheus.Labels{"model": p.model}).Observe(time.Since(startTime).Seconds())
				return
			}
			if err != nil {
				aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error_stream_read"}).Inc()
				select {
				case out <- Fragment{Err: mapOpenAIError(err)}:
				case <-ctx.Done():
				}
				return
			}
			if len(response.Choices) == 0 {
				continue
			}
			select {
			case out <- Fragment{Text: response.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// IsAvailable проверяет доступность API лёгким запросом списка моделей.
func (p *cloudProvider) IsAvailable(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := p.client.ListModels(checkCtx)
	return err == nil
}

// EstimateTokens использует tiktoken для известных моделей.
func (p *cloudProvider) EstimateTokens(text string) int {
	return estimateTokensForModel(p.model, text)
}

func (p *cloudProvider) Info() ModelInfo {
	return ModelInfo{Provider: "cloud", ModelID: p.model, BaseURL: p.baseURL}
}

// mapOpenAIError нормализует ошибки go-openai к таксономии гейтвея.
func mapOpenAIError(err error) error {
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return &RateLimitError{Message: apiErr.Message}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Message: apiErr.Message}
		}
		return &ProviderError{Message: apiErr.Message}
	}

	var reqErr *openaigo.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return &RateLimitError{Message: reqErr.Error()}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Message: reqErr.Error()}
		}
		return &ProviderError{Message: reqErr.Error()}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{Message: err.Error()}
	}

	return &ProviderError{Message: err.Error()}
}
