package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// localProvider реализует Provider поверх локального Ollama через
// нативный клиент ollama/api.
type localProvider struct {
	client  *api.Client
	model   string
	host    string
	timeout time.Duration
	logger  *zap.Logger
}

func newLocalProvider(host, model string, timeout time.Duration, logger *zap.Logger) (*localProvider, error) {
	// api.NewClient требует URL без суффикса /v1
	ollamaHost := strings.TrimSuffix(host, "/v1")
	ollamaHost = strings.TrimSuffix(ollamaHost, "/")

	parsedURL, err := url.Parse(ollamaHost)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama host '%s': %w", ollamaHost, err)
	}

	httpClient := &http.Client{Timeout: timeout}
	client := api.NewClient(parsedURL, httpClient)

	logger.Info("Ollama клиент создан",
		zap.String("host", ollamaHost),
		zap.String("model", model),
		zap.Duration("timeout", timeout))

	return &localProvider{
		client:  client,
		model:   model,
		host:    ollamaHost,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// chatRequest собирает запрос к Ollama. Опции добавляются только когда
// заданы, чтобы не перекрывать дефолты модели.
func (p *localProvider) chatRequest(prompt string, params Params, stream bool) *api.ChatRequest {
	options := map[string]interface{}{}
	if params.Temperature != nil {
		options["temperature"] = *params.Temperature
	}
	if params.TopP != nil {
		options["top_p"] = *params.TopP
	}
	if params.FrequencyPenalty != nil {
		options["frequency_penalty"] = *params.FrequencyPenalty
	}
	if params.PresencePenalty != nil {
		options["presence_penalty"] = *params.PresencePenalty
	}
	if params.MaxTokens != nil {
		options["num_predict"] = *params.MaxTokens
	}
	if len(params.StopSequences) > 0 {
		options["stop"] = params.StopSequences
	}

	return &api.ChatRequest{
		Model:    p.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options:  options,
	}
}

// GenerateText выполняет один полный запрос генерации.
func (p *localProvider) GenerateText(ctx context.Context, prompt string, params Params) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error"}).Inc()
		return nil, &ProviderError{Message: "промпт пуст"}
	}

	requestCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	startTime := time.Now()
	p.logger.Debug("Отправка запроса к Ollama",
		zap.String("model", p.model),
		zap.Int("prompt_bytes", len(prompt)))

	var resp api.ChatResponse
	err := p.client.Chat(requestCtx, p.chatRequest(prompt, params, false), func(r api.ChatResponse) error {
		resp = r // Сохраняем последний (полный) ответ
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		p.logger.Warn("Ошибка от Ollama API", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error"}).Inc()
		return nil, mapOllamaError(err)
	}

	if resp.Message.Content == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error_empty_response"}).Inc()
		return nil, &ProviderError{Message: "получен пустой ответ"}
	}

	aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": p.model}).Observe(duration.Seconds())
	observeUsage(p.model, resp.PromptEvalCount, resp.EvalCount)

	finishReason := resp.DoneReason
	if finishReason == "" {
		finishReason = "stop"
	}

	return &Result{
		Text:             resp.Message.Content,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TokensUsed:       resp.PromptEvalCount + resp.EvalCount,
		ModelID:          p.model,
		FinishReason:     finishReason,
	}, nil
}

// GenerateTextStream отдаёт фрагменты генерации в канал.
func (p *localProvider) GenerateTextStream(ctx context.Context, prompt string, params Params) (<-chan Fragment, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ProviderError{Message: "промпт пуст"}
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)

		requestCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		startTime := time.Now()
		err := p.client.Chat(requestCtx, p.chatRequest(prompt, params, true), func(r api.ChatResponse) error {
			if r.Message.Content == "" {
				return nil
			}
			select {
			case out <- Fragment{Text: r.Message.Content}:
				return nil
			case <-requestCtx.Done():
				return requestCtx.Err()
			}
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "error_stream"}).Inc()
			select {
			case out <- Fragment{Err: mapOllamaError(err)}:
			case <-ctx.Done():
			}
			return
		}

		aiRequestsTotal.With(prometheus.Labels{"model": p.model, "status": "success_stream"}).Inc()
		aiRequestDuration.With(prometheus.Labels{"model": p.model}).Observe(time.Since(startTime).Seconds())
	}()

	return out, nil
}

// IsAvailable проверяет доступность локального сервера.
func (p *localProvider) IsAvailable(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.client.Heartbeat(checkCtx) == nil
}

// EstimateTokens — оценка по символам; у локальных моделей нет
// стабильного токенизатора на стороне клиента.
func (p *localProvider) EstimateTokens(text string) int {
	return estimateTokensByChars(text)
}

func (p *localProvider) Info() ModelInfo {
	return ModelInfo{Provider: "local", ModelID: p.model, BaseURL: p.host}
}

// mapOllamaError нормализует ошибки ollama/api к таксономии гейтвея.
func mapOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests:
			return &RateLimitError{Message: statusErr.Error()}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Message: statusErr.Error()}
		}
		return &ProviderError{Message: statusErr.Error()}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{Message: err.Error()}
	}

	return &ProviderError{Message: err.Error()}
}
