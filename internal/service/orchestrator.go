package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabula-server/internal/ai"
	"fabula-server/internal/contextbuilder"
	"fabula-server/internal/model"
	"fabula-server/internal/prompt"
	"fabula-server/internal/quality"
	"fabula-server/internal/repository"
)

// Дефолты порога качества и числа попыток регенерации.
const (
	DefaultQualityThreshold        = 0.7
	DefaultMaxRegenerationAttempts = 3
)

// maxCompletionTokens ограничивает бюджет ответа одного вызова.
const maxCompletionTokens = 8000

// Orchestrator управляет конвейером генерации: контекст → промпт →
// провайдер → оценка качества → принятие/регенерация. Сам оркестратор
// в хранилище не пишет: персист выполняется на периферии.
type Orchestrator struct {
	provider  ai.Provider
	store     repository.Store
	assembler *contextbuilder.Assembler
	composer  *prompt.Composer
	settings  *Settings

	qualityThreshold float64
	maxAttempts      int
	logger           *zap.Logger
}

// NewOrchestrator создает оркестратор генерации.
func NewOrchestrator(
	provider ai.Provider,
	store repository.Store,
	assembler *contextbuilder.Assembler,
	settings *Settings,
	qualityThreshold float64,
	maxAttempts int,
	logger *zap.Logger,
) *Orchestrator {
	if qualityThreshold <= 0 || qualityThreshold > 1 {
		qualityThreshold = DefaultQualityThreshold
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRegenerationAttempts
	}
	return &Orchestrator{
		provider:         provider,
		store:            store,
		assembler:        assembler,
		composer:         prompt.NewComposer(),
		settings:         settings,
		qualityThreshold: qualityThreshold,
		maxAttempts:      maxAttempts,
		logger:           logger.Named("orchestrator"),
	}
}

// Provider возвращает активный бэкенд (для статусных эндпоинтов).
func (o *Orchestrator) Provider() ai.Provider {
	return o.provider
}

// Settings возвращает процессные настройки генерации.
func (o *Orchestrator) Settings() *Settings {
	return o.settings
}

// normalizeRequest зажимает параметры и снимает снапшот процессного
// уровня сложности. Снапшот делается ровно один раз: запрос, начатый
// при одном уровне, завершается при нём же.
func (o *Orchestrator) normalizeRequest(req model.GenerationRequest) model.GenerationRequest {
	req = req.Normalize()
	if req.ComplexityLevel == "" {
		req.ComplexityLevel = o.settings.Complexity()
	}
	return req
}

// GenerateChapter выполняет полный цикл генерации главы: single-pass или
// multi-pass, с квалити-гейтом и регенерацией по фидбеку.
func (o *Orchestrator) GenerateChapter(ctx context.Context, storyID uuid.UUID, chapterNumber int, req model.GenerationRequest) (*model.GenerationResult, error) {
	req = o.normalizeRequest(req)
	requestID := uuid.New()

	storyContext, err := o.assembler.BuildChapterContext(ctx, storyID, chapterNumber)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(
		zap.String("request_id", requestID.String()),
		zap.String("story_id", storyID.String()),
		zap.Int("chapter", chapterNumber),
		zap.String("mode", string(req.Mode)),
		zap.String("complexity", string(req.ComplexityLevel)))
	logger.Info("Генерация главы начата",
		zap.Int("target_word_count", req.TargetWordCount),
		zap.Bool("quality_check", req.QualityCheckEnabled))

	result, err := o.runQualityLoop(ctx, storyContext, req, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Генерация главы завершена",
		zap.Int("word_count", result.WordCount),
		zap.Int("passes_completed", result.PassesCompleted),
		zap.Bool("threshold_warning", result.Warning != ""))
	return result, nil
}

// runQualityLoop — явный цикл регенерации. Состояние попытки — номер и
// проблемы предыдущего захода, без рекурсии: инвариант по числу попыток
// проверяется тривиально.
func (o *Orchestrator) runQualityLoop(ctx context.Context, sc *model.StoryContext, req model.GenerationRequest, logger *zap.Logger) (*model.GenerationResult, error) {
	attempts := o.maxAttempts
	if !req.QualityCheckEnabled {
		attempts = 1
	}

	var best *model.GenerationResult
	bestScore := -1.0
	// Первая попытка несёт фидбек из запроса (ручная регенерация),
	// последующие — проблемы предыдущего захода.
	priorIssues := req.Feedback

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptReq := req
		attemptReq.Feedback = priorIssues

		result, err := o.generateOnce(ctx, sc, attemptReq)
		if err != nil {
			// Ошибки провайдера прерывают попытку и поднимаются наверх
			// с сохранением вида; квалити-цикл их не ретраит.
			return nil, err
		}

		if !req.QualityCheckEnabled {
			result.PassesCompleted = passesFor(req.Mode, 1)
			return result, nil
		}

		report := quality.Assess(result.Text, req.TargetWordCount)
		result.QualityReport = &report
		logger.Debug("Оценка качества попытки",
			zap.Int("attempt", attempt),
			zap.Float64("score", report.OverallScore),
			zap.Strings("issues", report.Issues))

		if report.OverallScore > bestScore {
			bestScore = report.OverallScore
			best = result
		}

		if report.OverallScore >= o.qualityThreshold {
			result.PassesCompleted = passesFor(req.Mode, attempt)
			return result, nil
		}

		priorIssues = report.Issues
	}

	// Попытки исчерпаны: возвращаем лучшую, помечая предупреждением —
	// это успешный результат, а не ошибка.
	best.PassesCompleted = passesFor(req.Mode, attempts)
	best.Warning = fmt.Sprintf("quality threshold %.2f not met after %d attempts (best score %.2f)",
		o.qualityThreshold, attempts, bestScore)
	return best, nil
}

// passesFor возвращает PassesCompleted: для multi-pass это три прохода
// провайдера, для квалити-гейта — число попыток генерации.
func passesFor(mode model.GenerationMode, attempts int) int {
	if mode == model.ModeMultiPass {
		return 3
	}
	return attempts
}

// generateOnce выполняет одну попытку генерации в выбранном режиме.
func (o *Orchestrator) generateOnce(ctx context.Context, sc *model.StoryContext, req model.GenerationRequest) (*model.GenerationResult, error) {
	if req.Mode == model.ModeMultiPass {
		return o.generateMultiPass(ctx, sc, req)
	}
	return o.generateSinglePass(ctx, sc, req)
}

func (o *Orchestrator) generateSinglePass(ctx context.Context, sc *model.StoryContext, req model.GenerationRequest) (*model.GenerationResult, error) {
	promptText := o.composer.Chapter(sc, req)
	params := ai.ForCreativeWriting().WithMaxTokens(completionBudget(req.TargetWordCount))

	result, err := o.provider.GenerateText(ctx, promptText, params)
	if err != nil {
		return nil, err
	}

	return &model.GenerationResult{
		Text:            result.Text,
		WordCount:       quality.WordCount(result.Text),
		TokensUsed:      result.TokensUsed,
		ModelIdentifier: result.ModelID,
		FinishReason:    result.FinishReason,
	}, nil
}

// generateMultiPass — три строго последовательных прохода: структура →
// персонажи → проза. Выход каждого прохода дословно входит в промпт
// следующего; итоговый текст — только вывод третьего прохода.
func (o *Orchestrator) generateMultiPass(ctx context.Context, sc *model.StoryContext, req model.GenerationRequest) (*model.GenerationResult, error) {
	structureResult, err := o.provider.GenerateText(ctx,
		o.composer.StructurePass(sc, req),
		ai.ForPlotDevelopment().WithTemperature(0.7).WithMaxTokens(1500))
	if err != nil {
		return nil, fmt.Errorf("structure pass: %w", err)
	}

	characterResult, err := o.provider.GenerateText(ctx,
		o.composer.CharacterPass(structureResult.Text, req),
		ai.ForCharacterCreation().WithTemperature(0.8).WithMaxTokens(3000))
	if err != nil {
		return nil, fmt.Errorf("character pass: %w", err)
	}

	proseResult, err := o.provider.GenerateText(ctx,
		o.composer.ProsePass(characterResult.Text, req),
		ai.ForCreativeWriting().WithTemperature(0.6).WithMaxTokens(completionBudget(req.TargetWordCount)))
	if err != nil {
		return nil, fmt.Errorf("prose pass: %w", err)
	}

	return &model.GenerationResult{
		Text:            proseResult.Text,
		WordCount:       quality.WordCount(proseResult.Text),
		TokensUsed:      structureResult.TokensUsed + characterResult.TokensUsed + proseResult.TokensUsed,
		ModelIdentifier: proseResult.ModelID,
		FinishReason:    proseResult.FinishReason,
	}, nil
}

// GenerateChapterStream — потоковая генерация главы. Квалити-гейт
// не применяется: частичный вывод уже дошёл до вызывающего, пост-фактум
// регенерировать нечего. Отмена — прекращение чтения канала.
func (o *Orchestrator) GenerateChapterStream(ctx context.Context, storyID uuid.UUID, chapterNumber int, req model.GenerationRequest) (<-chan ai.Fragment, error) {
	req = o.normalizeRequest(req)

	storyContext, err := o.assembler.BuildChapterContext(ctx, storyID, chapterNumber)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Потоковая генерация главы начата",
		zap.String("story_id", storyID.String()),
		zap.Int("chapter", chapterNumber))

	promptText := o.composer.Chapter(storyContext, req)
	params := ai.ForCreativeWriting().WithMaxTokens(completionBudget(req.TargetWordCount))
	return o.provider.GenerateTextStream(ctx, promptText, params)
}

// completionBudget — лимит токенов ответа: двойной целевой объём слов,
// но не больше общего потолка.
func completionBudget(targetWordCount int) int {
	budget := targetWordCount * 2
	if budget > maxCompletionTokens {
		budget = maxCompletionTokens
	}
	return budget
}
