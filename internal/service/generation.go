package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabula-server/internal/ai"
	"fabula-server/internal/model"
	"fabula-server/internal/parse"
	"fabula-server/internal/quality"
)

// Бюджеты токенов для вспомогательных генераций.
const (
	outlineTokenBudget   = 2500
	characterTokenBudget = 3000
	worldTokenBudget     = 3000
	editingTokenBudget   = 6000
)

// GenerateOutline генерирует план истории, разбирает его и заменяет
// несгенерированные главы в хранилище. Возвращает сохранённый план.
func (o *Orchestrator) GenerateOutline(ctx context.Context, storyID uuid.UUID, targetChapters int) ([]model.Chapter, error) {
	storyContext, err := o.assembler.BuildStoryContext(ctx, storyID)
	if err != nil {
		return nil, err
	}

	level := o.settings.Complexity()
	promptText := o.composer.Outline(storyContext, targetChapters, level)
	params := ai.ForPlotDevelopment().WithMaxTokens(outlineTokenBudget)

	result, err := o.provider.GenerateText(ctx, promptText, params)
	if err != nil {
		return nil, err
	}

	chapters := parse.Outline(result.Text)
	if len(chapters) == 0 {
		return nil, fmt.Errorf("разбор плана: %w", model.ErrEmptyResponse)
	}
	for i := range chapters {
		chapters[i].StoryID = storyID
	}

	if err := o.store.ReplaceOutline(ctx, storyID, chapters); err != nil {
		return nil, fmt.Errorf("сохранение плана: %w", err)
	}

	o.logger.Info("План истории сгенерирован",
		zap.String("story_id", storyID.String()),
		zap.Int("chapters", len(chapters)),
		zap.String("complexity", string(level)))
	return chapters, nil
}

// GenerateCharacters генерирует пакет персонажей и сохраняет их.
func (o *Orchestrator) GenerateCharacters(ctx context.Context, storyID uuid.UUID, characterCount int) ([]model.Character, error) {
	storyContext, err := o.assembler.BuildStoryContext(ctx, storyID)
	if err != nil {
		return nil, err
	}

	level := o.settings.Complexity()
	promptText := o.composer.CharacterBatch(storyContext, characterCount, level)
	params := ai.ForCharacterCreation().WithMaxTokens(characterTokenBudget)

	result, err := o.provider.GenerateText(ctx, promptText, params)
	if err != nil {
		return nil, err
	}

	characters := parse.Characters(result.Text)
	if len(characters) == 0 {
		return nil, fmt.Errorf("разбор персонажей: %w", model.ErrEmptyResponse)
	}
	for i := range characters {
		characters[i].StoryID = storyID
	}

	if err := o.store.CreateCharacters(ctx, characters); err != nil {
		return nil, fmt.Errorf("сохранение персонажей: %w", err)
	}

	o.logger.Info("Персонажи сгенерированы",
		zap.String("story_id", storyID.String()),
		zap.Int("characters", len(characters)))
	return characters, nil
}

// GenerateWorldElements генерирует пакет элементов мира и сохраняет их.
func (o *Orchestrator) GenerateWorldElements(ctx context.Context, storyID uuid.UUID, elementCount int) ([]model.WorldElement, error) {
	storyContext, err := o.assembler.BuildStoryContext(ctx, storyID)
	if err != nil {
		return nil, err
	}

	level := o.settings.Complexity()
	promptText := o.composer.WorldBatch(storyContext, elementCount, level)
	params := ai.ForCreativeWriting().WithMaxTokens(worldTokenBudget)

	result, err := o.provider.GenerateText(ctx, promptText, params)
	if err != nil {
		return nil, err
	}

	elements := parse.WorldElements(result.Text)
	if len(elements) == 0 {
		return nil, fmt.Errorf("разбор элементов мира: %w", model.ErrEmptyResponse)
	}
	for i := range elements {
		elements[i].StoryID = storyID
	}

	if err := o.store.CreateWorldElements(ctx, elements); err != nil {
		return nil, fmt.Errorf("сохранение элементов мира: %w", err)
	}

	o.logger.Info("Элементы мира сгенерированы",
		zap.String("story_id", storyID.String()),
		zap.Int("elements", len(elements)))
	return elements, nil
}

// EditText редактирует текст по инструкции. Квалити-гейт не применяется:
// объём и структура результата задаются инструкцией, а не целевыми
// метриками главы.
func (o *Orchestrator) EditText(ctx context.Context, originalText, instruction, editContext string) (*model.GenerationResult, error) {
	if originalText == "" || instruction == "" {
		return nil, fmt.Errorf("%w: text and instruction are required", model.ErrBadRequest)
	}

	promptText := o.composer.Editing(originalText, instruction, editContext)
	params := ai.ForCreativeWriting().WithTemperature(0.6).WithMaxTokens(editingTokenBudget)

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
		PassesCompleted: 1,
	}, nil
}

// SophisticateText стилистически усложняет текст по выбранному
// направлению улучшения.
func (o *Orchestrator) SophisticateText(ctx context.Context, text string, focus model.FocusArea) (*model.GenerationResult, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", model.ErrBadRequest)
	}

	promptText := o.composer.Sophistication(text, focus)
	params := ai.ForCreativeWriting().WithMaxTokens(completionBudget(quality.WordCount(text) * 2))

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
		PassesCompleted: 1,
	}, nil
}

// AnalyzeChapterQuality оценивает сохранённый текст главы без генерации.
// Глава без контента считается отсутствующей.
func (o *Orchestrator) AnalyzeChapterQuality(ctx context.Context, storyID uuid.UUID, chapterNumber, targetWordCount int) (*model.QualityReport, error) {
	chapter, err := o.store.GetChapter(ctx, storyID, chapterNumber)
	if err != nil {
		return nil, err
	}
	if !chapter.IsGenerated() {
		return nil, fmt.Errorf("chapter %d has no generated content: %w", chapterNumber, model.ErrNotFound)
	}

	if targetWordCount <= 0 {
		targetWordCount = model.DefaultTargetWordCount
	}
	report := quality.Assess(*chapter.Content, targetWordCount)
	return &report, nil
}
