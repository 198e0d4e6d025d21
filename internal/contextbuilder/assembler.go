package contextbuilder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabula-server/internal/model"
	"fabula-server/internal/repository"
)

// upcomingChapterLimit ограничивает число будущих глав в фокусе контекста.
const upcomingChapterLimit = 3

// Assembler собирает StoryContext из хранилища. Контекст собирается
// заново на каждый запрос и не кэшируется.
type Assembler struct {
	store  repository.Store
	logger *zap.Logger
}

// NewAssembler создает сборщик контекста.
func NewAssembler(store repository.Store, logger *zap.Logger) *Assembler {
	return &Assembler{store: store, logger: logger.Named("contextbuilder")}
}

// BuildStoryContext собирает полный контекст истории: метаданные,
// персонажей, элементы мира (сгруппированные по типу) и план глав.
// Возвращает model.ErrNotFound, если история неизвестна.
func (a *Assembler) BuildStoryContext(ctx context.Context, storyID uuid.UUID) (*model.StoryContext, error) {
	story, err := a.store.GetStory(ctx, storyID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка загрузки истории: %w", err)
	}

	characters, err := a.store.GetCharacters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки персонажей: %w", err)
	}

	elements, err := a.store.GetWorldElements(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки элементов мира: %w", err)
	}

	chapters, err := a.store.GetChapters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки глав: %w", err)
	}

	// Группируем элементы мира по типу; порядок внутри группы — порядок создания.
	grouped := make(map[string][]model.WorldElement)
	for _, e := range elements {
		grouped[e.ElementType] = append(grouped[e.ElementType], e)
	}

	outline := make([]model.OutlineItem, 0, len(chapters))
	for _, ch := range chapters {
		outline = append(outline, model.OutlineItem{
			ChapterNumber: ch.Number,
			Title:         ch.Title,
			Summary:       ch.Summary,
			IsGenerated:   ch.IsGenerated(),
			WordCount:     ch.WordCount,
		})
	}

	a.logger.Debug("Контекст истории собран",
		zap.String("story_id", storyID.String()),
		zap.Int("characters", len(characters)),
		zap.Int("world_elements", len(elements)),
		zap.Int("outline", len(outline)))

	return &model.StoryContext{
		StoryMeta: model.StoryMeta{
			Title:              story.Title,
			Premise:            story.Premise,
			Genre:              story.Genre,
			TargetWordCount:    story.TargetWordCount,
			TargetChapterCount: story.TargetChapterCount,
		},
		Characters:    characters,
		WorldElements: grouped,
		Outline:       outline,
	}, nil
}

// BuildChapterContext расширяет контекст истории фокусом на главе N.
// Отсутствующая глава — не ошибка: CurrentChapter просто не заполняется.
// В PreviousChapters попадают только сгенерированные главы с номером < N,
// в UpcomingChapters — не более трёх следующих.
func (a *Assembler) BuildChapterContext(ctx context.Context, storyID uuid.UUID, chapterNumber int) (*model.StoryContext, error) {
	storyContext, err := a.BuildStoryContext(ctx, storyID)
	if err != nil {
		return nil, err
	}

	chapters, err := a.store.GetChapters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки глав: %w", err)
	}

	focus := &model.ChapterFocus{
		PreviousChapters: []model.ChapterRef{},
		UpcomingChapters: []model.ChapterRef{},
	}

	for _, ch := range chapters {
		ref := model.ChapterRef{Number: ch.Number, Title: ch.Title, Summary: ch.Summary}
		switch {
		case ch.Number == chapterNumber:
			current := ref
			focus.CurrentChapter = &current
		case ch.Number < chapterNumber && ch.IsGenerated():
			focus.PreviousChapters = append(focus.PreviousChapters, ref)
		case ch.Number > chapterNumber && len(focus.UpcomingChapters) < upcomingChapterLimit:
			focus.UpcomingChapters = append(focus.UpcomingChapters, ref)
		}
	}

	storyContext.ChapterFocus = focus
	return storyContext, nil
}
