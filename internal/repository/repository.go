package repository

import (
	"context"

	"github.com/google/uuid"

	"fabula-server/internal/model"
)

// Store определяет контракт хранилища историй. Используем интерфейс для
// возможности мокирования в тестах.
//
// Все методы чтения возвращают model.ErrNotFound для отсутствующих записей.
type Store interface {
	// Чтение
	GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error)
	GetCharacters(ctx context.Context, storyID uuid.UUID) ([]model.Character, error)
	GetWorldElements(ctx context.Context, storyID uuid.UUID) ([]model.WorldElement, error)
	GetChapters(ctx context.Context, storyID uuid.UUID) ([]model.Chapter, error)
	GetChapter(ctx context.Context, storyID uuid.UUID, number int) (*model.Chapter, error)

	// Запись (вызывается транспортным слоем после оркестрации и
	// генераторами плана/персонажей/мира; ядро оценки ничего не пишет)
	UpdateChapterContent(ctx context.Context, storyID uuid.UUID, number int, content string, wordCount int) error
	ReplaceOutline(ctx context.Context, storyID uuid.UUID, chapters []model.Chapter) error
	CreateCharacters(ctx context.Context, characters []model.Character) error
	CreateWorldElements(ctx context.Context, elements []model.WorldElement) error
}
