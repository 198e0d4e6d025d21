package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fabula-server/internal/model"
)

// postgresStore реализует Store поверх PostgreSQL (pgx + scany).
type postgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore создает хранилище историй на PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) Store {
	return &postgresStore{db: db, logger: logger.Named("store")}
}

func (s *postgresStore) GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error) {
	query := `
        SELECT id, title, premise, genre, target_word_count, target_chapter_count, created_at, updated_at
        FROM stories
        WHERE id = $1
    `
	var story model.Story
	err := pgxscan.Get(ctx, s.db, &story, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("История не найдена", zap.String("story_id", id.String()))
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения истории из БД: %w", err)
	}
	return &story, nil
}

func (s *postgresStore) GetCharacters(ctx context.Context, storyID uuid.UUID) ([]model.Character, error) {
	query := `
        SELECT id, story_id, name, role, personality, motivations, arc, traits, created_at
        FROM characters
        WHERE story_id = $1
        ORDER BY created_at, id
    `
	var characters []model.Character
	if err := pgxscan.Select(ctx, s.db, &characters, query, storyID); err != nil {
		return nil, fmt.Errorf("ошибка получения персонажей из БД: %w", err)
	}
	return characters, nil
}

func (s *postgresStore) GetWorldElements(ctx context.Context, storyID uuid.UUID) ([]model.WorldElement, error) {
	query := `
        SELECT id, story_id, element_type, name, description, category, importance, created_at
        FROM world_elements
        WHERE story_id = $1
        ORDER BY created_at, id
    `
	var elements []model.WorldElement
	if err := pgxscan.Select(ctx, s.db, &elements, query, storyID); err != nil {
		return nil, fmt.Errorf("ошибка получения элементов мира из БД: %w", err)
	}
	return elements, nil
}

func (s *postgresStore) GetChapters(ctx context.Context, storyID uuid.UUID) ([]model.Chapter, error) {
	query := `
        SELECT id, story_id, number, title, summary, content, word_count, created_at, updated_at
        FROM chapters
        WHERE story_id = $1
        ORDER BY number
    `
	var chapters []model.Chapter
	if err := pgxscan.Select(ctx, s.db, &chapters, query, storyID); err != nil {
		return nil, fmt.Errorf("ошибка получения глав из БД: %w", err)
	}
	return chapters, nil
}

func (s *postgresStore) GetChapter(ctx context.Context, storyID uuid.UUID, number int) (*model.Chapter, error) {
	query := `
        SELECT id, story_id, number, title, summary, content, word_count, created_at, updated_at
        FROM chapters
        WHERE story_id = $1 AND number = $2
    `
	var chapter model.Chapter
	err := pgxscan.Get(ctx, s.db, &chapter, query, storyID, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения главы из БД: %w", err)
	}
	return &chapter, nil
}

func (s *postgresStore) UpdateChapterContent(ctx context.Context, storyID uuid.UUID, number int, content string, wordCount int) error {
	query := `
        UPDATE chapters
        SET content = $1, word_count = $2, updated_at = now()
        WHERE story_id = $3 AND number = $4
    `
	commandTag, err := s.db.Exec(ctx, query, content, wordCount, storyID, number)
	if err != nil {
		return fmt.Errorf("ошибка обновления главы в БД: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		s.logger.Warn("Попытка обновления несуществующей главы",
			zap.String("story_id", storyID.String()), zap.Int("number", number))
		return model.ErrNotFound
	}
	return nil
}

// ReplaceOutline заменяет план истории целиком: старые несгенерированные
// главы удаляются, новые вставляются. Сгенерированные главы не трогаем.
func (s *postgresStore) ReplaceOutline(ctx context.Context, storyID uuid.UUID, chapters []model.Chapter) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM chapters WHERE story_id = $1 AND content IS NULL`, storyID)
	if err != nil {
		return fmt.Errorf("ошибка удаления старого плана: %w", err)
	}

	insert := `
        INSERT INTO chapters (id, story_id, number, title, summary, word_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, 0, now(), now())
        ON CONFLICT (story_id, number) DO NOTHING
    `
	for _, ch := range chapters {
		id := ch.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx, insert, id, storyID, ch.Number, ch.Title, ch.Summary); err != nil {
			return fmt.Errorf("ошибка вставки главы %d плана: %w", ch.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка коммита транзакции: %w", err)
	}
	s.logger.Info("План истории обновлен",
		zap.String("story_id", storyID.String()), zap.Int("chapters", len(chapters)))
	return nil
}

func (s *postgresStore) CreateCharacters(ctx context.Context, characters []model.Character) error {
	query := `
        INSERT INTO characters (id, story_id, name, role, personality, motivations, arc, traits, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
    `
	for _, c := range characters {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := s.db.Exec(ctx, query, id, c.StoryID, c.Name, c.Role, c.Personality, c.Motivations, c.Arc, c.Traits)
		if err != nil {
			return fmt.Errorf("ошибка создания персонажа '%s' в БД: %w", c.Name, err)
		}
	}
	return nil
}

func (s *postgresStore) CreateWorldElements(ctx context.Context, elements []model.WorldElement) error {
	query := `
        INSERT INTO world_elements (id, story_id, element_type, name, description, category, importance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now())
    `
	for _, e := range elements {
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := s.db.Exec(ctx, query, id, e.StoryID, e.ElementType, e.Name, e.Description, e.Category, e.Importance)
		if err != nil {
			return fmt.Errorf("ошибка создания элемента мира '%s' в БД: %w", e.Name, err)
		}
	}
	return nil
}
