package model

import (
	"time"

	"github.com/google/uuid"
)

// Story represents a novel project owned by a user.
type Story struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Premise            string    `db:"premise" json:"premise"`
	Genre              string    `db:"genre" json:"genre"`
	TargetWordCount    int       `db:"target_word_count" json:"target_word_count"`
	TargetChapterCount int       `db:"target_chapter_count" json:"target_chapter_count"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Character описывает персонажа истории. Порядок вставки = порядок создания,
// он же порядок появления в контексте для промптов.
type Character struct {
	ID          uuid.UUID `db:"id" json:"id"`
	StoryID     uuid.UUID `db:"story_id" json:"story_id"`
	Name        string    `db:"name" json:"name"`
	Role        string    `db:"role" json:"role"` // protagonist, antagonist, supporting...
	Personality string    `db:"personality" json:"personality"`
	Motivations string    `db:"motivations" json:"motivations"`
	Arc         string    `db:"arc" json:"arc"`
	Traits      string    `db:"traits" json:"traits"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// WorldElement описывает элемент мира (локация, фракция, артефакт и т.д.).
type WorldElement struct {
	ID          uuid.UUID `db:"id" json:"id"`
	StoryID     uuid.UUID `db:"story_id" json:"story_id"`
	ElementType string    `db:"element_type" json:"element_type"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Importance  string    `db:"importance" json:"importance"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Chapter представляет главу: строку плана (title/summary) и, после генерации,
// сам текст. Content == nil означает, что глава ещё не сгенерирована.
type Chapter struct {
	ID        uuid.UUID `db:"id" json:"id"`
	StoryID   uuid.UUID `db:"story_id" json:"story_id"`
	Number    int       `db:"number" json:"number"`
	Title     string    `db:"title" json:"title"`
	Summary   string    `db:"summary" json:"summary"`
	Content   *string   `db:"content" json:"content,omitempty"`
	WordCount int       `db:"word_count" json:"word_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsGenerated сообщает, есть ли у главы сохранённый текст.
func (c *Chapter) IsGenerated() bool {
	return c.Content != nil && *c.Content != ""
}
