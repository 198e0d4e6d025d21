package model

// StoryMeta — заголовочные поля истории, попадающие в каждый промпт.
type StoryMeta struct {
	Title              string `json:"title"`
	Premise            string `json:"premise"`
	Genre              string `json:"genre"`
	TargetWordCount    int    `json:"target_word_count"`
	TargetChapterCount int    `json:"target_chapter_count"`
}

// OutlineItem — строка плана истории в StoryContext.
type OutlineItem struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	IsGenerated   bool   `json:"is_generated"`
	WordCount     int    `json:"word_count"`
}

// ChapterRef — ссылка на главу внутри ChapterFocus (номер/название/краткое
// содержание, без полного текста).
type ChapterRef struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ChapterFocus сужает контекст до конкретной главы N.
// PreviousChapters содержит только уже сгенерированные главы с номером < N
// (по возрастанию); UpcomingChapters — не более трёх следующих глав,
// только их summary, без содержимого.
type ChapterFocus struct {
	CurrentChapter   *ChapterRef  `json:"current_chapter,omitempty"`
	PreviousChapters []ChapterRef `json:"previous_chapters"`
	UpcomingChapters []ChapterRef `json:"upcoming_chapters"`
}

// StoryContext — read-only снимок данных истории, на котором строятся
// промпты. Собирается заново на каждый запрос и никогда не кэшируется.
type StoryContext struct {
	StoryMeta     StoryMeta                 `json:"story_meta"`
	Characters    []Character               `json:"characters"`
	WorldElements map[string][]WorldElement `json:"world_elements"`
	Outline       []OutlineItem             `json:"outline"`
	ChapterFocus  *ChapterFocus             `json:"chapter_focus,omitempty"`
}

// Protagonists возвращает имена персонажей с ролью protagonist/antagonist —
// они попадают в summary-рендер контекста.
func (c *StoryContext) Protagonists() []string {
	var names []string
	for _, ch := range c.Characters {
		if ch.Role == "protagonist" || ch.Role == "antagonist" {
			names = append(names, ch.Name)
		}
	}
	return names
}
