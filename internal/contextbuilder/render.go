package contextbuilder

import (
	"fmt"
	"sort"
	"strings"

	"fabula-server/internal/model"
)

// Render форматирует контекст в текст заданной детализации. Три уровня —
// это текстовые бюджеты для управления длиной промпта, семантика полей
// не меняется.
func Render(c *model.StoryContext, detail model.ContextDetail) string {
	switch detail {
	case model.DetailMinimal:
		return renderMinimal(c)
	case model.DetailSummary:
		return renderSummary(c)
	default:
		return renderFull(c)
	}
}

// renderMinimal — одна строка: только название истории.
func renderMinimal(c *model.StoryContext) string {
	return fmt.Sprintf("Story: %s", c.StoryMeta.Title)
}

// renderSummary — название, завязка и имена протагониста/антагониста.
func renderSummary(c *model.StoryContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Story: %s\n", c.StoryMeta.Title)
	if c.StoryMeta.Premise != "" {
		fmt.Fprintf(&b, "Premise: %s\n", c.StoryMeta.Premise)
	}
	if names := c.Protagonists(); len(names) > 0 {
		fmt.Fprintf(&b, "Main characters: %s\n", strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFull — полный контекст: метаданные, персонажи, элементы мира по
// типам и текущая глава, если контекст сфокусирован.
func renderFull(c *model.StoryContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Story: %s\n", c.StoryMeta.Title)
	if c.StoryMeta.Premise != "" {
		fmt.Fprintf(&b, "Premise: %s\n", c.StoryMeta.Premise)
	}
	if c.StoryMeta.Genre != "" {
		fmt.Fprintf(&b, "Genre: %s\n", c.StoryMeta.Genre)
	}

	if len(c.Characters) > 0 {
		b.WriteString("\nCHARACTERS:\n")
		for _, ch := range c.Characters {
			fmt.Fprintf(&b, "- %s (%s)", ch.Name, ch.Role)
			if ch.Personality != "" {
				fmt.Fprintf(&b, ": %s", ch.Personality)
			}
			if ch.Motivations != "" {
				fmt.Fprintf(&b, " | Motivations: %s", ch.Motivations)
			}
			b.WriteString("\n")
		}
	}

	if len(c.WorldElements) > 0 {
		b.WriteString("\nWORLD ELEMENTS:\n")
		// Фиксируем порядок групп для детерминированного вывода.
		types := make([]string, 0, len(c.WorldElements))
		for t := range c.WorldElements {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&b, "%s:\n", t)
			for _, e := range c.WorldElements[t] {
				fmt.Fprintf(&b, "- %s", e.Name)
				if e.Description != "" {
					fmt.Fprintf(&b, ": %s", e.Description)
				}
				if e.Category != "" {
					fmt.Fprintf(&b, " (category: %s", e.Category)
					if e.Importance != "" {
						fmt.Fprintf(&b, ", importance: %s", e.Importance)
					}
					b.WriteString(")")
				} else if e.Importance != "" {
					fmt.Fprintf(&b, " (importance: %s)", e.Importance)
				}
				b.WriteString("\n")
			}
		}
	}

	if c.ChapterFocus != nil && c.ChapterFocus.CurrentChapter != nil {
		cur := c.ChapterFocus.CurrentChapter
		fmt.Fprintf(&b, "\nCURRENT CHAPTER:\nChapter %d: %s\n", cur.Number, cur.Title)
		if cur.Summary != "" {
			fmt.Fprintf(&b, "Summary: %s\n", cur.Summary)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
