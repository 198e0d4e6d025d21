package prompt

import (
	"fmt"
	"strings"

	"fabula-server/internal/contextbuilder"
	"fabula-server/internal/model"
)

// Outline строит промпт генерации плана истории на targetChapters глав.
// Формат ответа согласован с парсером плана.
func (c *Composer) Outline(sc *model.StoryContext, targetChapters int, level model.ComplexityLevel) string {
	if targetChapters <= 0 {
		targetChapters = sc.StoryMeta.TargetChapterCount
	}
	if targetChapters <= 0 {
		targetChapters = 12
	}

	var b strings.Builder
	b.WriteString("ADVANCED NOVEL OUTLINE CREATION\n\n")
	fmt.Fprintf(&b, "Create a sophisticated %d-chapter novel outline that demonstrates literary complexity and avoids predictable plot structures.\n\n", targetChapters)

	b.WriteString("STORY FOUNDATION:\n")
	b.WriteString(contextbuilder.Render(sc, model.DetailSummary))
	b.WriteString("\n\n")

	b.WriteString(strings.Join(complexityBlock(level, chapterComplexityInstructions), "\n"))
	b.WriteString("\n\n")

	b.WriteString(`OUTLINE REQUIREMENTS:
- Primary plot with 2-3 substantial subplots
- Events arise from character choices and flaws
- Problems create new problems rather than simple escalation
- Each chapter must justify 2500+ words of rich, scene-based content

FORMAT YOUR RESPONSE EXACTLY AS:

Chapter 1: [Title]
[2-4 sentences summarizing the chapter's scenes and plot advancement]

Chapter 2: [Title]
[Summary...]
`)
	fmt.Fprintf(&b, "\n[Continue for all %d chapters. No act headers, no extra commentary.]", targetChapters)
	return b.String()
}

// CharacterBatch строит промпт генерации пакета персонажей. Формат ответа
// согласован с парсером персонажей.
func (c *Composer) CharacterBatch(sc *model.StoryContext, characterCount int, level model.ComplexityLevel) string {
	if characterCount <= 0 {
		characterCount = 5
	}

	var b strings.Builder
	b.WriteString("ADVANCED CHARACTER DEVELOPMENT\n\n")
	fmt.Fprintf(&b, "Create %d fully realized characters with psychological depth and authentic complexity. These characters must feel like real people with contradictions, flaws, and hidden depths.\n\n", characterCount)

	b.WriteString("STORY CONTEXT:\n")
	b.WriteString(contextbuilder.Render(sc, model.DetailSummary))
	b.WriteString("\n\n")

	b.WriteString(strings.Join(complexityBlock(level, characterComplexityInstructions), "\n"))
	b.WriteString("\n\n")

	b.WriteString(`FORMAT EACH CHARACTER EXACTLY AS:

1. [Full Name]
Role: [protagonist/antagonist/supporting]
Personality: [2-3 sentences on psychology and manner]
Motivation: [surface wants vs. deeper needs]
Arc: [how they change throughout the story]
Traits: [distinctive habits, speech patterns, skills]

AUTHENTICITY REQUIREMENTS:
- No perfect heroes or pure villains
- Each character must have both admirable and frustrating qualities
- Ensure each character could carry their own story`)
	return b.String()
}

// WorldBatch строит промпт генерации элементов мира. Формат ответа
// согласован с парсером элементов мира.
func (c *Composer) WorldBatch(sc *model.StoryContext, elementCount int, level model.ComplexityLevel) string {
	if elementCount <= 0 {
		elementCount = 8
	}

	var b strings.Builder
	b.WriteString("WORLD BUILDING\n\n")
	fmt.Fprintf(&b, "Design %d original, vividly immersive world elements grounded in subtle logic and internal consistency. Every element should seamlessly enrich the narrative and subtly inform character behaviors and plot developments. Avoid typical genre tropes.\n\n", elementCount)

	b.WriteString("STORY CONTEXT:\n")
	b.WriteString(contextbuilder.Render(sc, model.DetailSummary))
	b.WriteString("\n\n")

	b.WriteString(strings.Join(complexityBlock(level, worldComplexityInstructions), "\n"))
	b.WriteString("\n\n")

	b.WriteString(`FORMAT EACH ELEMENT EXACTLY AS:

- [Name]
Type: [Location/Faction/Artifact/Culture/History/Technology]
Category: [physical/social/historical]
Importance: [central/supporting/background]
Description: [2-3 sentences on what it is and how it shapes the story]`)
	return b.String()
}
