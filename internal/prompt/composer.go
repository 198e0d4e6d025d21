package prompt

import (
	"fmt"
	"strings"

	"fabula-server/internal/contextbuilder"
	"fabula-server/internal/model"
	"fabula-server/internal/quality"
)

// Composer строит промпты для всех целей генерации. Не имеет состояния:
// весь результат определяется контекстом и параметрами запроса.
type Composer struct{}

// NewComposer создает композитор промптов.
func NewComposer() *Composer {
	return &Composer{}
}

// Chapter строит промпт одиночной генерации главы. В каждый промпт
// вшиваются директива по объёму, минимальное число абзацев, запрещённые
// фразы и ровно один блок уровня сложности. CustomPrompt, если задан,
// добавляется последним блоком с наивысшим приоритетом.
func (c *Composer) Chapter(sc *model.StoryContext, req model.GenerationRequest) string {
	var parts []string

	parts = append(parts, writingDirective(req.TargetWordCount))
	parts = append(parts, bannedPhraseBlock())
	parts = append(parts, strings.Join(complexityBlock(req.ComplexityLevel, chapterComplexityInstructions), "\n"))
	parts = append(parts, "STORY CONTEXT FOR CONSISTENCY:\n"+contextbuilder.Render(sc, model.DetailFull))
	parts = append(parts, continuityBlock(sc))
	if block := chapterRequirements(sc); block != "" {
		parts = append(parts, block)
	}
	if block := feedbackBlock(req.Feedback); block != "" {
		parts = append(parts, block)
	}
	parts = append(parts, fmt.Sprintf("NOW WRITE THE COMPLETE CHAPTER - %d WORDS MINIMUM.", req.TargetWordCount))
	if req.CustomPrompt != "" {
		parts = append(parts, "ADDITIONAL INSTRUCTIONS (HIGHEST PRIORITY):\n"+req.CustomPrompt)
	}

	return strings.Join(parts, "\n\n")
}

// StructurePass — первый проход multi-pass: только структура сцен,
// без прозы.
func (c *Composer) StructurePass(sc *model.StoryContext, req model.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("CHAPTER STRUCTURE GENERATION - PASS 1\n\n")
	fmt.Fprintf(&b, "Create a detailed structural outline for this chapter that will serve as the foundation for a %d-word chapter.\n\n", req.TargetWordCount)

	if sc.ChapterFocus != nil && sc.ChapterFocus.CurrentChapter != nil {
		cur := sc.ChapterFocus.CurrentChapter
		fmt.Fprintf(&b, "CHAPTER INFO:\nChapter %d: %s\n", cur.Number, orUntitled(cur.Title))
		fmt.Fprintf(&b, "Summary: %s\n\n", orDefault(cur.Summary, "No summary provided"))
	}

	b.WriteString("STORY CONTEXT:\n")
	b.WriteString(contextbuilder.Render(sc, model.DetailSummary))
	b.WriteString("\n\n")

	b.WriteString(`STRUCTURAL REQUIREMENTS:
- Identify 4-6 distinct scenes or moments
- Each scene should be 400-600 words when fully written
- Include specific character actions and plot developments
- Plan dialogue opportunities and character interactions
- Identify moments for internal reflection or character development
- Ensure each scene advances the plot or reveals character

Describe each scene with its purpose, characters present, key events and mood. Do NOT write prose - structure only.`)
	return b.String()
}

// CharacterPass — второй проход: развитие структуры в диалоги и
// взаимодействия персонажей. Вход — сырой вывод первого прохода.
func (c *Composer) CharacterPass(structure string, req model.GenerationRequest) string {
	return fmt.Sprintf(`CHARACTER DEVELOPMENT ENHANCEMENT - PASS 2

Take the structural outline below and develop it into rich character-driven content with authentic dialogue and detailed character interactions.

STRUCTURAL FOUNDATION:
%s

CHARACTER ENHANCEMENT REQUIREMENTS:
- Write authentic dialogue that reveals character personality and relationships
- Include character internal thoughts and motivations
- Show character emotions through actions and body language, not exposition
- Create realistic interactions with subtext and tension
- Develop each character's unique voice and speech patterns
- Show how characters react to conflict and pressure

WRITE THE ENHANCED VERSION:
Expand each scene with rich character development, authentic dialogue, and detailed character interactions.`, structure)
}

// ProsePass — третий проход: финальная литературная полировка до целевого
// объёма. Вход — сырой вывод второго прохода.
func (c *Composer) ProsePass(characterContent string, req model.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `PROSE REFINEMENT AND EXPANSION - PASS 3

Take the character-enhanced content below and refine it into polished, publication-quality prose that reaches %d words.

CHARACTER-ENHANCED CONTENT:
%s

PROSE REFINEMENT REQUIREMENTS:
- Enhance descriptions with sensory details and atmosphere
- Vary sentence structure and length for better rhythm
- Include specific, concrete details instead of vague descriptions
- Eliminate any AI-sounding phrases or clichéd expressions
- Ensure smooth transitions between scenes and paragraphs

%s

%s`, req.TargetWordCount, characterContent, bannedPhraseBlock(), writingDirective(req.TargetWordCount))

	if block := feedbackBlock(req.Feedback); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}
	if req.CustomPrompt != "" {
		b.WriteString("\n\nADDITIONAL INSTRUCTIONS (HIGHEST PRIORITY):\n")
		b.WriteString(req.CustomPrompt)
	}
	fmt.Fprintf(&b, "\n\nWRITE THE FINAL POLISHED CHAPTER. Target: %d words.", req.TargetWordCount)
	return b.String()
}

// writingDirective — директива объёма и минимального числа абзацев,
// производная от целевого объёма.
func writingDirective(targetWordCount int) string {
	minParagraphs := quality.MinParagraphs(targetWordCount)
	return fmt.Sprintf(`MANDATORY LENGTH REQUIREMENTS:
TARGET: %d words
- Minimum %d substantial paragraphs
- Each paragraph: 150-300 words
- Show, don't tell - expand moments through sensory detail
- Reach the target through scenes, not summary`, targetWordCount, minParagraphs)
}

// bannedPhraseBlock — негативное ограничение, внедряемое в каждый промпт.
func bannedPhraseBlock() string {
	var b strings.Builder
	b.WriteString("ABSOLUTELY FORBIDDEN - BANNED PHRASES AND PATTERNS:\n")
	for _, phrase := range quality.BannedPhrases {
		fmt.Fprintf(&b, "- \"%s\" or any variation\n", phrase)
	}
	b.WriteString("Avoid purple prose, constant emotional state announcements and info-dumping disguised as character thoughts.")
	return b.String()
}

// continuityBlock строит требования непрерывности из фокуса главы.
func continuityBlock(sc *model.StoryContext) string {
	if sc.ChapterFocus == nil || len(sc.ChapterFocus.PreviousChapters) == 0 {
		return "STORY OPENING: This is the beginning - establish tone, introduce key elements, create immediate engagement."
	}

	var b strings.Builder
	b.WriteString("CONTINUITY REQUIREMENTS:\n\nRECENT EVENTS TO BUILD FROM:\n")
	prev := sc.ChapterFocus.PreviousChapters
	if len(prev) > 3 {
		prev = prev[len(prev)-3:]
	}
	for _, ch := range prev {
		fmt.Fprintf(&b, "Chapter %d: %s\n", ch.Number, orUntitled(ch.Title))
		if ch.Summary != "" {
			fmt.Fprintf(&b, "  Summary: %s\n", ch.Summary)
		}
	}
	b.WriteString(`
STYLE CONSISTENCY REQUIREMENTS:
- Maintain established tone and pacing patterns
- Continue character voice consistency established in previous chapters
- Reference previous events naturally when relevant
- Escalate or develop conflicts introduced earlier`)
	return b.String()
}

// chapterRequirements — требования, специфичные для текущей главы.
func chapterRequirements(sc *model.StoryContext) string {
	if sc.ChapterFocus == nil || sc.ChapterFocus.CurrentChapter == nil {
		return ""
	}
	cur := sc.ChapterFocus.CurrentChapter

	var b strings.Builder
	b.WriteString("CURRENT CHAPTER REQUIREMENTS:\n\n")
	fmt.Fprintf(&b, "Chapter %d: %s\n", cur.Number, orUntitled(cur.Title))
	if cur.Summary != "" {
		fmt.Fprintf(&b, "Chapter Outline: %s\n", cur.Summary)
		b.WriteString(`
EXPANSION INSTRUCTIONS:
- The outline above is a skeleton - flesh it out with rich detail
- Add scenes, dialogue, and character moments not mentioned in the outline
- Develop the emotional journey of each character in this chapter`)
	}

	switch {
	case cur.Number == 1:
		b.WriteString(`

OPENING CHAPTER REQUIREMENTS:
- Establish the protagonist's ordinary world and initial situation
- Introduce the central conflict or inciting incident
- End with a hook that compels readers to continue`)
	case cur.Number <= 3:
		b.WriteString(`

EARLY CHAPTER REQUIREMENTS:
- Deepen character establishment and world-building
- Escalate initial conflicts or introduce complications
- Build momentum toward major plot developments`)
	default:
		b.WriteString(`

CONTINUING CHAPTER REQUIREMENTS:
- Advance major plot threads significantly
- Raise stakes or complicate existing problems
- Build toward upcoming climactic moments`)
	}
	return b.String()
}

// feedbackBlock превращает проблемы предыдущей попытки в корректирующие
// инструкции для повторной генерации.
func feedbackBlock(feedback []string) string {
	if len(feedback) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CRITICAL QUALITY ISSUES DETECTED IN PREVIOUS ATTEMPT - MANDATORY FIXES:\n")
	for _, issue := range feedback {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	b.WriteString("These issues MUST be resolved in this version.")
	return b.String()
}

func orUntitled(s string) string {
	return orDefault(s, "Untitled")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
