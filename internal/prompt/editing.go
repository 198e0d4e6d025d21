package prompt

import (
	"fmt"
	"strings"

	"fabula-server/internal/model"
	"fabula-server/internal/quality"
)

// Editing строит промпт редактирования текста по инструкции.
func (c *Composer) Editing(originalText, instruction, context string) string {
	parts := []string{
		"Refine the provided text for stylistic sophistication, emotional depth, and narrative complexity. Prioritize subtlety in character portrayals, thematic nuances, and immersive descriptions. Improve sentence rhythm and pacing to avoid monotonous structure. Eliminate predictable phrasing, clichés, superficial profundity, and overtly dramatized expressions. Ensure the final output feels effortlessly human, nuanced, and compelling.",
		"",
		fmt.Sprintf("EDITING INSTRUCTION: %s", instruction),
		"",
	}
	if context != "" {
		parts = append(parts, fmt.Sprintf("CONTEXT: %s", context), "")
	}
	parts = append(parts,
		"ORIGINAL TEXT:",
		"---",
		originalText,
		"---",
		"",
		"Rewrite the text according to the instruction while maintaining the core meaning and narrative flow. Return only the revised text.",
	)
	return strings.Join(parts, "\n")
}

// focusInstructions — требования по направлению улучшения.
var focusInstructions = map[model.FocusArea][]string{
	model.FocusDialogue: {
		"- Make dialogue more natural and character-specific",
		"- Add subtext - characters talking around topics, not about them",
		"- Include realistic interruptions and hesitations",
	},
	model.FocusDescription: {
		"- Enrich descriptions with specific sensory detail",
		"- Connect descriptions to character perspective and mood",
		"- Replace vague impressions with concrete imagery",
	},
	model.FocusPacing: {
		"- Vary scene rhythm - mix action with reflection",
		"- Tighten slow passages, expand pivotal moments",
		"- End scenes with momentum toward the next",
	},
	model.FocusCharacter: {
		"- Deepen character interiority and decision-making",
		"- Show emotion through action and body language",
		"- Add authentic character reactions and growth",
	},
	model.FocusGeneral: {
		"- Improve all aspects of the writing simultaneously",
		"- Enhance both style and substance",
		"- Create more compelling and polished prose",
	},
}

// Sophistication строит промпт стилистического усложнения текста.
// Целевой объём — в полтора раза больше исходного.
func (c *Composer) Sophistication(text string, focus model.FocusArea) string {
	instructions, ok := focusInstructions[focus]
	if !ok {
		instructions = focusInstructions[model.FocusGeneral]
	}
	targetWords := quality.WordCount(text) * 3 / 2

	return fmt.Sprintf(`ADVANCED TEXT SOPHISTICATION ENHANCEMENT

FOCUS AREA: %s

FOCUS AREA REQUIREMENTS:
%s

LENGTH REQUIREMENT: Expand with rich detail and enhanced development to approximately %d words.

SOPHISTICATION GOALS:
- Elevate prose quality while maintaining authenticity
- Eliminate generic or AI-typical phrasing
- Enhance rhythm, flow, and linguistic precision
- Develop distinctive voice and style

ORIGINAL TEXT:
---
%s
---

ENHANCED VERSION:
Provide the sophisticated version that demonstrates elevated writing craft.`,
		strings.ToUpper(string(focus)),
		strings.Join(instructions, "\n"),
		targetWords,
		text)
}
