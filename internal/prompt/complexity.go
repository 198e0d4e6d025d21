package prompt

import "fabula-server/internal/model"

// Инструкции под-шаблонов по уровню сложности. Ровно один блок активен
// в каждом запросе.

var chapterComplexityInstructions = map[model.ComplexityLevel][]string{
	model.ComplexitySimple: {
		"- Focus on clear, straightforward storytelling",
		"- Use accessible language and shorter sentences",
		"- Emphasize plot progression and character actions",
		"- Keep descriptions concise but vivid",
	},
	model.ComplexityStandard: {
		"- Balance plot, character development, and description",
		"- Use varied sentence structure and moderate vocabulary",
		"- Include some subtext and deeper character moments",
		"- Develop themes naturally through the story",
	},
	model.ComplexityComplex: {
		"- Weave multiple plot threads and character arcs",
		"- Use sophisticated vocabulary and varied prose styles",
		"- Layer in symbolism, metaphors, and deeper themes",
		"- Include complex character psychology and motivations",
		"- Employ advanced literary techniques (foreshadowing, irony, etc.)",
	},
	model.ComplexityLiterary: {
		"- Prioritize prose quality while maintaining readability",
		"- Use sophisticated but clear language and structure",
		"- Explore profound themes through character and plot",
		"- Create layered meaning without sacrificing clarity",
		"- Focus on character psychology and emotional depth",
		"- Employ literary devices purposefully, not for show",
	},
}

var characterComplexityInstructions = map[model.ComplexityLevel][]string{
	model.ComplexitySimple: {
		"- Create clear, easily understood character roles and motivations",
		"- Focus on one main trait or goal per character",
		"- Keep character backgrounds straightforward",
	},
	model.ComplexityStandard: {
		"- Develop characters with 2-3 key personality traits",
		"- Give each character a clear motivation and one meaningful flaw",
		"- Include some character growth potential",
	},
	model.ComplexityComplex: {
		"- Create multi-faceted characters with internal contradictions",
		"- Develop complex psychological profiles and hidden depths",
		"- Include intricate relationships and power dynamics",
		"- Give characters multiple, sometimes conflicting motivations",
	},
	model.ComplexityLiterary: {
		"- Craft characters as vehicles for exploring deep themes",
		"- Create complex psychological portraits with rich interiority",
		"- Develop characters that embody philosophical concepts",
		"- Include subtle character symbolism and archetypal elements",
	},
}

var worldComplexityInstructions = map[model.ComplexityLevel][]string{
	model.ComplexitySimple: {
		"- Create a small set of clearly defined locations and factions",
		"- Keep world rules simple and easy to follow",
		"- Tie every element directly to the main plot",
	},
	model.ComplexityStandard: {
		"- Balance familiar and original world elements",
		"- Give each element a clear role in the story",
		"- Include some history and cultural texture",
	},
	model.ComplexityComplex: {
		"- Design interconnected systems: politics, economy, beliefs",
		"- Layer in historical undercurrents that shape present conflicts",
		"- Create tensions between factions with competing interests",
	},
	model.ComplexityLiterary: {
		"- Let the world mirror and amplify the story's themes",
		"- Build symbolic geography and culturally loaded details",
		"- Prefer suggestive depth over exhaustive cataloguing",
	},
}

// complexityBlock возвращает строки блока сложности для заданной карты.
func complexityBlock(level model.ComplexityLevel, instructions map[model.ComplexityLevel][]string) []string {
	if !level.Valid() {
		level = model.ComplexityStandard
	}
	lines := []string{"COMPLEXITY LEVEL: " + string(levelUpper(level))}
	return append(lines, instructions[level]...)
}

func levelUpper(level model.ComplexityLevel) string {
	switch level {
	case model.ComplexitySimple:
		return "SIMPLE"
	case model.ComplexityComplex:
		return "COMPLEX"
	case model.ComplexityLiterary:
		return "LITERARY"
	default:
		return "STANDARD"
	}
}
