package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula-server/internal/parse"
)

func TestOutline(t *testing.T) {
	text := `Here is your outline:

**Chapter 1: The Cartographer's Debt**
Mira loses her license after a map she drew proves false.
The guild confiscates her instruments.

Chapter 2. Upriver
She barters passage on a smuggler's barge.

chapter 3: The Fork
---
A map redraws itself overnight.`

	chapters := parse.Outline(text)
	require.Len(t, chapters, 3)

	assert.Equal(t, 1, chapters[0].Number)
	assert.Equal(t, "The Cartographer's Debt", chapters[0].Title)
	assert.Equal(t, "Mira loses her license after a map she drew proves false. The guild confiscates her instruments.", chapters[0].Summary)

	// Номер с точкой вместо двоеточия тоже распознается.
	assert.Equal(t, 2, chapters[1].Number)
	assert.Equal(t, "Upriver", chapters[1].Title)

	// Заголовок в нижнем регистре и разделители игнорируются.
	assert.Equal(t, 3, chapters[2].Number)
	assert.Equal(t, "The Fork", chapters[2].Title)
	assert.Equal(t, "A map redraws itself overnight.", chapters[2].Summary)
}

func TestOutline_GarbageInput(t *testing.T) {
	assert.Empty(t, parse.Outline(""))
	assert.Empty(t, parse.Outline("No chapters here, just commentary about the story."))
}

func TestCharacters(t *testing.T) {
	text := `1. Mira Voss
Role: Protagonist
Personality: Methodical and guarded, she trusts instruments more than people.
Motivation: Wants her license back; needs to believe her work matters.
Arc: Learns the maps answer to her, not the guild.
Traits: Counts steps when nervous, speaks in bearings.

2. **Captain Helder**
Role: antagonist
Personality: Charming in company, ruthless in ledgers.
He keeps every favor on account.
Motivations: Surface - profit. Deeper - to matter to someone.

- Tomas
Personality: The barge cook who hums old survey songs.`

	characters := parse.Characters(text)
	require.Len(t, characters, 3)

	mira := characters[0]
	assert.Equal(t, "Mira Voss", mira.Name)
	assert.Equal(t, "protagonist", mira.Role)
	assert.Equal(t, "Methodical and guarded, she trusts instruments more than people.", mira.Personality)
	assert.Equal(t, "Learns the maps answer to her, not the guild.", mira.Arc)
	assert.Equal(t, "Counts steps when nervous, speaks in bearings.", mira.Traits)

	helder := characters[1]
	assert.Equal(t, "Captain Helder", helder.Name)
	assert.Equal(t, "antagonist", helder.Role)
	// Неразмеченная строка дописывается к описанию личности.
	assert.Contains(t, helder.Personality, "He keeps every favor on account.")
	assert.Equal(t, "Surface - profit. Deeper - to matter to someone.", helder.Motivations)

	// Роль по умолчанию не подставляется, но пустая роль допустима.
	assert.Equal(t, "Tomas", characters[2].Name)
}

func TestCharacters_RoleNormalization(t *testing.T) {
	text := `1. A
Role: The Protagonist of the story

2. B
Role: Main Antagonist

3. C
Role:`

	characters := parse.Characters(text)
	require.Len(t, characters, 3)
	assert.Equal(t, "protagonist", characters[0].Role)
	assert.Equal(t, "antagonist", characters[1].Role)
	assert.Equal(t, "supporting", characters[2].Role)
}

func TestWorldElements(t *testing.T) {
	text := `- The Saltmarsh Archive
Type: Location
Category: physical
Importance: central
Description: A flooded library where maps are stored in wax.

- **The Surveyors' Guild**
Element Type: Faction
Significance: supporting
Description: Licenses every mapmaker on the river.
Their seal is required for legal trade.

- Unmarked Compass
Category: physical`

	elements := parse.WorldElements(text)
	require.Len(t, elements, 3)

	archive := elements[0]
	assert.Equal(t, "The Saltmarsh Archive", archive.Name)
	assert.Equal(t, "Location", archive.ElementType)
	assert.Equal(t, "physical", archive.Category)
	assert.Equal(t, "central", archive.Importance)

	guild := elements[1]
	assert.Equal(t, "The Surveyors' Guild", guild.Name)
	assert.Equal(t, "Faction", guild.ElementType)
	assert.Equal(t, "supporting", guild.Importance)
	assert.Contains(t, guild.Description, "Their seal is required for legal trade.")

	// Тип по умолчанию — Location.
	assert.Equal(t, "Location", elements[2].ElementType)
}

func TestWorldElements_Empty(t *testing.T) {
	assert.Empty(t, parse.WorldElements(""))
	assert.Empty(t, parse.WorldElements("Nothing structured at all."))
}
