package parse

import (
	"regexp"
	"strings"

	"fabula-server/internal/model"
)

// nameLineRe распознает начало описания персонажа: "1. Имя", "- Имя"
// или "* Имя".
var nameLineRe = regexp.MustCompile(`^(?:[0-9]+\.|\*|-)\s*([^:]+?)\s*:?\s*$`)

// Characters разбирает пакет описаний персонажей. Известные поля
// (Role/Personality/Motivation/Arc/Traits) раскладываются по структуре,
// остальные строки дописываются в Personality.
func Characters(text string) []model.Character {
	var characters []model.Character
	var current *model.Character

	flush := func() {
		if current != nil && current.Name != "" {
			characters = append(characters, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(boldRe.ReplaceAllString(strings.TrimSpace(raw), "$1"))
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}

		if m := nameLineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &model.Character{Name: strings.TrimSpace(m[1])}
			continue
		}

		if current == nil {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if found {
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "role":
				current.Role = normalizeRole(value)
				continue
			case "personality":
				current.Personality = strings.TrimSpace(value)
				continue
			case "motivation", "motivations":
				current.Motivations = strings.TrimSpace(value)
				continue
			case "arc", "character arc":
				current.Arc = strings.TrimSpace(value)
				continue
			case "traits":
				current.Traits = strings.TrimSpace(value)
				continue
			}
		}

		// Неразмеченный текст дописываем к описанию личности.
		if current.Personality != "" {
			current.Personality += " "
		}
		current.Personality += line
	}

	flush()
	return characters
}

// normalizeRole приводит роль к каноническому виду.
func normalizeRole(value string) string {
	role := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(role, "protagonist"):
		return "protagonist"
	case strings.Contains(role, "antagonist"):
		return "antagonist"
	case role == "":
		return "supporting"
	default:
		return role
	}
}
