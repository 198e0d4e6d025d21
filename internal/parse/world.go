package parse

import (
	"strings"

	"fabula-server/internal/model"
)

// WorldElements разбирает пакет описаний элементов мира. Каждый элемент
// начинается со строки "- Имя"; поля Type/Category/Importance/Description
// раскладываются по структуре.
func WorldElements(text string) []model.WorldElement {
	var elements []model.WorldElement
	var current *model.WorldElement

	flush := func() {
		if current != nil && current.Name != "" {
			if current.ElementType == "" {
				current.ElementType = "Location"
			}
			elements = append(elements, *current)
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
			current = &model.WorldElement{Name: strings.TrimSpace(m[1])}
			continue
		}

		if current == nil {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if found {
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "type", "element type":
				current.ElementType = strings.TrimSpace(value)
				continue
			case "category":
				current.Category = strings.TrimSpace(value)
				continue
			case "importance", "significance":
				current.Importance = strings.TrimSpace(value)
				continue
			case "description":
				current.Description = strings.TrimSpace(value)
				continue
			}
		}

		if current.Description != "" {
			current.Description += " "
		}
		current.Description += line
	}

	flush()
	return elements
}
