package parse

import (
	"regexp"
	"strconv"
	"strings"

	"fabula-server/internal/model"
)

// Парсеры текстовых ответов генератора. Терпимы к markdown-обвязке и
// лишним пустым строкам: модель не всегда следует формату буквально.

var (
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	chapterRe = regexp.MustCompile(`(?i)^chapter\s+([0-9]+)[:.]?\s*(.*)$`)
)

// Outline разбирает текст плана в упорядоченный список глав. Строки вида
// "Chapter N: Title" начинают главу; последующие строки накапливаются
// в её summary.
func Outline(text string) []model.Chapter {
	var chapters []model.Chapter
	var current *model.Chapter

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}
		clean := strings.TrimSpace(boldRe.ReplaceAllString(line, "$1"))

		if m := chapterRe.FindStringSubmatch(clean); m != nil {
			number, err := strconv.Atoi(m[1])
			if err == nil {
				if current != nil {
					chapters = append(chapters, *current)
				}
				current = &model.Chapter{
					Number: number,
					Title:  strings.TrimSpace(m[2]),
				}
				continue
			}
		}

		if current != nil {
			if current.Summary != "" {
				current.Summary += " "
			}
			current.Summary += clean
		}
	}

	if current != nil {
		chapters = append(chapters, *current)
	}
	return chapters
}
