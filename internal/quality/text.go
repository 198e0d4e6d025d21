package quality

import "strings"

// Сегментация текста для оценки. Всё — чистые функции без состояния.

// Paragraphs разбивает текст на непустые абзацы по двойному переводу строки.
func Paragraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Sentences разбивает текст на непустые предложения по терминальной
// пунктуации (. ! ?).
func Sentences(text string) []string {
	var result []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" && hasLetter(s) {
				result = append(result, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" && hasLetter(s) {
		result = append(result, s)
	}
	return result
}

// WordCount считает слова как последовательности, разделённые пробелами.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// isDialogueParagraph определяет абзац с прямой речью по наличию кавычек.
func isDialogueParagraph(p string) bool {
	return strings.ContainsAny(p, `"“”«»`)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80 {
			return true
		}
	}
	return false
}
