package seller

import (
	"fmt"
	"regexp"
	"strings"
)

// Сокращения, после которых точка не означает конец предложения.
var abbreviations = []string{
	"Mr.", "Mrs.", "Ms.", "Dr.", "Inc.", "Ltd.", "Corp.", "Co.",
	"etc.", "e.g.", "i.e.", "vs.", "dept.", "approx.", "qty.", "no.",
}

var decimalPattern = regexp.MustCompile(`\$?\d+\.\d+`)

// CleanReply убирает типовую проблему генерации - задвоенный текст,
// когда модель повторяет весь ответ дважды.
func CleanReply(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) > 1 && len(paragraphs)%2 == 0 {
		mid := len(paragraphs) / 2
		duplicated := true
		for i := 0; i < mid; i++ {
			if paragraphs[i] != paragraphs[mid+i] {
				duplicated = false
				break
			}
		}
		if duplicated {
			return strings.Join(paragraphs[:mid], "\n\n")
		}
	}
	return text
}

// EnforceConcise обрезает ответ до maxSentences предложений, защищая
// сокращения и десятичные числа от ложных разрывов.
func EnforceConcise(text string, maxSentences int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}

	protected := trimmed
	placeholders := map[string]string{}

	for i, abbr := range abbreviations {
		if strings.Contains(protected, abbr) {
			placeholder := fmt.Sprintf("__ABBR%d__", i)
			placeholders[placeholder] = abbr
			protected = strings.ReplaceAll(protected, abbr, placeholder)
		}
	}

	for i, match := range decimalPattern.FindAllString(protected, -1) {
		placeholder := fmt.Sprintf("__DEC%d__", i)
		placeholders[placeholder] = match
		protected = strings.Replace(protected, match, placeholder, 1)
	}

	sentences := splitSentences(protected)
	if len(sentences) <= maxSentences {
		return text
	}

	truncated := strings.Join(sentences[:maxSentences], " ")
	for placeholder, original := range placeholders {
		truncated = strings.ReplaceAll(truncated, placeholder, original)
	}

	if !strings.HasSuffix(truncated, ".") && !strings.HasSuffix(truncated, "!") && !strings.HasSuffix(truncated, "?") {
		truncated += "."
	}
	return truncated
}

// splitSentences режет текст по [.!?] с последующим пробелом.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n') {
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			// Пропускаем пробельный хвост
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n') {
				j++
			}
			start = j
			i = j - 1
		}
	}

	if start < len(runes) {
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}
