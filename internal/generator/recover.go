package generator

import (
	"strings"
	"unicode"
)

const fence = "```"

// Recover isolates a JSON array embedded in free-form model output. It trims
// whitespace, strips one leading fence (with an optional language tag) and
// one trailing fence, then slices from the first '[' to the last ']'. Text
// without such a pair is returned as is and fails to parse downstream.
func Recover(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, fence) {
		cleaned = cleaned[len(fence):]
		cleaned = strings.TrimLeftFunc(cleaned, isLanguageTagRune)
	}
	cleaned = strings.TrimSuffix(cleaned, fence)
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexByte(cleaned, '[')
	end := strings.LastIndexByte(cleaned, ']')
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

func isLanguageTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+'
}
