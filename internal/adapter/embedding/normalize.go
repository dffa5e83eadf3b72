package embedding

import (
	"strings"
	"unicode"
)

// Normalize splits a text fragment into lowercase alphanumeric tokens.
// Compact camel-style identifiers split at lower-to-upper boundaries,
// runs of '.', '_' and '-' separate words, and every remaining
// non-alphanumeric character acts as whitespace.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}

	var spaced strings.Builder
	spaced.Grow(len(text) + len(text)/4)
	prev := rune(0)
	for _, r := range text {
		if unicode.IsLower(prev) && unicode.IsUpper(r) {
			spaced.WriteRune(' ')
		}
		spaced.WriteRune(r)
		prev = r
	}

	lowered := strings.ToLower(spaced.String())
	cleaned := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			cleaned = append(cleaned, r)
		default:
			cleaned = append(cleaned, ' ')
		}
	}

	return strings.Fields(string(cleaned))
}
