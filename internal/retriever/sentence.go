package retriever

import (
	"strings"
	"unicode"
)

// minSentenceChars filters out fragments too short to quote from.
const minSentenceChars = 20

// splitRaw cuts text into sentences on sentence-ending punctuation
// followed by whitespace, and on newlines. Every returned sentence is a
// contiguous substring of the input with surrounding whitespace trimmed,
// which keeps downstream substring checks exact.
func splitRaw(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			parts = append(parts, s)
		}
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '\n' {
			flush(i)
			for i < len(runes) && runes[i] == '\n' {
				i++
			}
			start = i
			continue
		}
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			flush(i + 1)
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	flush(len(runes))
	return parts
}

// SplitSentences returns sentences of at least minSentenceChars
// characters.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range splitRaw(text) {
		if len(s) >= minSentenceChars {
			out = append(out, s)
		}
	}
	return out
}
