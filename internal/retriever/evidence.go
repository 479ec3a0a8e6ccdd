package retriever

import (
	"regexp"
	"sort"
	"strings"
)

const (
	evidenceMaxChars     = 350
	evidenceMaxSentences = 2
)

var wsRe = regexp.MustCompile(`\s+`)

func cleanWhitespace(text string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
}

// ExtractEvidence derives an evidence snippet from a chunk: the top
// sentences by keyword hits plus rule bonus, joined and truncated to the
// character cap at a word boundary. The snippet is never empty when the
// chunk text is non-empty.
func ExtractEvidence(chunkText, question string) string {
	keywords := ExtractKeywords(question)
	sentences := splitRaw(chunkText)

	if len(sentences) == 0 {
		return truncateRunes(cleanWhitespace(chunkText), evidenceMaxChars)
	}

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		ranked[i] = scored{text: s, score: keywordScore(s, keywords) + ruleBonus(s)}
	}
	// Highest score first; among ties prefer the shorter sentence.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return len(ranked[i].text) < len(ranked[j].text)
	})

	n := evidenceMaxSentences
	if n > len(ranked) {
		n = len(ranked)
	}
	chosen := make([]string, n)
	for i := 0; i < n; i++ {
		chosen[i] = ranked[i].text
	}

	joined := strings.Join(chosen, ". ")
	if !strings.HasSuffix(joined, ".") && !strings.HasSuffix(joined, "!") && !strings.HasSuffix(joined, "?") {
		joined += "."
	}
	if len([]rune(joined)) > evidenceMaxChars {
		trunc := truncateRunes(joined, evidenceMaxChars)
		if idx := strings.LastIndex(trunc, " "); idx >= 0 {
			joined = trunc[:idx] + "..."
		} else {
			joined = trunc + "..."
		}
	}
	return joined
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
