package retriever

import (
	"sort"
	"strings"
)

const (
	quoteMinWords  = 5
	quoteMaxWords  = 15
	quoteLenTarget = 60
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// PickVerbatimQuote picks a contiguous word span from text to use as a
// verbatim quote. A non-empty result is always an exact substring of
// text, byte for byte. Returns "" when no sentence offers a span of at
// least quoteMinWords words.
func PickVerbatimQuote(text string, keywords map[string]bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		ranked[i] = scored{text: s, score: keywordScore(s, keywords) + ruleBonus(s)}
	}
	// Highest score wins; ties prefer length closest to the target,
	// which favors short self-contained assertions.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return abs(len(ranked[i].text)-quoteLenTarget) < abs(len(ranked[j].text)-quoteLenTarget)
	})
	best := ranked[0].text

	// Word boundaries are computed on the winning sentence itself so a
	// span's character range slices the original text exactly.
	words := wordRe.FindAllStringIndex(best, -1)
	if len(words) < quoteMinWords {
		return ""
	}

	type span struct {
		text  string
		score int
	}
	var spans []span
	for start := 0; start < len(words); start++ {
		maxN := quoteMaxWords
		if rest := len(words) - start; rest < maxN {
			maxN = rest
		}
		for n := quoteMinWords; n <= maxN; n++ {
			first := words[start]
			last := words[start+n-1]
			s := best[first[0]:last[1]]
			spans = append(spans, span{text: s, score: quoteSpanScore(s)})
		}
	}
	if len(spans) == 0 {
		return ""
	}

	// Highest score wins; ties prefer the longest span.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].score != spans[j].score {
			return spans[i].score > spans[j].score
		}
		return len(spans[i].text) > len(spans[j].text)
	})
	return strings.TrimSpace(spans[0].text)
}
