package eval

import (
	"regexp"
	"strings"

	"github.com/quantic-msse0726/policy-rag-app/internal/answer"
)

var (
	quotedPhraseRe = regexp.MustCompile(`"([^"]+)"`)
	wsRe           = regexp.MustCompile(`\s+`)
	wordCountRe    = regexp.MustCompile(`\w+`)
)

func normalizeWS(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

func stripTrailingPunct(s string) string {
	return strings.Trim(s, `.,;:!?)"'`)
}

func wordCount(s string) int {
	return len(wordCountRe.FindAllString(s, -1))
}

// ScoreAnswerable checks an answerable question's result. groundedOk
// requires both structured citations and bracket markers in the answer;
// citationOk additionally requires at least one quoted phrase to appear
// verbatim in a cited source.
func ScoreAnswerable(res *answer.Response) (groundedOk, citationOk bool) {
	cited := answer.ExtractCitedIndices(res.Answer)
	groundedOk = len(res.Citations) > 0 && len(cited) > 0
	if !groundedOk {
		return false, false
	}

	sources := make([]string, 0, len(res.Citations))
	for _, c := range res.Citations {
		if c.Text != "" {
			sources = append(sources, c.Text)
		} else if c.Snippet != "" {
			sources = append(sources, c.Snippet)
		}
	}
	if len(sources) == 0 {
		sources = res.Snippets
	}

	for _, m := range quotedPhraseRe.FindAllStringSubmatch(res.Answer, -1) {
		phrase := stripTrailingPunct(normalizeWS(m[1]))
		if len(phrase) < 20 && wordCount(phrase) < 5 {
			continue
		}
		lower := strings.ToLower(phrase)
		for _, src := range sources {
			if strings.Contains(strings.ToLower(normalizeWS(src)), lower) {
				return true, true
			}
		}
	}
	return true, false
}

// ScoreUnanswerable checks that an unanswerable question was refused:
// no citations, no snippets, and a refusal phrase in the answer.
func ScoreUnanswerable(res *answer.Response) (groundedOk, citationOk bool) {
	lower := strings.ToLower(res.Answer)
	hasRefusal := strings.Contains(lower, "cannot") || strings.Contains(lower, "can't")
	ok := len(res.Citations) == 0 && len(res.Snippets) == 0 && hasRefusal
	return ok, ok
}
