package retriever

import (
	"regexp"
	"strings"
)

// stopwords excluded from question keyword extraction.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "what": true, "which": true,
	"who": true, "whom": true,
	"this": true, "that": true, "these": true, "those": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true, "they": true,
	"and": true, "or": true, "but": true, "if": true, "then": true, "else": true,
	"when": true, "at": true, "by": true, "for": true, "with": true,
	"about": true, "into": true, "through": true, "during": true, "from": true,
	"to": true, "of": true, "in": true, "on": true,
}

var wordRe = regexp.MustCompile(`\w+`)
var digitRe = regexp.MustCompile(`\d`)

// ruleTerms mark policy-operative language; their presence boosts a
// sentence's evidence score.
var ruleTerms = []string{
	"up to", "within", "must", "required", "prohibited",
	"may", "cannot", "days", "hours", "approval",
}

// quoteRuleTerms is the narrower term list used when scoring quote spans.
var quoteRuleTerms = []string{
	"must", "required", "prohibited", "up to", "within", "days", "approval",
}

// ExtractKeywords returns the lowercase question tokens of length at
// least 4 that are not stopwords.
func ExtractKeywords(question string) map[string]bool {
	keywords := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(question), -1) {
		if len(w) >= 4 && !stopwords[w] {
			keywords[w] = true
		}
	}
	return keywords
}

// keywordScore counts how many keywords occur in text, case-insensitive.
// Each keyword counts at most once.
func keywordScore(text string, keywords map[string]bool) int {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0
	for kw := range keywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// ruleBonus awards a point for any digit plus one per rule term present.
func ruleBonus(text string) int {
	bonus := 0
	if digitRe.MatchString(text) {
		bonus++
	}
	lower := strings.ToLower(text)
	for _, term := range ruleTerms {
		if strings.Contains(lower, term) {
			bonus++
		}
	}
	return bonus
}

// quoteSpanScore scores a candidate quote span on digits and the quote
// term list.
func quoteSpanScore(span string) int {
	score := 0
	if digitRe.MatchString(span) {
		score++
	}
	lower := strings.ToLower(span)
	for _, term := range quoteRuleTerms {
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}
