package retriever

import (
	"strings"
	"testing"
)

func TestPickVerbatimQuote_SubstringInvariant(t *testing.T) {
	texts := []string{
		"Employees may claim up to $50 per day for meals. Receipts are required for all claims.",
		"Remote work is permitted up to 3 days per week with manager approval.\nExceptions need HR sign-off in writing.",
		"All travel must be booked through the corporate portal at least 14 days in advance of departure.",
		"Short one.\nAnother short line here that is long enough to quote from safely.",
	}
	keywordSets := []map[string]bool{
		{},
		{"reimbursement": true, "limit": true},
		{"travel": true, "days": true, "approval": true},
	}
	for _, text := range texts {
		for _, kws := range keywordSets {
			quote := PickVerbatimQuote(text, kws)
			if quote == "" {
				continue
			}
			if !strings.Contains(text, quote) {
				t.Errorf("quote %q is not a substring of %q", quote, text)
			}
		}
	}
}

func TestPickVerbatimQuote_ExpenseScenario(t *testing.T) {
	text := "Employees may claim up to $50 per day for meals."
	quote := PickVerbatimQuote(text, map[string]bool{"reimbursement": true, "limit": true})
	if quote == "" {
		t.Fatal("expected a quote")
	}
	if !strings.Contains(text, quote) {
		t.Fatalf("quote %q not a substring of source", quote)
	}
	if !strings.Contains(quote, "up to $50 per day for meals") {
		t.Errorf("quote %q should carry the dollar figure span", quote)
	}
	if !strings.Contains(quote, "$50") {
		t.Errorf("digits must survive unaltered, got %q", quote)
	}
}

func TestPickVerbatimQuote_EmptyAndShortInput(t *testing.T) {
	if q := PickVerbatimQuote("", nil); q != "" {
		t.Errorf("empty text should yield no quote, got %q", q)
	}
	if q := PickVerbatimQuote("   \n ", nil); q != "" {
		t.Errorf("whitespace text should yield no quote, got %q", q)
	}
	// Long enough to pass the sentence filter but under the minimum
	// span width of five words.
	if q := PickVerbatimQuote("Reimbursement notwithstanding: disallowed.", nil); q != "" {
		t.Errorf("sentence below minimum word count should yield no quote, got %q", q)
	}
}

func TestPickVerbatimQuote_Deterministic(t *testing.T) {
	text := "Overtime must be approved in advance. Employees may claim up to $50 per day for meals. Receipts are required within 30 days."
	kws := map[string]bool{"meals": true}
	first := PickVerbatimQuote(text, kws)
	for i := 0; i < 5; i++ {
		if got := PickVerbatimQuote(text, kws); got != first {
			t.Fatalf("quote selection not deterministic: %q vs %q", first, got)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "First sentence ends here. Second piece follows right after!\nA third on its own line?  Trailing fragment without punctuation"
	got := SplitSentences(text)
	want := []string{
		"First sentence ends here.",
		"Second piece follows right after!",
		"A third on its own line?",
		"Trailing fragment without punctuation",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
	for _, s := range got {
		if !strings.Contains(text, s) {
			t.Errorf("sentence %q is not a substring of the input", s)
		}
	}
}

func TestSplitSentences_FiltersShort(t *testing.T) {
	got := SplitSentences("Too short. This sentence is long enough to keep around.")
	if len(got) != 1 {
		t.Fatalf("got %v, want one sentence", got)
	}
	if got[0] != "This sentence is long enough to keep around." {
		t.Errorf("got %q", got[0])
	}
}

func TestSplitSentences_NoSplitWithoutWhitespace(t *testing.T) {
	got := SplitSentences("Version 1.2 applies to all staff members here.")
	if len(got) != 1 {
		t.Fatalf("decimal point must not split the sentence, got %v", got)
	}
}
