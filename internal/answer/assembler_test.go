package answer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/quantic-msse0726/policy-rag-app/internal/retriever"
)

type fakeRetriever struct {
	contexts []retriever.Context
	err      error
}

func (f *fakeRetriever) Retrieve(context.Context, string) ([]retriever.Context, error) {
	return f.contexts, f.err
}

type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	f.calls++
	return f.text, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func policyContexts() []retriever.Context {
	long := strings.Repeat("Policy detail text. ", 30)
	return []retriever.Context{
		{
			DocID:    "expenses.md",
			Title:    "Expense Policy",
			Section:  "Meals",
			Snippet:  "Employees may claim up to $50 per day for meals.",
			Text:     "Employees may claim up to $50 per day for meals. " + long,
			Distance: 0.3,
		},
		{
			DocID:    "travel.md",
			Title:    "Travel Policy",
			Snippet:  "Travel must be booked 14 days ahead.",
			Text:     "Travel must be booked through the portal 14 days ahead. " + long,
			Distance: 0.5,
		},
		{
			DocID:    "remote.md",
			Title:    "Remote Work",
			Snippet:  "Remote work is capped at 3 days per week.",
			Text:     "Remote work is capped at 3 days per week with approval. " + long,
			Distance: 0.7,
		},
	}
}

func newTestAssembler(r ContextRetriever, c Completer) *Assembler {
	g := retriever.Guardrail{StrictDistance: true, DistanceCeiling: retriever.DefaultDistanceCeiling}
	return NewAssembler(r, g, c, false, testLogger())
}

func TestAnswer_RefusalShortCircuitsGeneration(t *testing.T) {
	completer := &fakeCompleter{text: "should never be used"}
	a := newTestAssembler(&fakeRetriever{}, completer)

	resp, err := a.Answer(context.Background(), "What is the dress code?")
	if err != nil {
		t.Fatalf("refusal must not be an error, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("completion service called %d times on refusal path", completer.calls)
	}
	if !strings.Contains(resp.Answer, "cannot") {
		t.Errorf("refusal answer should carry a refusal phrase, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "No relevant policy documents found.") {
		t.Errorf("refusal answer should carry the reason, got %q", resp.Answer)
	}
	if len(resp.Citations) != 0 || len(resp.Snippets) != 0 {
		t.Errorf("refusal must expose no citations or snippets, got %v / %v", resp.Citations, resp.Snippets)
	}
}

func TestAnswer_FiltersOutOfRangeCitations(t *testing.T) {
	completer := &fakeCompleter{text: `Approved. [2] [2] [5]` + "\n" + `Quote: "already here" [2]`}
	a := newTestAssembler(&fakeRetriever{contexts: policyContexts()}, completer)

	resp, err := a.Answer(context.Background(), "Is travel approval required?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(resp.Citations))
	}
	if resp.Citations[0].DocID != "travel.md" {
		t.Errorf("citation doc = %q, want travel.md", resp.Citations[0].DocID)
	}
	if len(resp.Snippets) != 1 || resp.Snippets[0] != "Travel must be booked 14 days ahead." {
		t.Errorf("snippets = %v", resp.Snippets)
	}
}

func TestAnswer_InjectsQuoteWhenMissing(t *testing.T) {
	completer := &fakeCompleter{text: "- Meals are capped at fifty dollars per day. [1]"}
	a := newTestAssembler(&fakeRetriever{contexts: policyContexts()}, completer)

	resp, err := a.Answer(context.Background(), "What is the meal reimbursement limit?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var quoteLine string
	for _, line := range strings.Split(resp.Answer, "\n") {
		if strings.HasPrefix(line, "Quote:") {
			quoteLine = line
		}
	}
	if quoteLine == "" {
		t.Fatalf("expected an injected quote line, got %q", resp.Answer)
	}
	if !strings.HasSuffix(quoteLine, "[1]") {
		t.Errorf("quote must cite the first cited context, got %q", quoteLine)
	}

	start := strings.Index(quoteLine, `"`)
	end := strings.LastIndex(quoteLine, `"`)
	if start < 0 || end <= start {
		t.Fatalf("quote line missing delimiters: %q", quoteLine)
	}
	quoted := quoteLine[start+1 : end]
	if !strings.Contains(policyContexts()[0].Text, quoted) {
		t.Errorf("injected quote %q is not a substring of the cited chunk", quoted)
	}
}

func TestAnswer_KeepsExistingQuoteLine(t *testing.T) {
	text := "- Booked 14 days ahead. [2]\nQuote: \"booked through the portal 14 days ahead\" [2]"
	completer := &fakeCompleter{text: text}
	a := newTestAssembler(&fakeRetriever{contexts: policyContexts()}, completer)

	resp, err := a.Answer(context.Background(), "How far ahead must travel be booked?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(resp.Answer, "Quote:") != 1 {
		t.Errorf("existing quote line must not be duplicated, got %q", resp.Answer)
	}
}

func TestAnswer_QuoteDefaultsToFirstContext(t *testing.T) {
	completer := &fakeCompleter{text: "The policy allows it."}
	a := newTestAssembler(&fakeRetriever{contexts: policyContexts()}, completer)

	resp, err := a.Answer(context.Background(), "meal limit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Answer, "[1]") {
		t.Errorf("uncited answer should quote context 1, got %q", resp.Answer)
	}
}

func TestAnswer_RetrievalErrorPropagates(t *testing.T) {
	wantErr := errors.New("index offline")
	a := newTestAssembler(&fakeRetriever{err: wantErr}, &fakeCompleter{})

	_, err := a.Answer(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected retrieval error, got %v", err)
	}
}

func TestAnswer_GenerationErrorPropagates(t *testing.T) {
	genErr := &GenerationError{Err: errors.New("rate limited")}
	a := newTestAssembler(&fakeRetriever{contexts: policyContexts()}, &fakeCompleter{err: genErr})

	_, err := a.Answer(context.Background(), "anything")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	system, user := BuildPrompt("What is the limit?", policyContexts()[:2])
	if !strings.Contains(system, "Answer ONLY from the provided excerpts.") {
		t.Errorf("system prompt missing grounding instruction")
	}
	if !strings.Contains(user, "[1] expenses.md | Expense Policy | Meals") {
		t.Errorf("user prompt missing first context header:\n%s", user)
	}
	if !strings.Contains(user, "[2] travel.md | Travel Policy |") {
		t.Errorf("user prompt missing second context header:\n%s", user)
	}
	if !strings.Contains(user, "Question: What is the limit?") {
		t.Errorf("user prompt missing question")
	}
}
