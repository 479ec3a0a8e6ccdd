// Package answer assembles the final grounded response: guardrail check,
// prompt construction, completion call, deterministic verbatim-quote
// injection, and citation filtering.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quantic-msse0726/policy-rag-app/internal/retriever"
)

// quotePrefix marks the injected quote line in an answer.
const quotePrefix = "Quote:"

// Citation is a retrieved context that survived citation filtering.
type Citation struct {
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Section string `json:"section,omitempty"`
	Snippet string `json:"snippet"`
	Text    string `json:"text"`
}

// Response is the assembled answer for one question.
type Response struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Snippets  []string   `json:"snippets"`
	LatencyMS int64      `json:"latency_ms"`
}

// ContextRetriever supplies ordered evidence contexts for a question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) ([]retriever.Context, error)
}

// Assembler orchestrates one question from retrieval to response.
type Assembler struct {
	retriever ContextRetriever
	guardrail retriever.Guardrail
	completer Completer
	debug     bool
	log       *slog.Logger
}

func NewAssembler(r ContextRetriever, g retriever.Guardrail, c Completer, debug bool, log *slog.Logger) *Assembler {
	return &Assembler{retriever: r, guardrail: g, completer: c, debug: debug, log: log}
}

// Answer runs the full pipeline for question. A guardrail refusal is a
// normal response carrying the refusal message and no citations; every
// other failure returns an error.
func (a *Assembler) Answer(ctx context.Context, question string) (*Response, error) {
	start := time.Now()

	contexts, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	if refuse, reason := a.guardrail.ShouldRefuse(contexts); refuse {
		a.log.Info("refused question", "reason", reason, "results", len(contexts))
		return &Response{
			Answer:    refusalAnswer(reason),
			Citations: []Citation{},
			Snippets:  []string{},
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}

	system, user := BuildPrompt(question, contexts)
	if a.debug {
		a.log.Debug("built prompt", "contexts", len(contexts), "user_chars", len(user))
	}

	text, err := a.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	text = a.injectQuote(text, question, contexts)

	cited := validIndices(ExtractCitedIndices(text), len(contexts))
	citations := make([]Citation, 0, len(cited))
	snippets := make([]string, 0, len(cited))
	for _, i := range cited {
		c := contexts[i-1]
		citations = append(citations, Citation{
			DocID:   c.DocID,
			Title:   c.Title,
			Section: c.Section,
			Snippet: c.Snippet,
			Text:    c.Text,
		})
		snippets = append(snippets, c.Snippet)
	}

	return &Response{
		Answer:    text,
		Citations: citations,
		Snippets:  snippets,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

// injectQuote appends a deterministic verbatim quote line when the model
// produced none. The quoted span comes from the first cited context
// (first context if nothing was cited) and is guaranteed to be a literal
// substring of that chunk.
func (a *Assembler) injectQuote(text, question string, contexts []retriever.Context) string {
	if hasQuoteLine(text) || len(contexts) == 0 {
		return text
	}

	idx := 1
	if cited := ExtractCitedIndices(text); len(cited) > 0 {
		idx = cited[0]
	}
	if idx < 1 {
		idx = 1
	}
	if idx > len(contexts) {
		idx = len(contexts)
	}

	quote := retriever.PickVerbatimQuote(contexts[idx-1].Text, retriever.ExtractKeywords(question))
	// Interior quote characters would break the delimiters around the
	// injected line.
	quote = strings.ReplaceAll(quote, `"`, "")
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return text
	}
	return fmt.Sprintf("%s\n%s \"%s\" [%d]", text, quotePrefix, quote, idx)
}

func hasQuoteLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), quotePrefix) {
			return true
		}
	}
	return false
}

func refusalAnswer(reason string) string {
	return "I cannot answer this from the indexed policy documents. " + reason
}
