package answer

import (
	"fmt"
	"strings"

	"github.com/quantic-msse0726/policy-rag-app/internal/retriever"
)

// systemMessage instructs the model to answer only from the supplied
// excerpts and to leave quoting to the deterministic injection step.
const systemMessage = `Answer ONLY from the provided excerpts.
- Use 2–4 bullet points max.
- Each bullet must end with a citation like [1] or [2].
- DO NOT include any verbatim quotes in your answer text; the system will append a verbatim quote automatically.
- NEVER start a line with "Quote:".
- If refusing, do not cite anything.
- Keep under 140 words.`

// BuildPrompt renders the system and user messages for one question.
// Each context block carries the 1-based index its citation marker
// refers to.
func BuildPrompt(question string, contexts []retriever.Context) (system, user string) {
	blocks := make([]string, len(contexts))
	for i, ctx := range contexts {
		header := strings.TrimSpace(fmt.Sprintf("[%d] %s | %s | %s", i+1, ctx.DocID, ctx.Title, ctx.Section))
		blocks[i] = header + "\n" + ctx.Text
	}

	user = fmt.Sprintf("Question: %s\n\nContext:\n%s\n\nAnswer using only the context above.",
		question, strings.Join(blocks, "\n\n"))
	return systemMessage, user
}
