package loader

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownTitle returns the text of the first heading in a markdown
// document, or "" when it has none.
func markdownTitle(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			return strings.TrimSpace(string(h.Text(src)))
		}
	}
	return ""
}
