package chunker

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`(?m)^#+\s+(.+)$`)

// firstHeadingLine returns the text of the first markdown heading in s,
// or "" when there is none.
func firstHeadingLine(s string) string {
	m := headingRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// lastHeadingLine returns the text of the last markdown heading in s.
// A chunk's most recent heading is the best guess at the section it
// belongs to.
func lastHeadingLine(s string) string {
	ms := headingRe.FindAllStringSubmatch(s, -1)
	if len(ms) == 0 {
		return ""
	}
	return strings.TrimSpace(ms[len(ms)-1][1])
}
