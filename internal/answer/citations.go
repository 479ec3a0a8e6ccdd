package answer

import (
	"regexp"
	"sort"
	"strconv"
)

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// ExtractCitedIndices returns the distinct bracketed citation numbers
// found in text, sorted ascending.
func ExtractCitedIndices(text string) []int {
	seen := make(map[int]bool)
	for _, m := range citationRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seen[n] = true
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// validIndices drops cited indices outside [1, n]. The survivors keep
// their ascending order.
func validIndices(indices []int, n int) []int {
	var out []int
	for _, i := range indices {
		if i >= 1 && i <= n {
			out = append(out, i)
		}
	}
	return out
}
