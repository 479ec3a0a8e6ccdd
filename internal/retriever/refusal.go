package retriever

const (
	// minCombinedChars is the floor on total retrieved text length.
	minCombinedChars = 800
	// DefaultDistanceCeiling is the distance above which even the best
	// hit counts as weak evidence.
	DefaultDistanceCeiling = 1.2
)

// Guardrail decides whether retrieval output is strong enough to answer
// from. It is a pure function of the retrieved contexts.
type Guardrail struct {
	// StrictDistance enables the best-distance ceiling check.
	StrictDistance  bool
	DistanceCeiling float64
}

// ShouldRefuse returns true with a user-facing reason when the retrieved
// evidence is too weak. Checks run in order and the first failure wins.
func (g Guardrail) ShouldRefuse(results []Context) (bool, string) {
	if len(results) == 0 {
		return true, "No relevant policy documents found."
	}
	if len(results) < 2 {
		return true, "Insufficient context to answer reliably."
	}
	combined := 0
	for _, r := range results {
		combined += len(r.Text)
	}
	if combined < minCombinedChars {
		return true, "Retrieved content too short to answer reliably."
	}
	if g.StrictDistance {
		best := results[0].Distance
		for _, r := range results[1:] {
			if r.Distance < best {
				best = r.Distance
			}
		}
		if best > g.DistanceCeiling {
			return true, "No sufficiently relevant policy documents found."
		}
	}
	return false, ""
}
