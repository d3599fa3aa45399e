// Package filter turns candidate alignments into final ones: combining,
// selecting under a cardinality policy, and repairing conflicts.
package filter

import (
	"github.com/standardbeagle/ontomatch/internal/alignment"
)

// LWC is the linear weighted combination of two alignments over the union of
// their pairs: weight*simA + (1-weight)*simB, a missing side counting as 0.
// Relation and status come from a when it holds the pair.
func LWC(a, b *alignment.Alignment, weight float64) *alignment.Alignment {
	weight = min(1, max(0, weight))
	out := a.Derive()
	for _, m := range a.Mappings() {
		sim := weight * m.Similarity
		if o, ok := b.Get(m.Source, m.Target); ok {
			sim += (1 - weight) * o.Similarity
		}
		out.Add(m.Source, m.Target, sim, m.Relation, m.Status)
	}
	for _, m := range b.Mappings() {
		if a.Contains(m.Source, m.Target) {
			continue
		}
		out.Add(m.Source, m.Target, (1-weight)*m.Similarity, m.Relation, m.Status)
	}
	return out
}
