package filter

import (
	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// RankedCoSelector selects like RankedSelector but settles conflicts in favour
// of mappings corroborated by an auxiliary alignment. Candidates rank by
// corroboration, then auxiliary similarity, then their own similarity.
type RankedCoSelector struct {
	Aux              *alignment.Alignment
	Type             types.SelectionType
	HybridConfidence float64
}

func (s *RankedCoSelector) Select(a *alignment.Alignment, threshold float64) *alignment.Alignment {
	cands := candidates(a, threshold, func(m alignment.Mapping) rankKey {
		if s.Aux == nil {
			return rankKey{0, 0, m.Similarity}
		}
		aux, ok := s.Aux.Get(m.Source, m.Target)
		if !ok {
			return rankKey{0, 0, m.Similarity}
		}
		return rankKey{1, aux.Similarity, m.Similarity}
	})
	p := policy{typ: s.Type, confidence: s.HybridConfidence}
	return build(a, p.run(cands))
}
