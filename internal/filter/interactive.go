package filter

import (
	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/debug"
	"github.com/standardbeagle/ontomatch/internal/oracle"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// InteractiveSelector asks an oracle about doubtful mappings before selecting
// strictly around the confirmed ones. Doubtful means below LowSimilarity, not
// supported by any auxiliary alignment, or proposed only by the auxiliary
// alignments (at least two must agree on a pair for it to be proposed).
type InteractiveSelector struct {
	Oracle        oracle.Oracle
	Aux           []*alignment.Alignment
	LowSimilarity float64
	StrictBound   int
}

func (s *InteractiveSelector) Select(a *alignment.Alignment, threshold float64) *alignment.Alignment {
	work := a.Copy()
	proposed := s.proposals(a, threshold)
	for _, m := range proposed.Mappings() {
		work.AddMapping(m)
	}

	confirmed := a.Derive()
	queries := 0
	for _, m := range work.Sorted() {
		if m.Similarity < threshold {
			break
		}
		if m.Status == types.StatusCorrect {
			confirmed.AddMapping(m)
			continue
		}
		isProposal := proposed.Contains(m.Source, m.Target)
		if !s.Oracle.IsInteractive() {
			if isProposal {
				work.Remove(m.Source, m.Target)
			}
			continue
		}
		if confirmed.ContainsConflict(m) || !(isProposal || s.doubtful(m)) {
			continue
		}
		queries++
		switch s.Oracle.Check(m) {
		case types.DecisionYes:
			m.Status = types.StatusCorrect
			work.SetStatus(m.Source, m.Target, types.StatusCorrect)
			confirmed.AddMapping(m)
		case types.DecisionNo:
			work.Remove(m.Source, m.Target)
		case types.DecisionAbstain:
			if isProposal {
				work.Remove(m.Source, m.Target)
			}
		}
	}
	debug.LogFilter("interactive selection asked %d questions, %d confirmed", queries, confirmed.Len())

	rest := a.Derive()
	for _, m := range work.Mappings() {
		if !confirmed.Contains(m.Source, m.Target) && !confirmed.ContainsConflict(m) {
			rest.AddMapping(m)
		}
	}
	strict := (&RankedSelector{Type: types.SelectionStrict, StrictBound: s.StrictBound}).Select(rest, threshold)

	out := a.Derive()
	for _, m := range work.Mappings() {
		if confirmed.Contains(m.Source, m.Target) || strict.Contains(m.Source, m.Target) {
			out.AddMapping(m)
		}
	}
	return out
}

func (s *InteractiveSelector) doubtful(m alignment.Mapping) bool {
	if m.Similarity < s.LowSimilarity {
		return true
	}
	if len(s.Aux) == 0 {
		return false
	}
	for _, aux := range s.Aux {
		if aux.Contains(m.Source, m.Target) {
			return false
		}
	}
	return true
}

// proposals returns the pairs absent from a that at least two auxiliary
// alignments hold at or above threshold, with their best similarity
func (s *InteractiveSelector) proposals(a *alignment.Alignment, threshold float64) *alignment.Alignment {
	votes := make(map[[2]types.EntityID]int)
	out := a.Derive()
	for _, aux := range s.Aux {
		for _, m := range aux.Mappings() {
			if m.Similarity < threshold || a.Contains(m.Source, m.Target) {
				continue
			}
			key := [2]types.EntityID{m.Source, m.Target}
			votes[key]++
			if votes[key] == 2 {
				out.Add(m.Source, m.Target, bestAux(s.Aux, m), m.Relation, types.StatusUnknown)
			}
		}
	}
	return out
}

func bestAux(aux []*alignment.Alignment, m alignment.Mapping) float64 {
	best := 0.0
	for _, x := range aux {
		if o, ok := x.Get(m.Source, m.Target); ok {
			best = max(best, o.Similarity)
		}
	}
	return best
}
