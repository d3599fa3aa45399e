package filter

import (
	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/debug"
	"github.com/standardbeagle/ontomatch/internal/oracle"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Repairer removes mappings that leave an alignment in conflict
type Repairer interface {
	Repair(a *alignment.Alignment) *alignment.Alignment
}

// ConsistencyChecker reports groups of mappings that cannot all hold
// together. Implemented by ontology.DisjointnessChecker.
type ConsistencyChecker interface {
	ConflictGroups(a *alignment.Alignment) [][]alignment.Mapping
}

// ObsoleteChecker answers whether an entity is deprecated
type ObsoleteChecker interface {
	IsObsolete(id types.EntityID) bool
}

type pairKey [2]types.EntityID

func keyOf(m alignment.Mapping) pairKey { return pairKey{m.Source, m.Target} }

// conflictGroups returns the cardinality conflicts of a (every entity with
// several partners) followed by the groups reported by checker
func conflictGroups(a *alignment.Alignment, checker ConsistencyChecker) [][]pairKey {
	var groups [][]pairKey
	seenSrc := make(map[types.EntityID]bool)
	seenTgt := make(map[types.EntityID]bool)
	for _, m := range a.Mappings() {
		if !seenSrc[m.Source] {
			seenSrc[m.Source] = true
			if ms := a.SourceMappings(m.Source); len(ms) > 1 {
				groups = append(groups, keys(ms))
			}
		}
		if !seenTgt[m.Target] {
			seenTgt[m.Target] = true
			if ms := a.TargetMappings(m.Target); len(ms) > 1 {
				groups = append(groups, keys(ms))
			}
		}
	}
	if checker != nil {
		for _, g := range checker.ConflictGroups(a) {
			if len(g) > 1 {
				groups = append(groups, keys(g))
			}
		}
	}
	return groups
}

func keys(ms []alignment.Mapping) []pairKey {
	out := make([]pairKey, len(ms))
	for i, m := range ms {
		out[i] = keyOf(m)
	}
	return out
}

// present returns the members of g still in a
func present(a *alignment.Alignment, g []pairKey) []alignment.Mapping {
	var out []alignment.Mapping
	for _, k := range g {
		if m, ok := a.Get(k[0], k[1]); ok {
			out = append(out, m)
		}
	}
	return out
}

// CardinalityRepairer keeps the best mapping of every conflict group.
// Mappings with status CORRECT are never removed.
type CardinalityRepairer struct {
	Checker ConsistencyChecker
}

func (r *CardinalityRepairer) Repair(a *alignment.Alignment) *alignment.Alignment {
	out := a.Copy()
	removed := resolveGroups(out, conflictGroups(a, r.Checker))
	debug.LogFilter("cardinality repair removed %d of %d mappings", removed, a.Len())
	return out
}

// resolveGroups repeatedly takes the group with the most members left and
// removes its lowest-scoring removable member, until every group is down to
// one member or to CORRECT mappings only. Returns the number removed.
func resolveGroups(a *alignment.Alignment, groups [][]pairKey) int {
	done := make([]bool, len(groups))
	removed := 0
	for {
		worst, worstSize := -1, 1
		for i, g := range groups {
			if done[i] {
				continue
			}
			if n := len(present(a, g)); n > worstSize {
				worst, worstSize = i, n
			}
		}
		if worst < 0 {
			return removed
		}

		victim, found := alignment.Mapping{}, false
		for _, m := range present(a, groups[worst]) {
			if m.Status == types.StatusCorrect {
				continue
			}
			// later members lose ties
			if !found || m.Similarity <= victim.Similarity {
				victim, found = m, true
			}
		}
		if !found {
			done[worst] = true
			continue
		}
		a.Remove(victim.Source, victim.Target)
		removed++
	}
}

// InteractiveRepairer asks the oracle to settle ambiguous conflict groups,
// those whose two best mappings are within Margin of each other. Other
// groups, and every group met once the oracle stops answering, are resolved
// as CardinalityRepairer would. Groups the oracle abstained on are left alone.
type InteractiveRepairer struct {
	Checker ConsistencyChecker
	Oracle  oracle.Oracle
	Margin  float64
}

func (r *InteractiveRepairer) Repair(a *alignment.Alignment) *alignment.Alignment {
	out := a.Copy()
	groups := conflictGroups(a, r.Checker)
	var automatic [][]pairKey
	for _, g := range groups {
		members := sortedMembers(out, g)
		if len(members) < 2 {
			continue
		}
		if !r.Oracle.IsInteractive() || members[0].Similarity-members[1].Similarity > r.Margin {
			automatic = append(automatic, g)
			continue
		}
		r.ask(out, members)
	}
	removed := resolveGroups(out, automatic)
	debug.LogFilter("interactive repair kept %d of %d mappings (%d removed automatically)", out.Len(), a.Len(), removed)
	return out
}

// ask queries the members best first: YES keeps the mapping as CORRECT and
// removes its rivals, NO removes it, ABSTAIN stops
func (r *InteractiveRepairer) ask(a *alignment.Alignment, members []alignment.Mapping) {
	for i, m := range members {
		if m.Status == types.StatusCorrect {
			continue
		}
		switch r.Oracle.Check(m) {
		case types.DecisionYes:
			a.SetStatus(m.Source, m.Target, types.StatusCorrect)
			for j, rival := range members {
				if j != i && rival.Status != types.StatusCorrect {
					a.Remove(rival.Source, rival.Target)
				}
			}
			return
		case types.DecisionNo:
			a.Remove(m.Source, m.Target)
			if len(present(a, keys(members))) < 2 {
				return
			}
		case types.DecisionAbstain:
			return
		}
	}
}

func sortedMembers(a *alignment.Alignment, g []pairKey) []alignment.Mapping {
	sub := a.Derive()
	sub.AddAll(present(a, g)...)
	return sub.Sorted()
}

// ObsoleteRepairer drops mappings involving a deprecated entity on either side
type ObsoleteRepairer struct {
	Source ObsoleteChecker
	Target ObsoleteChecker
}

func (r *ObsoleteRepairer) Repair(a *alignment.Alignment) *alignment.Alignment {
	out := a.Derive()
	for _, m := range a.Mappings() {
		if r.Source.IsObsolete(m.Source) || r.Target.IsObsolete(m.Target) {
			continue
		}
		out.AddMapping(m)
	}
	return out
}
