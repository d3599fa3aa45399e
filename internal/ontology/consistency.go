package ontology

import (
	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// DisjointnessChecker finds pairs of mappings that cannot both hold: two
// entities disjoint on one side mapped to the same or subsumption-related
// entities on the other side.
type DisjointnessChecker struct {
	source *Ontology
	target *Ontology
}

// NewDisjointnessChecker creates a checker over the two task ontologies
func NewDisjointnessChecker(source, target *Ontology) *DisjointnessChecker {
	return &DisjointnessChecker{source: source, target: target}
}

// ConflictGroups returns each incoherent pair of mappings as a two-element group,
// in alignment order
func (c *DisjointnessChecker) ConflictGroups(a *alignment.Alignment) [][]alignment.Mapping {
	mappings := a.Mappings()

	// Only mappings touching a disjointness declaration can start a conflict
	var seeds []int
	for i, m := range mappings {
		if c.source.HasDisjointness(m.Source) || c.target.HasDisjointness(m.Target) {
			seeds = append(seeds, i)
		}
	}

	seen := make(map[[2]int]bool)
	var groups [][]alignment.Mapping
	for _, i := range seeds {
		for j := range mappings {
			if i == j {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				continue
			}
			if c.incoherent(mappings[i], mappings[j]) {
				seen[key] = true
				groups = append(groups, []alignment.Mapping{mappings[key[0]], mappings[key[1]]})
			}
		}
	}
	return groups
}

func (c *DisjointnessChecker) incoherent(x, y alignment.Mapping) bool {
	if !c.classes(x) || !c.classes(y) {
		return false
	}
	if c.source.AreDisjoint(x.Source, y.Source) && c.target.Related(x.Target, y.Target) {
		return true
	}
	return c.target.AreDisjoint(x.Target, y.Target) && c.source.Related(x.Source, y.Source)
}

func (c *DisjointnessChecker) classes(m alignment.Mapping) bool {
	st, ok1 := c.source.TypeOf(m.Source)
	tt, ok2 := c.target.TypeOf(m.Target)
	return ok1 && ok2 && st == types.EntityClass && tt == types.EntityClass
}
