package alignment

import (
	"fmt"
	"math"

	"github.com/standardbeagle/ontomatch/internal/types"
)

// Mapping is a scored, typed correspondence between a source and a target entity.
// Identity is the (Source, Target) pair.
type Mapping struct {
	Source     types.EntityID
	Target     types.EntityID
	Similarity float64
	Relation   types.Relation
	Status     types.Status
}

// NewMapping creates an equivalence mapping with unknown status
func NewMapping(src, tgt types.EntityID, sim float64) Mapping {
	return Mapping{
		Source:     src,
		Target:     tgt,
		Similarity: clamp(sim),
		Relation:   types.Equivalence,
		Status:     types.StatusUnknown,
	}
}

// SamePair reports whether m and other link the same two entities
func (m Mapping) SamePair(other Mapping) bool {
	return m.Source == other.Source && m.Target == other.Target
}

// Identical reports whether m and other link the same entities with the same relation
func (m Mapping) Identical(other Mapping) bool {
	return m.SamePair(other) && m.Relation == other.Relation
}

// ConflictsWith reports whether m and other share exactly one entity
func (m Mapping) ConflictsWith(other Mapping) bool {
	if m.SamePair(other) {
		return false
	}
	return m.Source == other.Source || m.Target == other.Target
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s %s %s (%.3f, %s)", m.Source, m.Relation, m.Target, m.Similarity, m.Status)
}

func clamp(sim float64) float64 {
	switch {
	case math.IsNaN(sim), sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}
