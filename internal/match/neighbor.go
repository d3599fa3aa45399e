package match

import (
	"context"
	"math"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// NeighborSimilarityMatcher scores class pairs by how well their direct
// parents and children are aligned
type NeighborSimilarityMatcher struct {
	suite *Suite
}

func (m *NeighborSimilarityMatcher) Name() string { return "structural" }

// Match seeds with the lexical matcher and returns the seed together with
// its structural extension
func (m *NeighborSimilarityMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	seed, err := m.suite.Lexical().Match(ctx, threshold)
	if err != nil {
		return nil, err
	}
	ext, err := m.ExtendAlignment(ctx, seed, threshold)
	if err != nil {
		return nil, err
	}
	seed.Merge(ext)
	return seed, nil
}

// ExtendAlignment proposes the parent and child pairs of mapped classes where
// neither side is mapped. Candidates score the geometric mean of neighbour and
// name similarity.
func (m *NeighborSimilarityMatcher) ExtendAlignment(ctx context.Context, a *alignment.Alignment, threshold float64) (*alignment.Alignment, error) {
	out := m.suite.newAlignment()
	src, tgt := m.suite.source, m.suite.target
	consider := func(s, t types.EntityID) {
		if out.Contains(s, t) || a.ContainsSource(s) || a.ContainsTarget(t) {
			return
		}
		if st, _ := src.TypeOf(s); st != types.EntityClass {
			return
		}
		if tt, _ := tgt.TypeOf(t); tt != types.EntityClass {
			return
		}
		nameSim := m.suite.nameSimilarity(src.Lexicon().Names(s), tgt.Lexicon().Names(t))
		if sim := math.Sqrt(m.neighborSimilarity(s, t, a) * nameSim); sim >= threshold {
			out.Add(s, t, sim, types.Equivalence, types.StatusUnknown)
		}
	}
	for i, mp := range a.Mappings() {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, sp := range src.Parents(mp.Source) {
			for _, tp := range tgt.Parents(mp.Target) {
				consider(sp, tp)
			}
		}
		for _, sc := range src.Children(mp.Source) {
			for _, tc := range tgt.Children(mp.Target) {
				consider(sc, tc)
			}
		}
	}
	return out, nil
}

// Rematch rescores every mapping of a by neighbour similarity alone
func (m *NeighborSimilarityMatcher) Rematch(ctx context.Context, a *alignment.Alignment) (*alignment.Alignment, error) {
	out := m.suite.newAlignment()
	for i, mp := range a.Mappings() {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out.Add(mp.Source, mp.Target, m.neighborSimilarity(mp.Source, mp.Target, a), mp.Relation, mp.Status)
	}
	return out, nil
}

// neighborSimilarity sums, for every parent (child) of s, the best similarity
// in a to a parent (child) of t, and divides by the larger neighbourhood
func (m *NeighborSimilarityMatcher) neighborSimilarity(s, t types.EntityID, a *alignment.Alignment) float64 {
	src, tgt := m.suite.source, m.suite.target
	sp, tp := src.Parents(s), tgt.Parents(t)
	sc, tc := src.Children(s), tgt.Children(t)
	size := max(len(sp)+len(sc), len(tp)+len(tc))
	if size == 0 {
		return 0
	}
	total := bestNeighbours(sp, tp, a) + bestNeighbours(sc, tc, a)
	return min(1, total/float64(size))
}

func bestNeighbours(xs, ys []types.EntityID, a *alignment.Alignment) float64 {
	total := 0.0
	for _, x := range xs {
		best := 0.0
		for _, y := range ys {
			if mp, ok := a.Get(x, y); ok {
				best = max(best, mp.Similarity)
			}
		}
		total += best
	}
	return total
}
