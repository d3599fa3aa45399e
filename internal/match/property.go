package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Domain and range compatibility scores
const (
	compatFull    = 1.0
	compatOneSide = 0.75
	compatNone    = 0.5
)

// PropertyMatcher matches object and data properties by name, weighted by
// how compatible their domains and ranges are under the current alignment
type PropertyMatcher struct {
	suite *Suite
}

func (m *PropertyMatcher) Name() string { return "property" }

func (m *PropertyMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	return m.ExtendAlignment(ctx, m.suite.newAlignment(), threshold)
}

// ExtendAlignment compares every pair of same-type properties that a leaves unmapped
func (m *PropertyMatcher) ExtendAlignment(ctx context.Context, a *alignment.Alignment, threshold float64) (*alignment.Alignment, error) {
	out := m.suite.newAlignment()
	for _, et := range []types.EntityType{types.EntityObjectProperty, types.EntityDataProperty} {
		for i, s := range m.suite.source.Entities(et) {
			if i%128 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if a.ContainsSource(s.ID) {
				continue
			}
			for _, t := range m.suite.target.Entities(et) {
				if a.ContainsTarget(t.ID) {
					continue
				}
				nameSim := m.nameSimilarity(s.ID, t.ID)
				if nameSim < threshold {
					continue
				}
				compat := (compatibility(s.Domain, t.Domain, a) + compatibility(s.Range, t.Range, a)) / 2
				if sim := nameSim * compat; sim >= threshold {
					out.Add(s.ID, t.ID, sim, types.Equivalence, types.StatusUnknown)
				}
			}
		}
	}
	return out, nil
}

// nameSimilarity is the better of the fuzzy and the stemmed word overlap scores
func (m *PropertyMatcher) nameSimilarity(s, t types.EntityID) float64 {
	sn := m.suite.source.Lexicon().Names(s)
	tn := m.suite.target.Lexicon().Names(t)
	best := m.suite.nameSimilarity(sn, tn)
	for _, x := range sn {
		xw := stemBag(x.Name, m.suite.stemmer)
		for _, y := range tn {
			if !sameLanguage(x.Language, y.Language) {
				continue
			}
			yw := stemBag(y.Name, m.suite.stemmer)
			best = max(best, weightedJaccard(xw, yw, nil)*x.Weight*y.Weight)
		}
	}
	return best
}

// compatibility scores two domain (or range) lists: full when both are unset,
// identical or aligned, less when only one is set
func compatibility(s, t []types.EntityID, a *alignment.Alignment) float64 {
	switch {
	case len(s) == 0 && len(t) == 0:
		return compatFull
	case len(s) == 0 || len(t) == 0:
		return compatOneSide
	}
	for _, x := range s {
		for _, y := range t {
			if x == y || a.Contains(x, y) {
				return compatFull
			}
		}
	}
	return compatNone
}
