package match

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// StringMatcher compares every pair of same-type entities with the configured
// string similarity measure. Source entities are fanned out over the worker pool.
type StringMatcher struct {
	suite *Suite
}

func (m *StringMatcher) Name() string { return "string" }

type namedEntity struct {
	id    types.EntityID
	names []ontology.LexEntry
}

func named(o *ontology.Ontology, t types.EntityType) []namedEntity {
	lex := o.Lexicon()
	var out []namedEntity
	for _, e := range o.Entities(t) {
		if names := lex.Names(e.ID); len(names) > 0 {
			out = append(out, namedEntity{id: e.ID, names: names})
		}
	}
	return out
}

func (m *StringMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	a := m.suite.newAlignment()
	for _, et := range m.suite.sharedTypes() {
		src := named(m.suite.source, et)
		tgt := named(m.suite.target, et)

		// one result slot per source keeps the merge order deterministic
		results := make([][]alignment.Mapping, len(src))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.suite.workers)
		for i := range src {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, t := range tgt {
					if sim := m.suite.nameSimilarity(src[i].names, t.names); sim >= threshold {
						results[i] = append(results[i], alignment.NewMapping(src[i].id, t.id, sim))
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, r := range results {
			a.AddAll(r...)
		}
	}
	return a, nil
}

// ExtendAlignment compares the parents and the children of every mapped pair
// where neither side is mapped yet. Only new candidates are returned.
func (m *StringMatcher) ExtendAlignment(ctx context.Context, a *alignment.Alignment, threshold float64) (*alignment.Alignment, error) {
	out := m.suite.newAlignment()
	src, tgt := m.suite.source, m.suite.target
	consider := func(s, t types.EntityID) {
		if out.Contains(s, t) || a.ContainsSource(s) || a.ContainsTarget(t) {
			return
		}
		st, ok1 := src.TypeOf(s)
		tt, ok2 := tgt.TypeOf(t)
		if !ok1 || !ok2 || st != tt {
			return
		}
		sim := m.suite.nameSimilarity(src.Lexicon().Names(s), tgt.Lexicon().Names(t))
		if sim >= threshold {
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
