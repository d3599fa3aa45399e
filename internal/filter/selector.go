package filter

import (
	"cmp"
	"slices"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/debug"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Selector reduces an alignment to the mappings at or above threshold that
// satisfy its cardinality policy. The input is never modified.
type Selector interface {
	Select(a *alignment.Alignment, threshold float64) *alignment.Alignment
}

// RankedSelector implements the STRICT, PERMISSIVE and HYBRID policies
type RankedSelector struct {
	Type             types.SelectionType
	HybridConfidence float64 // HYBRID selects strictly at or above this similarity
	StrictBound      int     // larger conflict components are selected greedily
}

// NewSelector creates a selector of the given type with the configured bounds
func NewSelector(t types.SelectionType, cfg config.Selection) *RankedSelector {
	return &RankedSelector{Type: t, HybridConfidence: cfg.HybridConfidence, StrictBound: cfg.StrictBound}
}

func (s *RankedSelector) Select(a *alignment.Alignment, threshold float64) *alignment.Alignment {
	cands := candidates(a, threshold, func(m alignment.Mapping) rankKey {
		return rankKey{m.Similarity}
	})
	p := policy{typ: s.Type, confidence: s.HybridConfidence, bound: s.StrictBound, exact: true}
	return build(a, p.run(cands))
}

// rankKey orders candidates, most significant component first
type rankKey [3]float64

func (k rankKey) compare(o rankKey) int {
	for i := range k {
		if c := cmp.Compare(k[i], o[i]); c != 0 {
			return c
		}
	}
	return 0
}

type ranked struct {
	m     alignment.Mapping
	order int
	key   rankKey
}

// better reports whether r ranks before o; equal keys fall back to insertion order
func (r ranked) better(o ranked) bool {
	if c := r.key.compare(o.key); c != 0 {
		return c > 0
	}
	return r.order < o.order
}

func candidates(a *alignment.Alignment, threshold float64, key func(alignment.Mapping) rankKey) []ranked {
	var out []ranked
	for i, m := range a.Mappings() {
		if m.Similarity >= threshold {
			out = append(out, ranked{m: m, order: i, key: key(m)})
		}
	}
	return out
}

func sortRanked(rs []ranked) {
	slices.SortFunc(rs, func(x, y ranked) int {
		switch {
		case x.better(y):
			return -1
		case y.better(x):
			return 1
		default:
			return 0
		}
	})
}

// build returns the kept candidates as a new alignment in insertion order
func build(a *alignment.Alignment, kept []ranked) *alignment.Alignment {
	slices.SortFunc(kept, func(x, y ranked) int { return cmp.Compare(x.order, y.order) })
	out := a.Derive()
	for _, r := range kept {
		out.AddMapping(r.m)
	}
	return out
}

// policy applies a selection type to ranked candidates
type policy struct {
	typ        types.SelectionType
	confidence float64
	bound      int
	exact      bool // solve STRICT components as assignment problems
}

func (p policy) run(cands []ranked) []ranked {
	switch p.typ {
	case types.SelectionStrict:
		return p.strict(cands)
	case types.SelectionPermissive:
		return permissive(nil, cands)
	case types.SelectionHybrid:
		var confident, rest []ranked
		for _, r := range cands {
			if r.m.Similarity >= p.confidence {
				confident = append(confident, r)
			} else {
				rest = append(rest, r)
			}
		}
		return permissive(p.strict(confident), rest)
	default:
		return p.strict(cands)
	}
}

// strict keeps at most one mapping per entity
func (p policy) strict(cands []ranked) []ranked {
	var kept []ranked
	for _, comp := range components(cands) {
		switch {
		case len(comp) == 1:
			kept = append(kept, comp...)
		case p.exact && len(comp) <= p.bound:
			kept = append(kept, assignComponent(comp)...)
		case p.exact:
			debug.LogFilter("conflict component of %d mappings exceeds strict bound %d, selecting greedily", len(comp), p.bound)
			kept = append(kept, greedy(comp)...)
		default:
			kept = append(kept, greedy(comp)...)
		}
	}
	return kept
}

// greedy takes candidates best first, skipping any whose entities are taken
func greedy(cands []ranked) []ranked {
	sorted := slices.Clone(cands)
	sortRanked(sorted)
	usedSrc := make(map[types.EntityID]bool)
	usedTgt := make(map[types.EntityID]bool)
	var kept []ranked
	for _, r := range sorted {
		if usedSrc[r.m.Source] || usedTgt[r.m.Target] {
			continue
		}
		usedSrc[r.m.Source] = true
		usedTgt[r.m.Target] = true
		kept = append(kept, r)
	}
	return kept
}

// permissive takes candidates best first on top of selected, rejecting one
// only when a kept conflicting mapping ranks strictly higher. Ties are kept.
func permissive(selected, cands []ranked) []ranked {
	bySrc := make(map[types.EntityID][]ranked)
	byTgt := make(map[types.EntityID][]ranked)
	keep := func(r ranked) {
		bySrc[r.m.Source] = append(bySrc[r.m.Source], r)
		byTgt[r.m.Target] = append(byTgt[r.m.Target], r)
	}
	kept := slices.Clone(selected)
	for _, r := range selected {
		keep(r)
	}

	sorted := slices.Clone(cands)
	sortRanked(sorted)
	for _, r := range sorted {
		if !outranked(r, bySrc[r.m.Source]) && !outranked(r, byTgt[r.m.Target]) {
			keep(r)
			kept = append(kept, r)
		}
	}
	return kept
}

func outranked(r ranked, kept []ranked) bool {
	for _, o := range kept {
		if o.key.compare(r.key) > 0 {
			return true
		}
	}
	return false
}

// components splits candidates into groups connected through shared entities
func components(cands []ranked) [][]ranked {
	parent := make([]int, len(cands))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		if ri, rj := find(i), find(j); ri != rj {
			parent[max(ri, rj)] = min(ri, rj)
		}
	}

	firstSrc := make(map[types.EntityID]int)
	firstTgt := make(map[types.EntityID]int)
	for i, r := range cands {
		if j, ok := firstSrc[r.m.Source]; ok {
			union(i, j)
		} else {
			firstSrc[r.m.Source] = i
		}
		if j, ok := firstTgt[r.m.Target]; ok {
			union(i, j)
		} else {
			firstTgt[r.m.Target] = i
		}
	}

	index := make(map[int]int)
	var out [][]ranked
	for i, r := range cands {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(out)
			index[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], r)
	}
	return out
}
