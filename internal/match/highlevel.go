package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// HighLevelStructuralRematcher rescores class mappings by how strongly the
// top-level branches they fall under are aligned to each other
type HighLevelStructuralRematcher struct {
	suite *Suite
}

func (m *HighLevelStructuralRematcher) Name() string { return "highlevel" }

// Rematch gives every class mapping the best branch similarity over its
// root pairs. A branch pair scores 2*shared / (mappings under the source root
// + mappings under the target root). Non-class mappings are dropped.
func (m *HighLevelStructuralRematcher) Rematch(ctx context.Context, a *alignment.Alignment) (*alignment.Alignment, error) {
	src, tgt := m.suite.source, m.suite.target

	type rooted struct {
		mapping alignment.Mapping
		sroots  []types.EntityID
		troots  []types.EntityID
	}
	var classes []rooted
	shared := make(map[[2]types.EntityID]int)
	perSource := make(map[types.EntityID]int)
	perTarget := make(map[types.EntityID]int)

	for i, mp := range a.Mappings() {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if st, _ := src.TypeOf(mp.Source); st != types.EntityClass {
			continue
		}
		if tt, _ := tgt.TypeOf(mp.Target); tt != types.EntityClass {
			continue
		}
		r := rooted{mapping: mp, sroots: src.Roots(mp.Source), troots: tgt.Roots(mp.Target)}
		for _, s := range r.sroots {
			perSource[s]++
			for _, t := range r.troots {
				shared[[2]types.EntityID{s, t}]++
			}
		}
		for _, t := range r.troots {
			perTarget[t]++
		}
		classes = append(classes, r)
	}

	out := m.suite.newAlignment()
	for _, r := range classes {
		best := 0.0
		for _, s := range r.sroots {
			for _, t := range r.troots {
				n := shared[[2]types.EntityID{s, t}]
				best = max(best, 2*float64(n)/float64(perSource[s]+perTarget[t]))
			}
		}
		out.Add(r.mapping.Source, r.mapping.Target, best, r.mapping.Relation, r.mapping.Status)
	}
	return out, nil
}
