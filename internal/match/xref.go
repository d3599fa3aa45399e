package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/debug"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// XRefMatcher matches through a background-knowledge ontology, anchoring
// entities by cross-reference or by shared name
type XRefMatcher struct {
	suite *Suite
	bk    *ontology.Ontology

	src *anchorSet
	tgt *anchorSet
}

func (m *XRefMatcher) Name() string {
	if m.bk == nil {
		return "xref"
	}
	return "xref:" + m.bk.URI
}

func (m *XRefMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	if err := m.anchor(ctx); err != nil {
		return nil, err
	}
	a := m.suite.newAlignment()
	mediate(a, m.src, m.tgt, threshold)
	return a, nil
}

// ExtendLexicons adds to each task lexicon the names of the concepts its
// entities are anchored to with at least threshold weight
func (m *XRefMatcher) ExtendLexicons(ctx context.Context, threshold float64) error {
	if err := m.anchor(ctx); err != nil {
		return err
	}
	bkLex := m.bk.Lexicon()
	extend := func(lex *ontology.Lexicon, set *anchorSet) int {
		n := 0
		for _, a := range set.list {
			if a.weight >= threshold {
				n += lex.Extend(a.entity, a.etype, bkLex.Names(a.concept), a.weight*ontology.WeightExternal)
			}
		}
		return n
	}
	added := extend(m.suite.source.Lexicon(), m.src)
	added += extend(m.suite.target.Lexicon(), m.tgt)
	debug.LogMatch("%s extended the lexicons with %d names", m.Name(), added)
	return nil
}

func (m *XRefMatcher) anchor(ctx context.Context) error {
	if m.src != nil {
		return nil
	}
	if m.bk == nil {
		return ierrors.NewCollaboratorError("knowledge", "xref", ierrors.ErrNoBKOntology)
	}

	// cross-references may point either way
	refs := make(map[string][]types.EntityID)
	for _, c := range m.bk.Entities(types.EntityClass) {
		for _, x := range c.XRefs {
			refs[x] = append(refs[x], c.ID)
		}
	}
	xrefAnchors := func(o *ontology.Ontology, set *anchorSet) {
		for _, e := range o.Entities(types.EntityClass) {
			for _, x := range e.XRefs {
				if _, ok := m.bk.Entity(types.EntityID(x)); ok {
					set.add(anchor{entity: e.ID, etype: e.Type, concept: types.EntityID(x), weight: 1})
				}
			}
			for _, c := range refs[string(e.ID)] {
				set.add(anchor{entity: e.ID, etype: e.Type, concept: c, weight: 1})
			}
		}
	}

	src, tgt := newAnchorSet(), newAnchorSet()
	xrefAnchors(m.suite.source, src)
	xrefAnchors(m.suite.target, tgt)
	if err := lexicalAnchors(ctx, m.suite.source.Lexicon(), m.bk.Lexicon(), src); err != nil {
		return err
	}
	if err := lexicalAnchors(ctx, m.suite.target.Lexicon(), m.bk.Lexicon(), tgt); err != nil {
		return err
	}
	m.src, m.tgt = src, tgt
	return nil
}
