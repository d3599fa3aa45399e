package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/knowledge"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// anchor links an entity to a background-knowledge concept
type anchor struct {
	entity  types.EntityID
	etype   types.EntityType
	concept types.EntityID
	weight  float64
}

// anchorSet keeps the best weight per (entity, concept), in discovery order
type anchorSet struct {
	list  []anchor
	index map[[2]types.EntityID]int
}

func newAnchorSet() *anchorSet {
	return &anchorSet{index: make(map[[2]types.EntityID]int)}
}

func (s *anchorSet) add(a anchor) {
	key := [2]types.EntityID{a.entity, a.concept}
	if i, ok := s.index[key]; ok {
		s.list[i].weight = max(s.list[i].weight, a.weight)
		return
	}
	s.index[key] = len(s.list)
	s.list = append(s.list, a)
}

// lexicalAnchors anchors every class of lex whose name is a name of a bk concept
func lexicalAnchors(ctx context.Context, lex, bk *ontology.Lexicon, set *anchorSet) error {
	for i, e := range lex.All() {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if e.Type != types.EntityClass {
			continue
		}
		for _, b := range bk.Lookup(e.Name) {
			if !sameLanguage(e.Language, b.Language) {
				continue
			}
			set.add(anchor{entity: e.Entity, etype: e.Type, concept: b.Entity, weight: e.Weight * b.Weight})
		}
	}
	return nil
}

// mediate maps source to target entities anchored to the same concept. The
// similarity is the product of both anchor weights.
func mediate(a *alignment.Alignment, source, target *anchorSet, threshold float64) {
	byConcept := make(map[types.EntityID][]anchor)
	for _, t := range target.list {
		byConcept[t.concept] = append(byConcept[t.concept], t)
	}
	for _, s := range source.list {
		for _, t := range byConcept[s.concept] {
			if s.etype != t.etype {
				continue
			}
			if sim := s.weight * t.weight; sim >= threshold {
				a.Add(s.entity, t.entity, sim, types.Equivalence, types.StatusUnknown)
			}
		}
	}
}

// MediatingMatcher matches classes through a background-knowledge lexicon file
type MediatingMatcher struct {
	suite  *Suite
	source string
	lex    *ontology.Lexicon
}

func (m *MediatingMatcher) Name() string { return m.source }

func (m *MediatingMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	src, tgt := newAnchorSet(), newAnchorSet()
	if err := lexicalAnchors(ctx, m.suite.source.Lexicon(), m.lex, src); err != nil {
		return nil, err
	}
	if err := lexicalAnchors(ctx, m.suite.target.Lexicon(), m.lex, tgt); err != nil {
		return nil, err
	}
	a := m.suite.newAlignment()
	mediate(a, src, tgt, threshold)
	return a, nil
}

func (m *MediatingMatcher) load() error {
	if m.lex != nil {
		return nil
	}
	if m.suite.resolver == nil {
		return ierrors.NewConfigError("knowledge.source", m.source, ierrors.ErrUnknownSource)
	}
	path, err := m.suite.resolver.Resolve(m.source)
	if err != nil {
		return err
	}
	lex, err := knowledge.LoadLexicon(path, m.suite.normalize)
	if err != nil {
		return ierrors.NewCollaboratorError("knowledge", "load_lexicon", err)
	}
	m.lex = lex
	return nil
}
