package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// ThesaurusWeight discounts correspondences found through a synonym
const ThesaurusWeight = 0.9

// LexicalMatcher matches entities sharing a normalized name. The similarity
// is the product of both name weights.
type LexicalMatcher struct {
	suite *Suite
}

func (m *LexicalMatcher) Name() string { return "lexical" }

func (m *LexicalMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	a := m.suite.newAlignment()
	target := m.suite.target.Lexicon()
	for i, s := range m.suite.source.Lexicon().All() {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		addNameMatches(a, s, target.Lookup(s.Name), 1, threshold)
	}
	return a, nil
}

// addNameMatches adds a mapping from s to every comparable target entry
func addNameMatches(a *alignment.Alignment, s ontology.LexEntry, targets []ontology.LexEntry, factor, threshold float64) {
	for _, t := range targets {
		if s.Type != t.Type || !sameLanguage(s.Language, t.Language) {
			continue
		}
		if sim := s.Weight * t.Weight * factor; sim >= threshold {
			a.Add(s.Entity, t.Entity, sim, types.Equivalence, types.StatusUnknown)
		}
	}
}

// ThesaurusMatcher is the lexical matcher with every name expanded by its
// synonyms from the built-in thesaurus
type ThesaurusMatcher struct {
	suite     *Suite
	thesaurus *semantic.Thesaurus
}

func (m *ThesaurusMatcher) Name() string { return m.thesaurus.Name() }

func (m *ThesaurusMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	a := m.suite.newAlignment()
	target := m.suite.target.Lexicon()
	for i, s := range m.suite.source.Lexicon().All() {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		addNameMatches(a, s, target.Lookup(s.Name), 1, threshold)
		for _, v := range m.thesaurus.Variants(s.Name) {
			addNameMatches(a, s, target.Lookup(v), ThesaurusWeight, threshold)
		}
	}
	return a, nil
}
