package match

import (
	"context"
	"slices"
	"strings"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Word scores used when aligning two multi-word names position by position
const (
	wordIdentical = 1.0
	wordSameStem  = 0.95
	wordSynonym   = ThesaurusWeight
)

// MultiWordMatcher compares names of two or more words position by position.
// Every position must agree, by identity, stem or synonymy, for a pair to match.
type MultiWordMatcher struct {
	suite *Suite
}

func (m *MultiWordMatcher) Name() string { return "multiword" }

type multiName struct {
	entry ontology.LexEntry
	words []string
}

func (m *MultiWordMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	a := m.suite.newAlignment()
	src := multiWordNames(m.suite.source.Lexicon())
	tgt := multiWordNames(m.suite.target.Lexicon())

	byLength := make(map[int][]multiName)
	for _, t := range tgt {
		byLength[len(t.words)] = append(byLength[len(t.words)], t)
	}
	for i, s := range src {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, t := range byLength[len(s.words)] {
			if s.entry.Type != t.entry.Type || !sameLanguage(s.entry.Language, t.entry.Language) {
				continue
			}
			score, ok := m.wordScore(s.words, t.words)
			if !ok {
				continue
			}
			if sim := score * s.entry.Weight * t.entry.Weight; sim >= threshold {
				a.Add(s.entry.Entity, t.entry.Entity, sim, types.Equivalence, types.StatusUnknown)
			}
		}
	}
	return a, nil
}

func multiWordNames(lex *ontology.Lexicon) []multiName {
	var out []multiName
	for _, e := range lex.All() {
		if words := strings.Fields(e.Name); len(words) >= 2 {
			out = append(out, multiName{entry: e, words: words})
		}
	}
	return out
}

// wordScore averages the per-position scores; ok is false when any position differs
func (m *MultiWordMatcher) wordScore(a, b []string) (float64, bool) {
	total := 0.0
	for i := range a {
		s := m.positionScore(a[i], b[i])
		if s == 0 {
			return 0, false
		}
		total += s
	}
	return total / float64(len(a)), true
}

func (m *MultiWordMatcher) positionScore(x, y string) float64 {
	switch {
	case x == y:
		return wordIdentical
	case m.suite.stemmer.Stem(x) == m.suite.stemmer.Stem(y):
		return wordSameStem
	case slices.Contains(m.suite.thesaurus.Synonyms(x), y):
		return wordSynonym
	default:
		return 0
	}
}
