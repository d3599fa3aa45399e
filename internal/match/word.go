package match

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// WordMatcher scores entity pairs by the weighted Jaccard overlap of the
// stemmed content words of their names. Rare words weigh more.
type WordMatcher struct {
	suite    *Suite
	language string // "" compares names in every language
}

func (m *WordMatcher) Name() string {
	if m.language == "" {
		return "word"
	}
	return "word:" + m.language
}

// bag is the stemmed word set of one name, sorted
type bag struct {
	words  []string
	weight float64
}

type wordEntity struct {
	id   types.EntityID
	bags []bag
}

func (m *WordMatcher) Match(ctx context.Context, threshold float64) (*alignment.Alignment, error) {
	a := m.suite.newAlignment()
	for _, et := range m.suite.sharedTypes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := m.entities(m.suite.source, et)
		tgt := m.entities(m.suite.target, et)
		weights := wordWeights(src, tgt)

		index := make(map[string][]int)
		for i, t := range tgt {
			for w := range unionWords(t.bags) {
				index[w] = append(index[w], i)
			}
		}

		for i, s := range src {
			if i%256 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			seen := make(map[int]bool)
			var candidates []int
			for _, b := range s.bags {
				for _, w := range b.words {
					for _, j := range index[w] {
						if !seen[j] {
							seen[j] = true
							candidates = append(candidates, j)
						}
					}
				}
			}
			slices.Sort(candidates)
			for _, j := range candidates {
				sim := bestBagSimilarity(s.bags, tgt[j].bags, weights)
				if sim >= threshold {
					a.Add(s.id, tgt[j].id, sim, types.Equivalence, types.StatusUnknown)
				}
			}
		}
	}
	return a, nil
}

func (m *WordMatcher) entities(o *ontology.Ontology, et types.EntityType) []wordEntity {
	lex := o.Lexicon()
	var out []wordEntity
	for _, e := range o.Entities(et) {
		we := wordEntity{id: e.ID}
		for _, n := range lex.NamesIn(e.ID, m.language) {
			if b := stemBag(n.Name, m.suite.stemmer); len(b) > 0 {
				we.bags = append(we.bags, bag{words: b, weight: n.Weight})
			}
		}
		if len(we.bags) > 0 {
			out = append(out, we)
		}
	}
	return out
}

// stemBag returns the sorted stemmed content words of a normalized name
func stemBag(name string, stemmer *semantic.Stemmer) []string {
	var words []string
	for _, w := range strings.Fields(name) {
		if !semantic.IsStopWord(w) {
			words = append(words, w)
		}
	}
	words = stemmer.StemAll(words)
	slices.Sort(words)
	return slices.Compact(words)
}

func unionWords(bags []bag) map[string]bool {
	out := make(map[string]bool)
	for _, b := range bags {
		for _, w := range b.words {
			out[w] = true
		}
	}
	return out
}

// wordWeights gives each word 1 + ln(N/df), N entities and df entities using the word
func wordWeights(groups ...[]wordEntity) map[string]float64 {
	df := make(map[string]int)
	n := 0
	for _, g := range groups {
		for _, e := range g {
			n++
			for w := range unionWords(e.bags) {
				df[w]++
			}
		}
	}
	weights := make(map[string]float64, len(df))
	for w, d := range df {
		weights[w] = 1 + math.Log(float64(n)/float64(d))
	}
	return weights
}

func bestBagSimilarity(a, b []bag, weights map[string]float64) float64 {
	best := 0.0
	for _, x := range a {
		for _, y := range b {
			best = max(best, weightedJaccard(x.words, y.words, weights)*x.weight*y.weight)
		}
	}
	return best
}

// weightedJaccard compares two sorted word lists
func weightedJaccard(a, b []string, weights map[string]float64) float64 {
	weight := func(w string) float64 {
		if v, ok := weights[w]; ok {
			return v
		}
		return 1
	}
	inter, union := 0.0, 0.0
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			union += weight(a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			union += weight(b[j])
			j++
		default:
			inter += weight(a[i])
			union += weight(a[i])
			i++
			j++
		}
	}
	if union == 0 {
		return 0
	}
	return inter / union
}
