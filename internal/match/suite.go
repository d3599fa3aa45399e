package match

import (
	"runtime"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Suite is the default Matchers implementation over two loaded ontologies
type Suite struct {
	source   *ontology.Ontology
	target   *ontology.Ontology
	resolver ontology.SourceResolver

	sameEntity bool
	workers    int

	normalize func(string) string
	stemmer   *semantic.Stemmer
	fuzzy     *semantic.FuzzyMatcher
	thesaurus *semantic.Thesaurus
}

// NewSuite creates the matcher factory. resolver may be nil when no
// background-knowledge files are available.
func NewSuite(source, target *ontology.Ontology, resolver ontology.SourceResolver, cfg *config.Config) *Suite {
	if cfg == nil {
		cfg = config.Default()
	}
	workers := cfg.Performance.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	cacheSize := cfg.Semantic.CacheSize
	if cacheSize <= 0 {
		cacheSize = config.DefaultNameCacheSize
	}
	stemmer := semantic.NewStemmer(true, "porter2", cfg.Semantic.MinStemLength, nil)
	for _, w := range cfg.Semantic.StemExclusions {
		stemmer.AddExclusion(w)
	}
	return &Suite{
		source:     source,
		target:     target,
		resolver:   resolver,
		sameEntity: cfg.Matching.SameEntity,
		workers:    workers,
		normalize:  semantic.NewNormalizer(cacheSize).Normalize,
		stemmer:    stemmer,
		fuzzy:      semantic.NewFuzzyMatcher(true, cfg.Semantic.FuzzyAlgorithm),
		thesaurus:  semantic.DefaultThesaurus(),
	}
}

func (s *Suite) newAlignment() *alignment.Alignment {
	return alignment.New(alignment.WithSameEntityMatching(s.sameEntity))
}

func (s *Suite) Lexical() Matcher {
	return &LexicalMatcher{suite: s}
}

func (s *Suite) Thesaurus() Matcher {
	return &ThesaurusMatcher{suite: s, thesaurus: s.thesaurus}
}

func (s *Suite) Mediating(source string) Matcher {
	return &MediatingMatcher{suite: s, source: source}
}

func (s *Suite) XRef(bk *ontology.Ontology) LexiconExtender {
	return &XRefMatcher{suite: s, bk: bk}
}

func (s *Suite) Word(language string) Matcher {
	return &WordMatcher{suite: s, language: language}
}

func (s *Suite) StringSimilarity() Extender {
	return &StringMatcher{suite: s}
}

func (s *Suite) MultiWord() Matcher {
	return &MultiWordMatcher{suite: s}
}

func (s *Suite) Structural() StructuralMatcher {
	return &NeighborSimilarityMatcher{suite: s}
}

func (s *Suite) Property() Extender {
	return &PropertyMatcher{suite: s}
}

func (s *Suite) HighLevel() Rematcher {
	return &HighLevelStructuralRematcher{suite: s}
}

// sameLanguage reports whether two names can be compared; "" is language-neutral
func sameLanguage(a, b string) bool {
	return a == b || a == "" || b == ""
}

// sharedTypes returns the entity types present in both ontologies
func (s *Suite) sharedTypes() []types.EntityType {
	var out []types.EntityType
	for _, t := range types.AllEntityTypes {
		if s.source.Count(t) > 0 && s.target.Count(t) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// nameSimilarity is the best fuzzy similarity over comparable name pairs,
// scaled by the weights of both names
func (s *Suite) nameSimilarity(a, b []ontology.LexEntry) float64 {
	best := 0.0
	for _, x := range a {
		for _, y := range b {
			if !sameLanguage(x.Language, y.Language) {
				continue
			}
			best = max(best, s.fuzzy.Similarity(x.Name, y.Name)*x.Weight*y.Weight)
		}
	}
	return best
}
