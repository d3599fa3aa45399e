package match

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/ontology"
)

// Matcher produces an alignment of every pair it scores at or above threshold
type Matcher interface {
	Name() string
	Match(ctx context.Context, threshold float64) (*alignment.Alignment, error)
}

// Extender is a Matcher that can also score only the neighbourhood of an
// existing alignment. The result holds new candidates, not a.
type Extender interface {
	Matcher
	ExtendAlignment(ctx context.Context, a *alignment.Alignment, threshold float64) (*alignment.Alignment, error)
}

// Rematcher rescores the pairs of an existing alignment without adding new ones
type Rematcher interface {
	Name() string
	Rematch(ctx context.Context, a *alignment.Alignment) (*alignment.Alignment, error)
}

// StructuralMatcher both extends and rematches
type StructuralMatcher interface {
	Extender
	Rematcher
}

// LexiconExtender is a background-knowledge matcher that can push the names
// it finds into the task lexicons
type LexiconExtender interface {
	Matcher
	ExtendLexicons(ctx context.Context, threshold float64) error
}

// Matchers builds the matchers the pipeline runs
type Matchers interface {
	Lexical() Matcher
	Thesaurus() Matcher
	Mediating(source string) Matcher
	XRef(bk *ontology.Ontology) LexiconExtender
	Word(language string) Matcher
	StringSimilarity() Extender
	MultiWord() Matcher
	Structural() StructuralMatcher
	Property() Extender
	HighLevel() Rematcher
}
