package semantic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer turns entity labels into the canonical form used for lexical
// comparison: NFKC-folded, split into words, lower-cased, single-spaced.
type Normalizer struct {
	splitter *NameSplitter
	cache    *LRUCache
}

// NewNormalizer creates a normalizer with a result cache of cacheSize entries
func NewNormalizer(cacheSize int) *Normalizer {
	return &Normalizer{
		splitter: NewNameSplitterWithSize(cacheSize),
		cache:    NewLRUCache(cacheSize),
	}
}

// Normalize returns the canonical form of a label. "Heart_Valve", "heartValve"
// and "heart valve" all normalize to "heart valve".
func (n *Normalizer) Normalize(label string) string {
	if cached, ok := n.cache.Get(label); ok {
		return cached
	}
	folded := norm.NFKC.String(label)
	normalized := strings.Join(n.splitter.Split(folded), " ")
	n.cache.Set(label, normalized)
	return normalized
}

// stopWords are ignored by word-level similarity
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "to": true, "was": true, "were": true, "with": true,
}

// IsStopWord reports whether w carries no content for matching
func IsStopWord(w string) bool {
	return stopWords[w]
}
