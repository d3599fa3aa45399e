package semantic

import (
	"fmt"
	"math"

	"github.com/hbollon/go-edlib"
)

// Supported string similarity measures
const (
	AlgorithmJaroWinkler = "jaro-winkler"
	AlgorithmLevenshtein = "levenshtein"
	AlgorithmCosine      = "cosine"
	AlgorithmJaccard     = "jaccard"
)

var validAlgorithms = map[string]bool{
	AlgorithmJaroWinkler: true,
	AlgorithmLevenshtein: true,
	AlgorithmCosine:      true,
	AlgorithmJaccard:     true,
}

// FuzzyMatcher scores the similarity of two normalized labels.
// Used by the string matcher to find correspondences between entities
// whose names differ by spelling, inflection or typos.
type FuzzyMatcher struct {
	enabled   bool
	algorithm string
}

// NewFuzzyMatcher creates a new fuzzy matcher; "" selects Jaro-Winkler
func NewFuzzyMatcher(enabled bool, algorithm string) *FuzzyMatcher {
	if algorithm == "" {
		algorithm = AlgorithmJaroWinkler
	}

	return &FuzzyMatcher{
		enabled:   enabled,
		algorithm: algorithm,
	}
}

// Similarity returns the similarity score between two strings (0.0-1.0)
func (fm *FuzzyMatcher) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if !fm.enabled || a == "" || b == "" {
		return 0.0
	}

	switch fm.algorithm {
	case AlgorithmLevenshtein:
		return edlibSimilarity(a, b, edlib.Levenshtein)
	case AlgorithmCosine:
		return cosineSimilarity(a, b)
	case AlgorithmJaccard:
		return edlibSimilarity(a, b, edlib.Jaccard)
	default:
		return edlibSimilarity(a, b, edlib.JaroWinkler)
	}
}

// edlibSimilarity wraps go-edlib, which already normalizes every measure to 0-1
func edlibSimilarity(a, b string, algo edlib.Algorithm) float64 {
	score, err := edlib.StringsSimilarity(a, b, algo)
	if err != nil {
		return 0.0
	}
	return math.Max(0, math.Min(1, float64(score)))
}

// cosineSimilarity calculates cosine similarity based on character bigrams
func cosineSimilarity(a, b string) float64 {
	bigramsA := getBigrams(a)
	bigramsB := getBigrams(b)

	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0.0
	}

	intersection := 0.0
	for bigram := range bigramsA {
		if bigramsB[bigram] {
			intersection++
		}
	}

	return intersection / (math.Sqrt(float64(len(bigramsA))) * math.Sqrt(float64(len(bigramsB))))
}

// getBigrams extracts all 2-rune subsequences from a string
func getBigrams(s string) map[string]bool {
	runes := []rune(s)
	bigrams := make(map[string]bool, len(runes))

	if len(runes) < 2 {
		bigrams[s] = true
		return bigrams
	}

	for i := 0; i < len(runes)-1; i++ {
		bigrams[string(runes[i:i+2])] = true
	}

	return bigrams
}

// ValidateConfig validates fuzzy matcher configuration
func (fm *FuzzyMatcher) ValidateConfig() error {
	if !validAlgorithms[fm.algorithm] {
		return fmt.Errorf("invalid algorithm: %s (must be jaro-winkler, levenshtein, cosine or jaccard)", fm.algorithm)
	}

	return nil
}
