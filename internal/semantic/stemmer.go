package semantic

import (
	"strings"

	"github.com/surgebase/porter2"
)

// Stemmer reduces label words to their stems so that word-level matchers
// treat "valve" and "valves" (or "infection" and "infections") alike
type Stemmer struct {
	enabled    bool
	algorithm  string
	minLength  int
	exclusions map[string]bool // Words to never stem
}

// NewStemmer creates a new stemmer with configuration
func NewStemmer(enabled bool, algorithm string, minLength int, exclusions map[string]bool) *Stemmer {
	if algorithm == "" {
		algorithm = "porter2"
	}

	if minLength < 0 {
		minLength = 3
	}

	if exclusions == nil {
		exclusions = make(map[string]bool)
	}

	return &Stemmer{
		enabled:    enabled,
		algorithm:  algorithm,
		minLength:  minLength,
		exclusions: exclusions,
	}
}

// Stem returns the stem of a word, or the original word if stemming is disabled/excluded
func (s *Stemmer) Stem(word string) string {
	if !s.enabled {
		return word
	}

	if s.IsExcluded(word) {
		return word
	}

	// Check minimum length
	if len(word) < s.minLength {
		return word
	}

	// Apply stemming algorithm
	switch s.algorithm {
	case "porter2":
		return porter2.Stem(strings.ToLower(word))
	case "none":
		return word
	default:
		return porter2.Stem(strings.ToLower(word))
	}
}

// StemAll applies stemming to multiple words
func (s *Stemmer) StemAll(words []string) []string {
	if !s.enabled {
		return words
	}

	result := make([]string, 0, len(words))
	for _, word := range words {
		result = append(result, s.Stem(word))
	}

	return result
}

// AddExclusion adds a word to the exclusion list
func (s *Stemmer) AddExclusion(word string) {
	s.exclusions[strings.ToLower(word)] = true
}

// IsExcluded checks if a word is in the exclusion list
func (s *Stemmer) IsExcluded(word string) bool {
	return s.exclusions[strings.ToLower(word)]
}
