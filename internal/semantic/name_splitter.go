package semantic

import (
	"strings"
	"sync"
	"unicode"
)

// NameSplitter splits entity names and labels into lower-case words.
// Labels come in many shapes: "Heart Valve", "heart_valve", "HeartValve",
// "has-part", "ICD10Code". Any rune that is neither a letter nor a digit
// separates words; case and letter/digit transitions split identifiers.
//
// Thread-safe: Cache uses sync.Map for concurrent access with LRU eviction
type NameSplitter struct {
	cache sync.Map

	// Simple LRU tracking to prevent unbounded memory growth
	cacheKeys []string   // Track insertion order for LRU
	maxSize   int        // Maximum cache size before eviction
	mu        sync.Mutex // Protect cacheKeys operations
}

// Default cache size limits
const (
	DefaultCacheSize = 1000 // Maximum number of cached split results
)

// NewNameSplitterWithSize creates a new name splitter with custom cache size
func NewNameSplitterWithSize(cacheSize int) *NameSplitter {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &NameSplitter{
		cacheKeys: make([]string, 0, cacheSize),
		maxSize:   cacheSize,
	}
}

// SeparatorType represents the type of separators found in a name
type SeparatorType uint8

const (
	SepNone        SeparatorType = 0
	SepPunctuation SeparatorType = 1 << iota // spaces, underscores, hyphens and any other non-alphanumeric rune
	SepCamelCase
	SepAcronym
	SepDigits
)

func isSeparator(ch rune) bool {
	return !unicode.IsLetter(ch) && !unicode.IsDigit(ch)
}

// detectSeparators performs first pass to identify separator types present
func (ns *NameSplitter) detectSeparators(runes []rune) SeparatorType {
	var seps SeparatorType

	for i, ch := range runes {
		if isSeparator(ch) {
			seps |= SepPunctuation
			continue
		}
		if i == 0 {
			continue
		}
		prev := runes[i-1]

		if unicode.IsLower(prev) && unicode.IsUpper(ch) {
			seps |= SepCamelCase
		}

		// HTTPServer: upper followed by lower after an upper run
		if i > 1 && unicode.IsUpper(prev) && unicode.IsLower(ch) && unicode.IsUpper(runes[i-2]) {
			seps |= SepAcronym
		}

		if (unicode.IsLetter(prev) && unicode.IsDigit(ch)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(ch)) {
			seps |= SepDigits
		}
	}

	return seps
}

// Split splits a name into constituent lower-case words
func (ns *NameSplitter) Split(name string) []string {
	if name == "" {
		return []string{}
	}

	if cached, ok := ns.cache.Load(name); ok {
		return cached.([]string)
	}

	runes := []rune(name)
	seps := ns.detectSeparators(runes)
	if seps == SepNone {
		return []string{strings.ToLower(name)}
	}

	wordBuffer := make([]rune, 0, 64)
	words := make([]string, 0, 8)
	flush := func() {
		if len(wordBuffer) > 0 {
			words = append(words, strings.ToLower(string(wordBuffer)))
			wordBuffer = wordBuffer[:0]
		}
	}

	for i, ch := range runes {
		if isSeparator(ch) {
			flush()
			continue
		}

		if i > 0 && !isSeparator(runes[i-1]) {
			prev := runes[i-1]

			if seps&SepCamelCase != 0 && unicode.IsLower(prev) && unicode.IsUpper(ch) {
				flush()
			}

			// End of an acronym: the last upper-case letter starts the next word
			if seps&SepAcronym != 0 && i > 1 && unicode.IsUpper(prev) && unicode.IsLower(ch) && unicode.IsUpper(runes[i-2]) {
				if len(wordBuffer) > 0 {
					lastChar := wordBuffer[len(wordBuffer)-1]
					wordBuffer = wordBuffer[:len(wordBuffer)-1]
					flush()
					wordBuffer = append(wordBuffer, lastChar)
				}
			}

			if seps&SepDigits != 0 &&
				((unicode.IsLetter(prev) && unicode.IsDigit(ch)) || (unicode.IsDigit(prev) && unicode.IsLetter(ch))) {
				flush()
			}
		}

		wordBuffer = append(wordBuffer, ch)
	}
	flush()

	ns.cacheWithLRU(name, words)
	return words
}

// cacheWithLRU stores result in cache with LRU eviction
func (ns *NameSplitter) cacheWithLRU(name string, words []string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if len(ns.cacheKeys) >= ns.maxSize && len(ns.cacheKeys) > 0 {
		oldestKey := ns.cacheKeys[0]
		ns.cache.Delete(oldestKey)
		ns.cacheKeys = ns.cacheKeys[1:]
	}

	ns.cache.Store(name, words)
	ns.cacheKeys = append(ns.cacheKeys, name)
}
