// Package semantic provides the lexical primitives used by the matchers.
//
// # Core Components
//
// Normalizer: Folds labels to NFKC, splits them into words and joins them
// back lower-cased, so "Heart_Valve", "heartValve" and "Heart valve" agree.
//
// NameSplitter: Splits compound names into component words, supporting
// spaces, punctuation, camelCase, acronyms and letter/digit boundaries.
//
// Stemmer: Reduces words to their root forms using the Porter2 algorithm.
//
// FuzzyMatcher: Scores label similarity with Jaro-Winkler, Levenshtein,
// Jaccard (via go-edlib) or character-bigram cosine.
//
// Thesaurus: Synonym groups. DefaultThesaurus is the built-in general
// vocabulary used as the default background-knowledge source.
//
// Translator: Word-by-word label translation between language pairs.
//
// # Usage Example
//
//	norm := semantic.NewNormalizer(1000)
//	name := norm.Normalize("HeartValve") // "heart valve"
//	for _, v := range semantic.DefaultThesaurus().Variants(name) {
//		fmt.Println(v) // "cardiac valve"
//	}
package semantic
