package ontology

import (
	"sort"
	"sync"

	"github.com/google/btree"

	"github.com/standardbeagle/ontomatch/internal/types"
)

// Provenance records where a lexicon name came from
type Provenance uint8

const (
	ProvenanceLabel Provenance = iota
	ProvenanceLocalName
	ProvenanceSynonym
	ProvenanceTranslation
	ProvenanceExternal // added from background knowledge
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceLabel:
		return "label"
	case ProvenanceLocalName:
		return "local_name"
	case ProvenanceSynonym:
		return "synonym"
	case ProvenanceTranslation:
		return "translation"
	case ProvenanceExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Name weights by provenance
const (
	WeightLabel       = 1.0
	WeightLocalName   = 1.0
	WeightSynonym     = 0.9
	WeightTranslation = 0.85
	WeightExternal    = 0.85
)

// LexEntry is one name of one entity
type LexEntry struct {
	Name       string // normalized
	Entity     types.EntityID
	Type       types.EntityType
	Language   string
	Weight     float64
	Provenance Provenance
}

type nameNode struct {
	name    string
	entries []LexEntry
}

func lessNode(a, b *nameNode) bool {
	return a.name < b.name
}

const btreeDegree = 32

// Lexicon indexes entity names in a B-tree ordered by name, so that exact
// lookups and ordered iteration share one structure. Safe for concurrent readers.
type Lexicon struct {
	mu       sync.RWMutex
	names    *btree.BTreeG[*nameNode]
	byEntity map[types.EntityID][]LexEntry
	langs    map[string]int
	size     int
}

// NewLexicon creates an empty lexicon
func NewLexicon() *Lexicon {
	return &Lexicon{
		names:    btree.NewG[*nameNode](btreeDegree, lessNode),
		byEntity: make(map[types.EntityID][]LexEntry),
		langs:    make(map[string]int),
	}
}

// Add inserts an entry. An entry for the same (name, entity, language) keeps
// the higher weight. Returns true iff the lexicon changed.
func (l *Lexicon) Add(e LexEntry) bool {
	if e.Name == "" || e.Entity == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	node, ok := l.names.Get(&nameNode{name: e.Name})
	if !ok {
		node = &nameNode{name: e.Name}
		l.names.ReplaceOrInsert(node)
	}
	for i, cur := range node.entries {
		if cur.Entity == e.Entity && cur.Language == e.Language {
			if e.Weight <= cur.Weight {
				return false
			}
			node.entries[i] = e
			l.replaceEntityEntry(e)
			return true
		}
	}
	node.entries = append(node.entries, e)
	l.byEntity[e.Entity] = append(l.byEntity[e.Entity], e)
	l.langs[e.Language]++
	l.size++
	return true
}

func (l *Lexicon) replaceEntityEntry(e LexEntry) {
	entries := l.byEntity[e.Entity]
	for i, cur := range entries {
		if cur.Name == e.Name && cur.Language == e.Language {
			entries[i] = e
			return
		}
	}
}

// Len returns the number of entries
func (l *Lexicon) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// NameCount returns the number of distinct names
func (l *Lexicon) NameCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.names.Len()
}

// Lookup returns the entries for an exact normalized name
func (l *Lexicon) Lookup(name string) []LexEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	node, ok := l.names.Get(&nameNode{name: name})
	if !ok {
		return nil
	}
	return append([]LexEntry(nil), node.entries...)
}

// Names returns the entries of an entity in insertion order
func (l *Lexicon) Names(id types.EntityID) []LexEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]LexEntry(nil), l.byEntity[id]...)
}

// NamesIn returns the entries of an entity in the given language; "" matches every language
func (l *Lexicon) NamesIn(id types.EntityID, lang string) []LexEntry {
	names := l.Names(id)
	if lang == "" {
		return names
	}
	out := names[:0]
	for _, e := range names {
		if e.Language == lang {
			out = append(out, e)
		}
	}
	return out
}

// HasEntity reports whether the entity has at least one name
func (l *Lexicon) HasEntity(id types.EntityID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byEntity[id]) > 0
}

// All returns every entry in name order
func (l *Lexicon) All() []LexEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]LexEntry, 0, l.size)
	l.names.Ascend(func(n *nameNode) bool {
		out = append(out, n.entries...)
		return true
	})
	return out
}

// Languages returns the languages with at least one entry, sorted
func (l *Lexicon) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.langs))
	for lang, n := range l.langs {
		if lang != "" && n > 0 {
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}

// Extend adds the given names to entity id, scaling weights by factor.
// Returns the number of entries added or upgraded.
func (l *Lexicon) Extend(id types.EntityID, t types.EntityType, names []LexEntry, factor float64) int {
	n := 0
	for _, src := range names {
		e := LexEntry{
			Name:       src.Name,
			Entity:     id,
			Type:       t,
			Language:   src.Language,
			Weight:     src.Weight * factor,
			Provenance: ProvenanceExternal,
		}
		if l.Add(e) {
			n++
		}
	}
	return n
}
