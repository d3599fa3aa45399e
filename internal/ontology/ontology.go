package ontology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/ontomatch/internal/types"
)

// Entity is a class, property or individual of an ontology
type Entity struct {
	ID           types.EntityID
	Type         types.EntityType
	Labels       []string
	Synonyms     []string
	Translations map[string][]string // language -> names
	Parents      []types.EntityID    // superclasses, superproperties
	Disjoint     []types.EntityID
	Obsolete     bool
	Domain       []types.EntityID // properties only
	Range        []types.EntityID // properties only
	Types        []types.EntityID // individuals only
	XRefs        []string
}

// LocalName returns the IRI fragment after the last '#' or '/'
func (e *Entity) LocalName() string {
	id := string(e.ID)
	if i := strings.LastIndexAny(id, "#/"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// Schema is the read-only view of an ontology used by the matching pipeline
type Schema interface {
	Count(t types.EntityType) int
	TypeOf(id types.EntityID) (types.EntityType, bool)
	ClassCount() int
	PropertyCount() int
	IsObsolete(id types.EntityID) bool
}

// Ontology is an in-memory ontology: entities in declaration order, the
// subsumption hierarchy and a lexicon of normalized names.
type Ontology struct {
	URI      string
	Language string

	entities map[types.EntityID]*Entity
	order    []types.EntityID
	counts   map[types.EntityType]int
	children map[types.EntityID][]types.EntityID
	lexicon  *Lexicon
}

// New creates an empty ontology
func New(uri, language string) *Ontology {
	return &Ontology{
		URI:      uri,
		Language: language,
		entities: make(map[types.EntityID]*Entity),
		counts:   make(map[types.EntityType]int),
		children: make(map[types.EntityID][]types.EntityID),
		lexicon:  NewLexicon(),
	}
}

// Add registers an entity. IDs are unique across entity types.
func (o *Ontology) Add(e *Entity) error {
	if e == nil || e.ID == "" {
		return fmt.Errorf("entity without id")
	}
	if _, exists := o.entities[e.ID]; exists {
		return fmt.Errorf("duplicate entity %s", e.ID)
	}
	o.entities[e.ID] = e
	o.order = append(o.order, e.ID)
	o.counts[e.Type]++
	for _, p := range e.Parents {
		o.children[p] = append(o.children[p], e.ID)
	}
	return nil
}

// Entity returns the entity with the given id
func (o *Ontology) Entity(id types.EntityID) (*Entity, bool) {
	e, ok := o.entities[id]
	return e, ok
}

// Entities returns the entities of type t in declaration order
func (o *Ontology) Entities(t types.EntityType) []*Entity {
	out := make([]*Entity, 0, o.counts[t])
	for _, id := range o.order {
		if e := o.entities[id]; e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the number of entities of all types
func (o *Ontology) Size() int {
	return len(o.order)
}

// Count returns the number of entities of type t
func (o *Ontology) Count(t types.EntityType) int {
	return o.counts[t]
}

// TypeOf returns the type of a known entity
func (o *Ontology) TypeOf(id types.EntityID) (types.EntityType, bool) {
	e, ok := o.entities[id]
	if !ok {
		return 0, false
	}
	return e.Type, true
}

func (o *Ontology) ClassCount() int {
	return o.counts[types.EntityClass]
}

// PropertyCount counts object and data properties
func (o *Ontology) PropertyCount() int {
	return o.counts[types.EntityObjectProperty] + o.counts[types.EntityDataProperty]
}

// IsObsolete reports whether the entity is marked obsolete; unknown ids are not
func (o *Ontology) IsObsolete(id types.EntityID) bool {
	e, ok := o.entities[id]
	return ok && e.Obsolete
}

// Lexicon returns the name index of the ontology
func (o *Ontology) Lexicon() *Lexicon {
	return o.lexicon
}

// Parents returns the direct parents of id
func (o *Ontology) Parents(id types.EntityID) []types.EntityID {
	if e, ok := o.entities[id]; ok {
		return e.Parents
	}
	return nil
}

// Children returns the direct children of id in declaration order
func (o *Ontology) Children(id types.EntityID) []types.EntityID {
	return o.children[id]
}

// Ancestors returns every transitive parent of id, nearest first. Cycles are tolerated.
func (o *Ontology) Ancestors(id types.EntityID) []types.EntityID {
	var out []types.EntityID
	seen := map[types.EntityID]bool{id: true}
	queue := append([]types.EntityID(nil), o.Parents(id)...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, o.Parents(cur)...)
	}
	return out
}

// IsSubclassOf reports whether ancestor is a transitive parent of id
func (o *Ontology) IsSubclassOf(id, ancestor types.EntityID) bool {
	for _, a := range o.Ancestors(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Related reports whether a and b are the same entity or one subsumes the other
func (o *Ontology) Related(a, b types.EntityID) bool {
	return a == b || o.IsSubclassOf(a, b) || o.IsSubclassOf(b, a)
}

// Roots returns the top-level ancestors of id, or id itself when it has no parents
func (o *Ontology) Roots(id types.EntityID) []types.EntityID {
	var roots []types.EntityID
	for _, a := range append([]types.EntityID{id}, o.Ancestors(id)...) {
		if len(o.Parents(a)) == 0 {
			roots = append(roots, a)
		}
	}
	if len(roots) == 0 {
		return []types.EntityID{id}
	}
	return roots
}

// HasDisjointness reports whether id or any of its ancestors declares a disjoint class
func (o *Ontology) HasDisjointness(id types.EntityID) bool {
	for _, a := range append([]types.EntityID{id}, o.Ancestors(id)...) {
		if e, ok := o.entities[a]; ok && len(e.Disjoint) > 0 {
			return true
		}
	}
	return false
}

// AreDisjoint reports whether a and b are disjoint, either directly or through
// a disjointness declared between their ancestors. Declarations are symmetric.
func (o *Ontology) AreDisjoint(a, b types.EntityID) bool {
	if a == b {
		return false
	}
	upA := append([]types.EntityID{a}, o.Ancestors(a)...)
	upB := append([]types.EntityID{b}, o.Ancestors(b)...)
	for _, x := range upA {
		for _, y := range upB {
			if o.declaredDisjoint(x, y) || o.declaredDisjoint(y, x) {
				return true
			}
		}
	}
	return false
}

func (o *Ontology) declaredDisjoint(x, y types.EntityID) bool {
	e, ok := o.entities[x]
	if !ok {
		return false
	}
	for _, d := range e.Disjoint {
		if d == y {
			return true
		}
	}
	return false
}

// Languages returns the languages of the lexicon, sorted
func (o *Ontology) Languages() []string {
	return o.lexicon.Languages()
}

// BuildLexicon (re)indexes the names of every entity: labels, synonyms and
// translations, falling back to the local name for entities without labels.
func (o *Ontology) BuildLexicon(normalize func(string) string) {
	o.lexicon = NewLexicon()
	for _, id := range o.order {
		e := o.entities[id]
		add := func(name, lang string, weight float64, prov Provenance) {
			n := normalize(name)
			if n == "" {
				return
			}
			o.lexicon.Add(LexEntry{
				Name:       n,
				Entity:     e.ID,
				Type:       e.Type,
				Language:   lang,
				Weight:     weight,
				Provenance: prov,
			})
		}

		if len(e.Labels) == 0 {
			add(e.LocalName(), o.Language, WeightLocalName, ProvenanceLocalName)
		}
		for _, l := range e.Labels {
			add(l, o.Language, WeightLabel, ProvenanceLabel)
		}
		for _, s := range e.Synonyms {
			add(s, o.Language, WeightSynonym, ProvenanceSynonym)
		}

		langs := make([]string, 0, len(e.Translations))
		for lang := range e.Translations {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			for _, name := range e.Translations[lang] {
				add(name, lang, WeightLabel, ProvenanceLabel)
			}
		}
	}
}
