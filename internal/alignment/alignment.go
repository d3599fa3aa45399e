package alignment

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/ontomatch/internal/types"
)

// EntityCensus answers the entity-count questions coverage needs.
// Implemented by the ontology collaborator.
type EntityCensus interface {
	Count(t types.EntityType) int
	TypeOf(id types.EntityID) (types.EntityType, bool)
}

type pair struct {
	src types.EntityID
	tgt types.EntityID
}

// Alignment is an ordered set of unique mappings with source and target indexes.
// The zero value is not usable; create alignments with New.
//
// Invariant: every mapping in the sequence has exactly one entry in index,
// bySource and byTarget, and nothing else does.
type Alignment struct {
	sameEntity bool

	mappings []*Mapping
	index    map[pair]*Mapping
	bySource map[types.EntityID]map[types.EntityID]*Mapping
	byTarget map[types.EntityID]map[types.EntityID]*Mapping
}

// Option configures a new Alignment
type Option func(*Alignment)

// WithSameEntityMatching allows mappings whose source and target are the same entity
func WithSameEntityMatching(enabled bool) Option {
	return func(a *Alignment) {
		a.sameEntity = enabled
	}
}

// New creates an empty alignment
func New(opts ...Option) *Alignment {
	a := &Alignment{
		index:    make(map[pair]*Mapping),
		bySource: make(map[types.EntityID]map[types.EntityID]*Mapping),
		byTarget: make(map[types.EntityID]map[types.EntityID]*Mapping),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Derive creates an empty alignment with the same policy as a
func (a *Alignment) Derive() *Alignment {
	return New(WithSameEntityMatching(a.sameEntity))
}

// SameEntityMatching reports the src == tgt policy
func (a *Alignment) SameEntityMatching() bool {
	return a.sameEntity
}

// Len returns the number of mappings
func (a *Alignment) Len() int {
	return len(a.mappings)
}

// Add inserts a mapping, or updates an existing one for the same pair when the
// similarity increases or the relation or status differ. Returns true iff
// anything changed.
func (a *Alignment) Add(src, tgt types.EntityID, sim float64, rel types.Relation, status types.Status) bool {
	if src == tgt && !a.sameEntity {
		return false
	}
	sim = clamp(sim)

	if m, ok := a.index[pair{src, tgt}]; ok {
		changed := false
		if sim > m.Similarity {
			m.Similarity = sim
			changed = true
		}
		if rel != m.Relation {
			m.Relation = rel
			changed = true
		}
		if status != m.Status {
			m.Status = status
			changed = true
		}
		return changed
	}

	m := &Mapping{Source: src, Target: tgt, Similarity: sim, Relation: rel, Status: status}
	a.mappings = append(a.mappings, m)
	a.index[pair{src, tgt}] = m
	if a.bySource[src] == nil {
		a.bySource[src] = make(map[types.EntityID]*Mapping)
	}
	a.bySource[src][tgt] = m
	if a.byTarget[tgt] == nil {
		a.byTarget[tgt] = make(map[types.EntityID]*Mapping)
	}
	a.byTarget[tgt][src] = m
	return true
}

// AddMapping adds m, see Add
func (a *Alignment) AddMapping(m Mapping) bool {
	return a.Add(m.Source, m.Target, m.Similarity, m.Relation, m.Status)
}

// AddAll folds AddMapping over mappings; true iff at least one changed a
func (a *Alignment) AddAll(mappings ...Mapping) bool {
	changed := false
	for _, m := range mappings {
		if a.AddMapping(m) {
			changed = true
		}
	}
	return changed
}

// Merge adds every mapping of other, many-to-many
func (a *Alignment) Merge(other *Alignment) bool {
	if other == nil {
		return false
	}
	return a.AddAll(other.Mappings()...)
}

// AddAllOneToOne merges other without creating conflicts: mappings of other
// are taken by descending similarity (ties in insertion order) and each is
// added only if no mapping of a already maps either of its entities to a
// different partner. Mappings already in a are never removed, so an existing
// partner always beats a newcomer. Pairs already present are updated through
// Add.
func (a *Alignment) AddAllOneToOne(other *Alignment) bool {
	if other == nil {
		return false
	}
	changed := false
	for _, m := range other.Sorted() {
		if m.Source == m.Target && !a.sameEntity {
			continue
		}
		if a.ContainsConflict(m) {
			continue
		}
		if a.AddMapping(m) {
			changed = true
		}
	}
	return changed
}

// Remove deletes the mapping for (src, tgt); no-op if absent
func (a *Alignment) Remove(src, tgt types.EntityID) bool {
	m, ok := a.index[pair{src, tgt}]
	if !ok {
		return false
	}
	delete(a.index, pair{src, tgt})
	delete(a.bySource[src], tgt)
	if len(a.bySource[src]) == 0 {
		delete(a.bySource, src)
	}
	delete(a.byTarget[tgt], src)
	if len(a.byTarget[tgt]) == 0 {
		delete(a.byTarget, tgt)
	}
	for i, cur := range a.mappings {
		if cur == m {
			a.mappings = append(a.mappings[:i], a.mappings[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the mapping for (src, tgt)
func (a *Alignment) Get(src, tgt types.EntityID) (Mapping, bool) {
	m, ok := a.index[pair{src, tgt}]
	if !ok {
		return Mapping{}, false
	}
	return *m, true
}

// Contains reports whether a mapping exists for (src, tgt)
func (a *Alignment) Contains(src, tgt types.EntityID) bool {
	_, ok := a.index[pair{src, tgt}]
	return ok
}

// ContainsSource reports whether src is mapped
func (a *Alignment) ContainsSource(src types.EntityID) bool {
	return len(a.bySource[src]) > 0
}

// ContainsTarget reports whether tgt is mapped
func (a *Alignment) ContainsTarget(tgt types.EntityID) bool {
	return len(a.byTarget[tgt]) > 0
}

// SetStatus changes the status of an existing mapping
func (a *Alignment) SetStatus(src, tgt types.EntityID, status types.Status) bool {
	m, ok := a.index[pair{src, tgt}]
	if !ok || m.Status == status {
		return false
	}
	m.Status = status
	return true
}

// Mappings returns copies of the mappings in insertion order
func (a *Alignment) Mappings() []Mapping {
	out := make([]Mapping, len(a.mappings))
	for i, m := range a.mappings {
		out[i] = *m
	}
	return out
}

// Sorted returns the mappings by descending similarity, ties in insertion order
func (a *Alignment) Sorted() []Mapping {
	out := a.Mappings()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

// SourceMappings returns the mappings of src in insertion order
func (a *Alignment) SourceMappings(src types.EntityID) []Mapping {
	return a.collect(func(m *Mapping) bool { return m.Source == src }, len(a.bySource[src]))
}

// TargetMappings returns the mappings of tgt in insertion order
func (a *Alignment) TargetMappings(tgt types.EntityID) []Mapping {
	return a.collect(func(m *Mapping) bool { return m.Target == tgt }, len(a.byTarget[tgt]))
}

func (a *Alignment) collect(keep func(*Mapping) bool, n int) []Mapping {
	if n == 0 {
		return nil
	}
	out := make([]Mapping, 0, n)
	for _, m := range a.mappings {
		if keep(m) {
			out = append(out, *m)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// Conflicts returns the mappings sharing exactly one entity with m
func (a *Alignment) Conflicts(m Mapping) []Mapping {
	n := len(a.bySource[m.Source]) + len(a.byTarget[m.Target])
	if n == 0 {
		return nil
	}
	var out []Mapping
	for _, cur := range a.mappings {
		if m.ConflictsWith(*cur) {
			out = append(out, *cur)
		}
	}
	return out
}

// ContainsConflict reports whether any mapping conflicts with m
func (a *Alignment) ContainsConflict(m Mapping) bool {
	for tgt := range a.bySource[m.Source] {
		if tgt != m.Target {
			return true
		}
	}
	for src := range a.byTarget[m.Target] {
		if src != m.Source {
			return true
		}
	}
	return false
}

// ContainsBetterMapping reports whether a conflicting mapping has strictly higher similarity than m
func (a *Alignment) ContainsBetterMapping(m Mapping) bool {
	for tgt, cur := range a.bySource[m.Source] {
		if tgt != m.Target && cur.Similarity > m.Similarity {
			return true
		}
	}
	for src, cur := range a.byTarget[m.Target] {
		if src != m.Source && cur.Similarity > m.Similarity {
			return true
		}
	}
	return false
}

// Sources returns the mapped source entities in order of first appearance
func (a *Alignment) Sources() []types.EntityID {
	seen := make(map[types.EntityID]bool, len(a.bySource))
	out := make([]types.EntityID, 0, len(a.bySource))
	for _, m := range a.mappings {
		if !seen[m.Source] {
			seen[m.Source] = true
			out = append(out, m.Source)
		}
	}
	return out
}

// Targets returns the mapped target entities in order of first appearance
func (a *Alignment) Targets() []types.EntityID {
	seen := make(map[types.EntityID]bool, len(a.byTarget))
	out := make([]types.EntityID, 0, len(a.byTarget))
	for _, m := range a.mappings {
		if !seen[m.Target] {
			seen[m.Target] = true
			out = append(out, m.Target)
		}
	}
	return out
}

// SourceCount returns the number of distinct mapped sources
func (a *Alignment) SourceCount() int {
	return len(a.bySource)
}

// TargetCount returns the number of distinct mapped targets
func (a *Alignment) TargetCount() int {
	return len(a.byTarget)
}

// MaxSourceSimilarity returns the best similarity of any mapping of src
func (a *Alignment) MaxSourceSimilarity(src types.EntityID) float64 {
	best := 0.0
	for _, m := range a.bySource[src] {
		best = max(best, m.Similarity)
	}
	return best
}

// MaxTargetSimilarity returns the best similarity of any mapping of tgt
func (a *Alignment) MaxTargetSimilarity(tgt types.EntityID) float64 {
	best := 0.0
	for _, m := range a.byTarget[tgt] {
		best = max(best, m.Similarity)
	}
	return best
}

// Cardinality is the average number of partners over all mapped entities,
// counting sources and targets separately. 0 for an empty alignment.
func (a *Alignment) Cardinality() float64 {
	entities := len(a.bySource) + len(a.byTarget)
	if entities == 0 {
		return 0
	}
	return float64(2*len(a.mappings)) / float64(entities)
}

// EntityCardinality returns the number of partners of id on either side
func (a *Alignment) EntityCardinality(id types.EntityID) int {
	return len(a.bySource[id]) + len(a.byTarget[id])
}

// MaxCardinality returns the largest number of partners of any mapped entity
func (a *Alignment) MaxCardinality() int {
	best := 0
	for _, targets := range a.bySource {
		best = max(best, len(targets))
	}
	for _, sources := range a.byTarget {
		best = max(best, len(sources))
	}
	return best
}

// Gain is the fraction of this alignment's mapped entities that other does
// not map, taking the smaller of the source-side and target-side fractions.
// 0 when this alignment is empty.
func (a *Alignment) Gain(other *Alignment) float64 {
	if len(a.mappings) == 0 {
		return 0
	}
	newSources := 0
	for src := range a.bySource {
		if other == nil || !other.ContainsSource(src) {
			newSources++
		}
	}
	newTargets := 0
	for tgt := range a.byTarget {
		if other == nil || !other.ContainsTarget(tgt) {
			newTargets++
		}
	}
	sourceGain := float64(newSources) / float64(len(a.bySource))
	targetGain := float64(newTargets) / float64(len(a.byTarget))
	return min(sourceGain, targetGain)
}

// Intersection returns the mappings of a that other contains identically
// (same pair and relation)
func (a *Alignment) Intersection(other *Alignment) *Alignment {
	out := a.Derive()
	if other == nil {
		return out
	}
	for _, m := range a.mappings {
		if o, ok := other.index[pair{m.Source, m.Target}]; ok && o.Relation == m.Relation {
			out.AddMapping(*m)
		}
	}
	return out
}

// Difference returns the mappings of a that other does not contain identically
func (a *Alignment) Difference(other *Alignment) *Alignment {
	out := a.Derive()
	for _, m := range a.mappings {
		if other != nil {
			if o, ok := other.index[pair{m.Source, m.Target}]; ok && o.Relation == m.Relation {
				continue
			}
		}
		out.AddMapping(*m)
	}
	return out
}

// Evaluate marks every mapping against a reference alignment: CORRECT when the
// reference has the pair with the same relation, UNKNOWN when the reference has
// the pair with an unknown relation, INCORRECT otherwise. Returns the number of
// correct mappings and of unknown-relation conflicts.
func (a *Alignment) Evaluate(reference *Alignment) (correct, conflict int) {
	for _, m := range a.mappings {
		var ref *Mapping
		if reference != nil {
			ref = reference.index[pair{m.Source, m.Target}]
		}
		switch {
		case ref != nil && ref.Relation == m.Relation:
			m.Status = types.StatusCorrect
			correct++
		case ref != nil && ref.Relation == types.UnknownRelation:
			m.Status = types.StatusUnknown
			conflict++
		default:
			m.Status = types.StatusIncorrect
		}
	}
	return correct, conflict
}

// SourceCoverage returns the fraction of source entities of type t that are mapped
func (a *Alignment) SourceCoverage(t types.EntityType, census EntityCensus) float64 {
	return coverage(a.bySource, t, census)
}

// TargetCoverage returns the fraction of target entities of type t that are mapped
func (a *Alignment) TargetCoverage(t types.EntityType, census EntityCensus) float64 {
	return coverage(a.byTarget, t, census)
}

func coverage(side map[types.EntityID]map[types.EntityID]*Mapping, t types.EntityType, census EntityCensus) float64 {
	if census == nil {
		return 0
	}
	total := census.Count(t)
	if total == 0 {
		return 0
	}
	covered := 0
	for id := range side {
		if et, ok := census.TypeOf(id); ok && et == t {
			covered++
		}
	}
	return float64(covered) / float64(total)
}

// Copy returns an independent copy with the same policy
func (a *Alignment) Copy() *Alignment {
	out := a.Derive()
	for _, m := range a.mappings {
		out.AddMapping(*m)
	}
	return out
}

// Filter returns the mappings with similarity >= threshold
func (a *Alignment) Filter(threshold float64) *Alignment {
	out := a.Derive()
	for _, m := range a.mappings {
		if m.Similarity >= threshold {
			out.AddMapping(*m)
		}
	}
	return out
}

// Fingerprint hashes the set of (source, target, relation) triples.
// Equal sets hash equally regardless of insertion order or similarity.
func (a *Alignment) Fingerprint() uint64 {
	keys := make([]string, 0, len(a.mappings))
	for _, m := range a.mappings {
		keys = append(keys, string(m.Source)+"\x00"+string(m.Target)+"\x00"+m.Relation.String())
	}
	sort.Strings(keys)

	h := xxhash.New()
	var buf [8]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(k)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(k)
	}
	return h.Sum64()
}
