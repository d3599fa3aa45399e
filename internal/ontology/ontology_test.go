package ontology

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/config"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

const vehiclesTOML = `
uri = "http://example.org/vehicles"
language = "en"

[[class]]
id = "Vehicle"
labels = ["Vehicle"]
disjoint = ["Person"]

[[class]]
id = "Car"
labels = ["Car"]
synonyms = ["Automobile"]
parents = ["Vehicle"]
translations = { pt = ["Carro"] }

[[class]]
id = "SportsCar"
parents = ["Car"]

[[class]]
id = "Person"
labels = ["Person"]

[[class]]
id = "Driver"
labels = ["Driver"]
parents = ["Person"]
obsolete = true

[[property]]
id = "drives"
labels = ["drives"]
domain = ["Person"]
range = ["Vehicle"]

[[property]]
id = "plate"
kind = "data"
labels = ["licence plate"]
domain = ["Car"]
range = ["xsd:string"]

[[individual]]
id = "herbie"
labels = ["Herbie"]
types = ["Car"]
`

func normalizer() func(string) string {
	return semantic.NewNormalizer(100).Normalize
}

func loadVehicles(t *testing.T) *Ontology {
	t.Helper()
	o, err := Parse([]byte(vehiclesTOML), "vehicles.toml", normalizer())
	require.NoError(t, err)
	return o
}

func iri(local string) types.EntityID {
	return types.EntityID("http://example.org/vehicles#" + local)
}

func TestParse(t *testing.T) {
	o := loadVehicles(t)

	assert.Equal(t, "http://example.org/vehicles", o.URI)
	assert.Equal(t, "en", o.Language)
	assert.Equal(t, 5, o.ClassCount())
	assert.Equal(t, 2, o.PropertyCount())
	assert.Equal(t, 1, o.Count(types.EntityObjectProperty))
	assert.Equal(t, 1, o.Count(types.EntityDataProperty))
	assert.Equal(t, 1, o.Count(types.EntityIndividual))
	assert.Equal(t, 8, o.Size())

	car, ok := o.Entity(iri("Car"))
	require.True(t, ok)
	assert.Equal(t, []types.EntityID{iri("Vehicle")}, car.Parents)

	plate, ok := o.Entity(iri("plate"))
	require.True(t, ok)
	assert.Equal(t, types.EntityDataProperty, plate.Type)
	assert.Equal(t, []types.EntityID{"xsd:string"}, plate.Range, "prefixed ids are kept")

	et, ok := o.TypeOf(iri("herbie"))
	require.True(t, ok)
	assert.Equal(t, types.EntityIndividual, et)
	_, ok = o.TypeOf("http://nowhere#x")
	assert.False(t, ok)

	assert.True(t, o.IsObsolete(iri("Driver")))
	assert.False(t, o.IsObsolete(iri("Car")))
	assert.False(t, o.IsObsolete("http://nowhere#x"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("uri = \n"), "broken.toml", normalizer())
	var perr *ierrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Positive(t, perr.Line)

	_, err = Parse([]byte("[[property]]\nid = \"p\"\nkind = \"annotation\"\n"), "kind.toml", normalizer())
	require.ErrorAs(t, err, &perr)

	_, err = Parse([]byte("[[class]]\nid = \"A\"\n[[class]]\nid = \"A\"\n"), "dup.toml", normalizer())
	require.ErrorAs(t, err, &perr)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.toml")
	require.NoError(t, os.WriteFile(path, []byte(vehiclesTOML), 0o644))

	o, err := LoadFile(path, normalizer())
	require.NoError(t, err)
	assert.Equal(t, 5, o.ClassCount())

	_, err = LoadFile(filepath.Join(dir, "missing.toml"), normalizer())
	var ferr *ierrors.FileError
	require.ErrorAs(t, err, &ferr)
}

func TestHierarchy(t *testing.T) {
	o := loadVehicles(t)

	assert.Equal(t, []types.EntityID{iri("Car"), iri("Vehicle")}, o.Ancestors(iri("SportsCar")))
	assert.Equal(t, []types.EntityID{iri("SportsCar")}, o.Children(iri("Car")))
	assert.True(t, o.IsSubclassOf(iri("SportsCar"), iri("Vehicle")))
	assert.False(t, o.IsSubclassOf(iri("Vehicle"), iri("Car")))
	assert.True(t, o.Related(iri("Vehicle"), iri("SportsCar")))
	assert.Equal(t, []types.EntityID{iri("Vehicle")}, o.Roots(iri("SportsCar")))
	assert.Equal(t, []types.EntityID{iri("Person")}, o.Roots(iri("Person")))
}

func TestAncestorsToleratesCycles(t *testing.T) {
	o := New("http://example.org/c", "en")
	require.NoError(t, o.Add(&Entity{ID: "a", Type: types.EntityClass, Parents: []types.EntityID{"b"}}))
	require.NoError(t, o.Add(&Entity{ID: "b", Type: types.EntityClass, Parents: []types.EntityID{"a"}}))

	assert.Equal(t, []types.EntityID{"b"}, o.Ancestors("a"))
	assert.Equal(t, []types.EntityID{"a"}, o.Roots("a"), "no root in a cycle")
}

func TestDisjointness(t *testing.T) {
	o := loadVehicles(t)

	assert.True(t, o.AreDisjoint(iri("Vehicle"), iri("Person")))
	assert.True(t, o.AreDisjoint(iri("Person"), iri("Vehicle")), "declarations are symmetric")
	assert.True(t, o.AreDisjoint(iri("SportsCar"), iri("Driver")), "inherited through ancestors")
	assert.False(t, o.AreDisjoint(iri("Car"), iri("SportsCar")))
	assert.False(t, o.AreDisjoint(iri("Car"), iri("Car")))
	assert.True(t, o.HasDisjointness(iri("SportsCar")))
}

func TestBuildLexicon(t *testing.T) {
	o := loadVehicles(t)
	lex := o.Lexicon()

	entries := lex.Lookup("car")
	require.Len(t, entries, 1)
	assert.Equal(t, iri("Car"), entries[0].Entity)
	assert.Equal(t, WeightLabel, entries[0].Weight)

	syn := lex.Lookup("automobile")
	require.Len(t, syn, 1)
	assert.Equal(t, WeightSynonym, syn[0].Weight)
	assert.Equal(t, ProvenanceSynonym, syn[0].Provenance)

	local := lex.Lookup("sports car")
	require.Len(t, local, 1, "entities without labels use their local name")
	assert.Equal(t, ProvenanceLocalName, local[0].Provenance)

	pt := lex.Lookup("carro")
	require.Len(t, pt, 1)
	assert.Equal(t, "pt", pt[0].Language)

	assert.Equal(t, []string{"en", "pt"}, o.Languages())
	assert.Len(t, lex.NamesIn(iri("Car"), "en"), 2)
	assert.Len(t, lex.NamesIn(iri("Car"), ""), 3)
}

func TestLexicon(t *testing.T) {
	lex := NewLexicon()

	assert.True(t, lex.Add(LexEntry{Name: "heart valve", Entity: "a", Language: "en", Weight: 0.9}))
	assert.False(t, lex.Add(LexEntry{Name: "heart valve", Entity: "a", Language: "en", Weight: 0.8}), "lower weight is ignored")
	assert.True(t, lex.Add(LexEntry{Name: "heart valve", Entity: "a", Language: "en", Weight: 1.0}))
	assert.True(t, lex.Add(LexEntry{Name: "heart", Entity: "b", Language: "en", Weight: 1.0}))
	assert.True(t, lex.Add(LexEntry{Name: "hearth", Entity: "c", Language: "en", Weight: 1.0}))
	assert.True(t, lex.Add(LexEntry{Name: "kidney", Entity: "d", Language: "en", Weight: 1.0}))
	assert.False(t, lex.Add(LexEntry{Name: "", Entity: "d"}))

	assert.Equal(t, 4, lex.Len())
	assert.Equal(t, 4, lex.NameCount())

	names := lex.Names("a")
	require.Len(t, names, 1)
	assert.Equal(t, 1.0, names[0].Weight, "entity index follows upgrades")

	var ordered []string
	for _, e := range lex.All() {
		ordered = append(ordered, e.Name)
	}
	assert.Equal(t, []string{"heart", "heart valve", "hearth", "kidney"}, ordered, "entries come in name order")

	assert.True(t, lex.HasEntity("d"))
	assert.False(t, lex.HasEntity("zz"))
	assert.Nil(t, lex.Lookup("liver"))
}

func TestLexiconExtend(t *testing.T) {
	lex := NewLexicon()
	lex.Add(LexEntry{Name: "myocardium", Entity: "src#1", Type: types.EntityClass, Language: "en", Weight: 1})

	bk := []LexEntry{
		{Name: "heart muscle", Language: "en", Weight: 1},
		{Name: "myocardium", Language: "en", Weight: 1},
	}
	n := lex.Extend("src#1", types.EntityClass, bk, 0.8)
	assert.Equal(t, 1, n, "existing stronger names are kept")

	entries := lex.Lookup("heart muscle")
	require.Len(t, entries, 1)
	assert.Equal(t, types.EntityID("src#1"), entries[0].Entity)
	assert.InDelta(t, 0.8, entries[0].Weight, 1e-9)
	assert.Equal(t, ProvenanceExternal, entries[0].Provenance)
}

type fakeResolver struct {
	sources []string
	paths   map[string]string
}

func (r fakeResolver) Sources() ([]string, error) { return r.sources, nil }
func (r fakeResolver) Resolve(name string) (string, error) {
	if p, ok := r.paths[name]; ok {
		return p, nil
	}
	return "", ierrors.NewConfigError("knowledge.source", name, ierrors.ErrUnknownSource)
}

func classOntology(t *testing.T, uri, lang string, n int, labels ...string) *Ontology {
	t.Helper()
	o := New(uri, lang)
	for _, l := range labels {
		require.NoError(t, o.Add(&Entity{ID: types.EntityID(uri + "#" + l), Type: types.EntityClass, Labels: []string{l}}))
	}
	for i := len(labels); i < n; i++ {
		require.NoError(t, o.Add(&Entity{ID: types.EntityID(fmt.Sprintf("%s#filler%d", uri, i)), Type: types.EntityClass}))
	}
	o.BuildLexicon(normalizer())
	return o
}

func TestTaskSizeCategory(t *testing.T) {
	tests := []struct {
		name    string
		classes int
		want    types.SizeCategory
	}{
		{"tiny", 2, types.SizeSmall},
		{"medium", 600, types.SizeMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := classOntology(t, "http://s", "en", tt.classes, "Car")
			tgt := classOntology(t, "http://t", "en", 1, "Car")
			task := NewTask(src, tgt, config.Default().Task)
			size, err := task.SizeCategory()
			require.NoError(t, err)
			assert.Equal(t, tt.want, size)
		})
	}

	src := classOntology(t, "http://s", "en", 1, "Car")
	limits := config.Task{SmallClassLimit: 1, MediumClassLimit: 2, LargeClassLimit: 3}
	size, err := NewTask(src, src, limits).SizeCategory()
	require.NoError(t, err)
	assert.Equal(t, types.SizeMedium, size)

	limits.LargeClassLimit = 1
	limits.MediumClassLimit = 1
	size, err = NewTask(src, src, limits).SizeCategory()
	require.NoError(t, err)
	assert.Equal(t, types.SizeHuge, size)

	size, err = NewTask(src, src, config.Task{Size: "large"}).SizeCategory()
	require.NoError(t, err)
	assert.Equal(t, types.SizeLarge, size)

	_, err = NewTask(src, src, config.Task{Size: "gigantic"}).SizeCategory()
	assert.True(t, ierrors.IsConfig(err))
}

func TestTaskLanguageSetting(t *testing.T) {
	en := classOntology(t, "http://s", "en", 1, "Car")
	pt := classOntology(t, "http://t", "pt", 1, "Carro")

	lang, err := NewTask(en, en, config.Task{}).LanguageSetting()
	require.NoError(t, err)
	assert.Equal(t, types.LanguageSingle, lang)

	lang, err = NewTask(en, pt, config.Task{}).LanguageSetting()
	require.NoError(t, err)
	assert.Equal(t, types.LanguageTranslate, lang)

	multi := loadVehicles(t)
	task := NewTask(multi, multi, config.Task{})
	lang, err = task.LanguageSetting()
	require.NoError(t, err)
	assert.Equal(t, types.LanguageMulti, lang)
	assert.Equal(t, []string{"en", "pt"}, task.Languages())

	_, err = NewTask(en, en, config.Task{Language: "klingon"}).LanguageSetting()
	assert.True(t, ierrors.IsConfig(err))
}

func TestTaskTranslate(t *testing.T) {
	pt := classOntology(t, "http://s", "pt", 1, "Carro")
	en := classOntology(t, "http://t", "en", 1, "Car")
	task := NewTask(pt, en, config.Task{})

	require.NoError(t, task.TranslateOntologies(context.Background()))

	entries := pt.Lexicon().Lookup("car")
	require.Len(t, entries, 1)
	assert.Equal(t, "en", entries[0].Language)
	assert.Equal(t, ProvenanceTranslation, entries[0].Provenance)

	lang, err := task.LanguageSetting()
	require.NoError(t, err)
	assert.Equal(t, types.LanguageSingle, lang, "translation makes the languages shared")
}

func TestTaskTranslateWithoutDictionary(t *testing.T) {
	src := classOntology(t, "http://s", "xx", 1, "Foo")
	tgt := classOntology(t, "http://t", "en", 1, "Car")
	task := NewTask(src, tgt, config.Task{}, WithTranslator(semantic.NewTranslator()))

	err := task.TranslateOntologies(context.Background())
	require.ErrorIs(t, err, ierrors.ErrNoTranslation)
	var cerr *ierrors.CollaboratorError
	assert.ErrorAs(t, err, &cerr)
}

func TestTaskBackgroundKnowledge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.toml")
	require.NoError(t, os.WriteFile(path, []byte(vehiclesTOML), 0o644))

	src := classOntology(t, "http://s", "en", 1, "Car")
	resolver := fakeResolver{
		sources: []string{"WordNet", "vehicles.toml"},
		paths:   map[string]string{"vehicles.toml": path},
	}
	task := NewTask(src, src, config.Task{}, WithResolver(resolver))

	sources, err := task.BKSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"WordNet", "vehicles.toml"}, sources)

	assert.Nil(t, task.BKOntology())
	require.NoError(t, task.OpenBKOntology("vehicles.toml"))
	require.NotNil(t, task.BKOntology())
	assert.Equal(t, 5, task.BKOntology().ClassCount())
	assert.NotEmpty(t, task.BKOntology().Lexicon().Lookup("car"))

	err = task.OpenBKOntology("unknown.lexicon")
	assert.True(t, ierrors.IsConfig(err))

	sources, err = NewTask(src, src, config.Task{}).BKSources()
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultKnowledgeSource}, sources)
}

func TestDisjointnessChecker(t *testing.T) {
	src := loadVehicles(t)
	tgt := New("http://t", "en")
	require.NoError(t, tgt.Add(&Entity{ID: "http://t#Thing", Type: types.EntityClass}))
	require.NoError(t, tgt.Add(&Entity{ID: "http://t#Auto", Type: types.EntityClass, Parents: []types.EntityID{"http://t#Thing"}}))
	require.NoError(t, tgt.Add(&Entity{ID: "http://t#Human", Type: types.EntityClass}))

	a := alignment.New()
	a.Add(iri("Car"), "http://t#Auto", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add(iri("Person"), "http://t#Thing", 0.6, types.Equivalence, types.StatusUnknown)
	a.Add(iri("Driver"), "http://t#Human", 0.8, types.Equivalence, types.StatusUnknown)

	groups := NewDisjointnessChecker(src, tgt).ConflictGroups(a)
	require.Len(t, groups, 1, "Car and Person are disjoint but Auto is a Thing")
	assert.Equal(t, iri("Car"), groups[0][0].Source)
	assert.Equal(t, iri("Person"), groups[0][1].Source)

	a.Remove(iri("Person"), "http://t#Thing")
	assert.Empty(t, NewDisjointnessChecker(src, tgt).ConflictGroups(a))
}
