package ontology

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/security"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// fileEntity is the TOML form of an entity
type fileEntity struct {
	ID           string              `toml:"id"`
	Labels       []string            `toml:"labels"`
	Synonyms     []string            `toml:"synonyms"`
	Translations map[string][]string `toml:"translations"`
	Parents      []string            `toml:"parents"`
	Disjoint     []string            `toml:"disjoint"`
	Obsolete     bool                `toml:"obsolete"`
	Domain       []string            `toml:"domain"`
	Range        []string            `toml:"range"`
	Kind         string              `toml:"kind"` // properties: "object" (default) or "data"
	Types        []string            `toml:"types"`
	XRefs        []string            `toml:"xrefs"`
}

// fileOntology is the TOML form of an ontology
type fileOntology struct {
	URI         string       `toml:"uri"`
	Language    string       `toml:"language"`
	Classes     []fileEntity `toml:"class"`
	Properties  []fileEntity `toml:"property"`
	Individuals []fileEntity `toml:"individual"`
}

// DefaultLanguage is used when an ontology file declares none
const DefaultLanguage = "en"

// LoadFile reads an ontology description from a TOML file and builds its lexicon
func LoadFile(path string, normalize func(string) string) (*Ontology, error) {
	if err := security.Default.ValidateInput(path); err != nil {
		return nil, ierrors.NewFileError("validate", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierrors.NewFileError("read", path, err)
	}
	return Parse(data, path, normalize)
}

// Parse decodes an ontology description. name is used in error messages.
func Parse(data []byte, name string, normalize func(string) string) (*Ontology, error) {
	var doc fileOntology
	if err := toml.Unmarshal(data, &doc); err != nil {
		line := 0
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			line, _ = derr.Position()
		}
		return nil, ierrors.NewParseError(name, line, err)
	}

	lang := doc.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	o := New(doc.URI, strings.ToLower(lang))

	groups := []struct {
		entities []fileEntity
		kind     func(fileEntity) (types.EntityType, error)
	}{
		{doc.Classes, func(fileEntity) (types.EntityType, error) { return types.EntityClass, nil }},
		{doc.Properties, propertyKind},
		{doc.Individuals, func(fileEntity) (types.EntityType, error) { return types.EntityIndividual, nil }},
	}
	for _, g := range groups {
		for _, fe := range g.entities {
			t, err := g.kind(fe)
			if err != nil {
				return nil, ierrors.NewParseError(name, 0, err)
			}
			if err := o.Add(o.entity(fe, t)); err != nil {
				return nil, ierrors.NewParseError(name, 0, err)
			}
		}
	}

	if normalize != nil {
		o.BuildLexicon(normalize)
	}
	return o, nil
}

func propertyKind(fe fileEntity) (types.EntityType, error) {
	switch strings.ToLower(fe.Kind) {
	case "", "object":
		return types.EntityObjectProperty, nil
	case "data", "datatype":
		return types.EntityDataProperty, nil
	default:
		return 0, fmt.Errorf("property %s: unknown kind %q", fe.ID, fe.Kind)
	}
}

func (o *Ontology) entity(fe fileEntity, t types.EntityType) *Entity {
	translations := make(map[string][]string, len(fe.Translations))
	for lang, names := range fe.Translations {
		translations[strings.ToLower(lang)] = names
	}
	return &Entity{
		ID:           o.resolve(fe.ID),
		Type:         t,
		Labels:       fe.Labels,
		Synonyms:     fe.Synonyms,
		Translations: translations,
		Parents:      o.resolveAll(fe.Parents),
		Disjoint:     o.resolveAll(fe.Disjoint),
		Obsolete:     fe.Obsolete,
		Domain:       o.resolveAll(fe.Domain),
		Range:        o.resolveAll(fe.Range),
		Types:        o.resolveAll(fe.Types),
		XRefs:        fe.XRefs,
	}
}

// resolve expands a short id against the ontology URI. Ids that already
// carry a scheme or a CURIE prefix are kept as written.
func (o *Ontology) resolve(id string) types.EntityID {
	if id == "" || o.URI == "" || strings.Contains(id, ":") {
		return types.EntityID(id)
	}
	if strings.HasSuffix(o.URI, "#") || strings.HasSuffix(o.URI, "/") {
		return types.EntityID(o.URI + id)
	}
	return types.EntityID(o.URI + "#" + id)
}

func (o *Ontology) resolveAll(ids []string) []types.EntityID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.EntityID, 0, len(ids))
	for _, id := range ids {
		out = append(out, o.resolve(id))
	}
	return out
}
