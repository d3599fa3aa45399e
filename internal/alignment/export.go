package alignment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/security"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Correspondence is the exported form of a mapping
type Correspondence struct {
	From       string  `json:"iriFrom"`
	To         string  `json:"iriTo"`
	Confidence float64 `json:"confidence"`
	Relation   string  `json:"rel"`
}

var relationNames = map[types.Relation]string{
	types.Equivalence:     "EQUIVALENT",
	types.SubsumedBy:      "SUBCLASS",
	types.Subsumes:        "SUPERCLASS",
	types.Overlap:         "OVERLAP",
	types.UnknownRelation: "UNKNOWN",
}

func exportRelation(r types.Relation) string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return relationNames[types.UnknownRelation]
}

// Correspondences returns the mappings in export form, in insertion order
func (a *Alignment) Correspondences() []Correspondence {
	out := make([]Correspondence, 0, len(a.mappings))
	for _, m := range a.mappings {
		out = append(out, Correspondence{
			From:       string(m.Source),
			To:         string(m.Target),
			Confidence: m.Similarity,
			Relation:   exportRelation(m.Relation),
		})
	}
	return out
}

// WriteJSON writes the alignment as an indented JSON list of correspondences
func (a *Alignment) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Correspondences())
}

// ReadJSON parses a JSON list of correspondences
func ReadJSON(r io.Reader, opts ...Option) (*Alignment, error) {
	var list []Correspondence
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode alignment: %w", err)
	}
	a := New(opts...)
	for i, c := range list {
		rel, err := types.ParseRelation(c.Relation)
		if err != nil {
			return nil, fmt.Errorf("correspondence %d: %w", i, err)
		}
		a.Add(types.EntityID(c.From), types.EntityID(c.To), c.Confidence, rel, types.StatusUnknown)
	}
	return a, nil
}

// LoadFile reads an alignment from a JSON file
func LoadFile(path string, opts ...Option) (*Alignment, error) {
	if err := security.Default.ValidateInput(path); err != nil {
		return nil, ierrors.NewFileError("validate", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ierrors.NewFileError("open", path, err)
	}
	defer f.Close()
	a, err := ReadJSON(f, opts...)
	if err != nil {
		return nil, ierrors.NewParseError(path, 0, err)
	}
	return a, nil
}

// SaveFile writes the alignment to path as JSON
func (a *Alignment) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return ierrors.NewFileError("create", path, err)
	}
	if err := a.WriteJSON(f); err != nil {
		f.Close()
		return ierrors.NewFileError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return ierrors.NewFileError("close", path, err)
	}
	return nil
}
