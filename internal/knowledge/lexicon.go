package knowledge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/security"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// LoadLexicon reads a mediating lexicon file. Each non-blank line that does
// not start with '#' is "concept<TAB>name[<TAB>weight]"; weight defaults to 1.
func LoadLexicon(path string, normalize func(string) string) (*ontology.Lexicon, error) {
	if err := security.Default.ValidateInput(path); err != nil {
		return nil, ierrors.NewFileError("validate", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ierrors.NewFileError("open", path, err)
	}
	defer f.Close()
	return ReadLexicon(f, path, normalize)
}

// ReadLexicon parses lexicon lines from r. name is used in error messages.
func ReadLexicon(r io.Reader, name string, normalize func(string) string) (*ontology.Lexicon, error) {
	lex := ontology.NewLexicon()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, ierrors.NewParseError(name, line, fmt.Errorf("expected 2 or 3 tab-separated fields, got %d", len(fields)))
		}
		concept := strings.TrimSpace(fields[0])
		if concept == "" {
			return nil, ierrors.NewParseError(name, line, fmt.Errorf("empty concept"))
		}
		weight := 1.0
		if len(fields) == 3 {
			w, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return nil, ierrors.NewParseError(name, line, err)
			}
			if w < 0 || w > 1 {
				return nil, ierrors.NewParseError(name, line, fmt.Errorf("weight %v outside [0,1]", w))
			}
			weight = w
		}

		lex.Add(ontology.LexEntry{
			Name:       normalize(fields[1]),
			Entity:     types.EntityID(concept),
			Type:       types.EntityClass,
			Weight:     weight,
			Provenance: ontology.ProvenanceExternal,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, ierrors.NewFileError("read", name, err)
	}
	return lex, nil
}
