package knowledge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/ontomatch/internal/config"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
)

// LexiconSuffix marks mediating lexicon sources; any other source is an ontology
const LexiconSuffix = ".lexicon"

// IsLexicon reports whether the named source is a mediating lexicon
func IsLexicon(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), LexiconSuffix)
}

// Catalog discovers background-knowledge sources under a directory.
// Source names are slash-separated paths relative to Dir; the built-in
// default source is always listed first.
type Catalog struct {
	Dir           string
	Patterns      []string
	Extra         []string // configured names that must resolve
	DefaultSource string
}

// NewCatalog creates a catalog from the knowledge configuration
func NewCatalog(cfg config.Knowledge) *Catalog {
	def := cfg.DefaultSource
	if def == "" {
		def = config.DefaultKnowledgeSource
	}
	return &Catalog{
		Dir:           cfg.Dir,
		Patterns:      cfg.Patterns,
		Extra:         cfg.Sources,
		DefaultSource: def,
	}
}

// Sources lists the default source followed by every discovered or configured
// source, sorted and without duplicates. A missing directory yields only the
// default source; a configured source that does not exist is a configuration error.
func (c *Catalog) Sources() ([]string, error) {
	found := make(map[string]bool)
	if c.Dir != "" {
		fsys := os.DirFS(c.Dir)
		for _, pattern := range c.Patterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, ierrors.NewConfigError("knowledge.patterns", pattern, err)
			}
			for _, m := range matches {
				found[m] = true
			}
		}
	}
	for _, name := range c.Extra {
		if name == c.DefaultSource {
			continue
		}
		if _, err := c.Resolve(name); err != nil {
			return nil, err
		}
		found[filepath.ToSlash(name)] = true
	}

	names := make([]string, 0, len(found))
	for name := range found {
		if name != c.DefaultSource {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{c.DefaultSource}, names...), nil
}

// Resolve returns the file path of a named source. The default source is
// built in and has no file.
func (c *Catalog) Resolve(name string) (string, error) {
	if name == "" || name == c.DefaultSource {
		return "", ierrors.NewConfigError("knowledge.source", name, ierrors.ErrUnknownSource)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, filepath.FromSlash(name))
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ierrors.NewConfigError("knowledge.source", name, fmt.Errorf("%w: %s not found", ierrors.ErrUnknownSource, path))
		}
		return "", ierrors.NewFileError("stat", path, err)
	}
	if info.IsDir() {
		return "", ierrors.NewConfigError("knowledge.source", name, fmt.Errorf("%w: is a directory", ierrors.ErrUnknownSource))
	}
	return path, nil
}
