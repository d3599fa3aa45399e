package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ontomatch/internal/config"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIsLexicon(t *testing.T) {
	assert.True(t, IsLexicon("uberon.lexicon"))
	assert.True(t, IsLexicon("med/DOID.LEXICON"))
	assert.False(t, IsLexicon("uberon.toml"))
	assert.False(t, IsLexicon("WordNet"))
}

func TestCatalogSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anatomy", "uberon.lexicon"), "U:1\theart\n")
	writeFile(t, filepath.Join(dir, "doid.toml"), "uri = \"http://doid\"\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	cfg := config.Default().Knowledge
	cfg.Dir = dir
	c := NewCatalog(cfg)

	sources, err := c.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{"WordNet", "anatomy/uberon.lexicon", "doid.toml"}, sources)

	path, err := c.Resolve("anatomy/uberon.lexicon")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "anatomy", "uberon.lexicon"), path)
}

func TestCatalogMissingDir(t *testing.T) {
	cfg := config.Default().Knowledge
	cfg.Dir = filepath.Join(t.TempDir(), "nope")

	sources, err := NewCatalog(cfg).Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultKnowledgeSource}, sources)
}

func TestCatalogConfiguredSources(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(t.TempDir(), "extra.lexicon")
	writeFile(t, extra, "X:1\tthing\n")

	cfg := config.Knowledge{Dir: dir, Sources: []string{extra, "WordNet"}}
	sources, err := NewCatalog(cfg).Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{"WordNet", filepath.ToSlash(extra)}, sources)

	cfg.Sources = []string{"missing.lexicon"}
	_, err = NewCatalog(cfg).Sources()
	require.ErrorIs(t, err, ierrors.ErrUnknownSource)
	assert.True(t, ierrors.IsConfig(err))
}

func TestCatalogResolveErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	c := NewCatalog(config.Knowledge{Dir: dir})

	_, err := c.Resolve("WordNet")
	assert.True(t, ierrors.IsConfig(err), "the default source has no file")
	_, err = c.Resolve("")
	assert.True(t, ierrors.IsConfig(err))
	_, err = c.Resolve("sub")
	assert.ErrorIs(t, err, ierrors.ErrUnknownSource)
}

func TestReadLexicon(t *testing.T) {
	input := strings.Join([]string{
		"# mediating lexicon",
		"UBERON:0000948\tHeart",
		"UBERON:0000948\tcardiac organ\t0.8",
		"",
		"UBERON:0002113\tKidney\t0.9",
		"UBERON:0002113\tRenal_Organ\r",
	}, "\n")

	lex, err := ReadLexicon(strings.NewReader(input), "test.lexicon", semantic.NewNormalizer(10).Normalize)
	require.NoError(t, err)
	assert.Equal(t, 4, lex.Len())

	heart := lex.Lookup("heart")
	require.Len(t, heart, 1)
	assert.Equal(t, types.EntityID("UBERON:0000948"), heart[0].Entity)
	assert.Equal(t, 1.0, heart[0].Weight)

	organ := lex.Lookup("cardiac organ")
	require.Len(t, organ, 1)
	assert.Equal(t, 0.8, organ[0].Weight)

	assert.Len(t, lex.Lookup("renal organ"), 1, "names are normalized")
}

func TestReadLexiconErrors(t *testing.T) {
	norm := semantic.NewNormalizer(10).Normalize
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"one field", "UBERON:1\n", 1},
		{"too many fields", "ok\tname\n\nA\tb\t0.5\textra\n", 3},
		{"bad weight", "A\tb\theavy\n", 1},
		{"weight out of range", "A\tb\t1.5\n", 1},
		{"empty concept", "\tname\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLexicon(strings.NewReader(tt.input), "bad.lexicon", norm)
			var perr *ierrors.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lexicon")
	writeFile(t, path, "X:1\tthing\n")

	lex, err := LoadLexicon(path, semantic.NewNormalizer(10).Normalize)
	require.NoError(t, err)
	assert.Equal(t, 1, lex.Len())

	_, err = LoadLexicon(path+".missing", semantic.NewNormalizer(10).Normalize)
	var ferr *ierrors.FileError
	assert.ErrorAs(t, err, &ferr)
}
