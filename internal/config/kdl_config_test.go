package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omerrors "github.com/standardbeagle/ontomatch/internal/errors"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 0.6, cfg.Matching.BaseThreshold)
	assert.Equal(t, 0.3, cfg.Matching.InteractivePenalty)
	assert.Equal(t, 0.1, cfg.Matching.HugeBonus)
	assert.Equal(t, 0.15, cfg.Matching.TranslatePenalty)
	assert.Equal(t, 0.05, cfg.Matching.MultiBonus)
	assert.Equal(t, 0.7, cfg.Matching.StringThreshold)
	assert.Equal(t, 0.1, cfg.Matching.WordGain)
	assert.Equal(t, 0.04, cfg.Matching.InteractiveWordGain)
	assert.Equal(t, 0.25, cfg.Matching.HighGain)
	assert.Equal(t, 0.02, cfg.Matching.MinGain)
	assert.Equal(t, 0.05, cfg.Matching.PropertyRatio)
	assert.False(t, cfg.Matching.SameEntity)
	assert.Equal(t, 0.75, cfg.Selection.HybridConfidence)
	assert.Equal(t, "WordNet", cfg.Knowledge.DefaultSource)
	assert.Equal(t, "none", cfg.Oracle.Mode)
}

func TestParseKDL_Sections(t *testing.T) {
	kdlContent := `
version 2
matching {
    base_threshold 0.55
    string_threshold 0.8
    same_entity true
}
selection {
    hybrid_confidence 0.9
    strict_bound 50
}
knowledge {
    dir "bk"
    patterns "**/*.lexicon"
    sources "UBERON.toml" "DOID.lexicon"
    default_source "Thesaurus"
}
task {
    size "huge"
    language "multi"
}
oracle {
    mode "reference"
    reference "ref.json"
    query_limit 25
}
semantic {
    fuzzy_algorithm "levenshtein"
    stem_exclusions "dna" "news"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, 0.55, cfg.Matching.BaseThreshold)
	assert.Equal(t, 0.8, cfg.Matching.StringThreshold)
	assert.True(t, cfg.Matching.SameEntity)
	assert.Equal(t, 0.9, cfg.Selection.HybridConfidence)
	assert.Equal(t, 50, cfg.Selection.StrictBound)
	assert.Equal(t, "bk", cfg.Knowledge.Dir)
	assert.Equal(t, []string{"**/*.lexicon"}, cfg.Knowledge.Patterns)
	assert.Equal(t, []string{"UBERON.toml", "DOID.lexicon"}, cfg.Knowledge.Sources)
	assert.Equal(t, "Thesaurus", cfg.Knowledge.DefaultSource)
	assert.Equal(t, "huge", cfg.Task.Size)
	assert.Equal(t, "multi", cfg.Task.Language)
	assert.Equal(t, "reference", cfg.Oracle.Mode)
	assert.Equal(t, 25, cfg.Oracle.QueryLimit)
	assert.Equal(t, "levenshtein", cfg.Semantic.FuzzyAlgorithm)
	assert.Equal(t, []string{"dna", "news"}, cfg.Semantic.StemExclusions)

	// Untouched values keep their defaults
	assert.Equal(t, 0.25, cfg.Matching.HighGain)
}

func TestParseKDL_IntegerAsFloat(t *testing.T) {
	cfg, err := parseKDL("matching {\n base_threshold 1\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Matching.BaseThreshold)
}

func TestParseKDL_TypeMismatch(t *testing.T) {
	_, err := parseKDL("matching {\n base_threshold \"high\"\n}\n")
	require.Error(t, err)
	assert.True(t, omerrors.IsConfig(err))
	assert.Contains(t, err.Error(), "matching.base_threshold")
}

func TestParseKDL_Invalid(t *testing.T) {
	_, err := parseKDL("matching {")
	assert.Error(t, err)
}

func TestLoadKDL_Missing(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	content := "knowledge {\n dir \"bk\"\n}\noracle {\n mode \"reference\"\n reference \"gold/ref.json\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "bk"), cfg.Knowledge.Dir)
	assert.Equal(t, filepath.Join(dir, "gold", "ref.json"), cfg.Oracle.Reference)
}
