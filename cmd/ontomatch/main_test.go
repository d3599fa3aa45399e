package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/debug"
	"github.com/standardbeagle/ontomatch/internal/types"
)

const sourceOntology = `
uri = "http://s.org/cars"
language = "en"

[[class]]
id = "Car"
labels = ["Car"]
`

const targetOntology = `
uri = "http://t.org/cars"
language = "en"

[[class]]
id = "Car"
labels = ["Car"]

[[class]]
id = "Boat"
labels = ["Boat"]
`

// Test data setup
func setupTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"source.toml":                sourceOntology,
		"target.toml":                targetOntology,
		"knowledge/anatomy.lexicon":  "c1\theart valve\n",
		"knowledge/onto/uberon.toml": `uri = "http://bk.org/uberon"`,
		"knowledge/notes/readme.txt": "ignored",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// runCLI runs the app in process and returns what it wrote to stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCLIWithStderr(t, args...)
	return stdout, err
}

func runCLIWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader("")
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"ontomatch"}, args...))
	return stdout.String(), stderr.String(), err
}

// resetDebug restores the package-level debug state the global flags change
func resetDebug(t *testing.T) {
	t.Cleanup(func() {
		debug.EnableDebug = "false"
		debug.SetQuietMode(false)
		debug.SetDebugOutput(nil)
	})
}

func decode(t *testing.T, out string) []alignment.Correspondence {
	t.Helper()
	var cs []alignment.Correspondence
	require.NoError(t, json.Unmarshal([]byte(out), &cs), "output: %s", out)
	return cs
}

func TestMatchCommand(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"))
	require.NoError(t, err)

	cs := decode(t, out)
	require.Len(t, cs, 1)
	assert.Equal(t, "http://s.org/cars#Car", cs[0].From)
	assert.Equal(t, "http://t.org/cars#Car", cs[0].To)
	assert.Equal(t, "EQUIVALENT", cs[0].Relation)
	assert.Equal(t, 1.0, cs[0].Confidence)
}

func TestMatchCommand_OutputAndMetrics(t *testing.T) {
	dir := setupTestProject(t)
	output := filepath.Join(dir, "out.json")
	metricsFile := filepath.Join(dir, "metrics.prom")

	out, err := runCLI(t, "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"),
		"-o", output,
		"--size", "medium",
		"--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	a, err := alignment.LoadFile(output)
	require.NoError(t, err)
	assert.True(t, a.Contains("http://s.org/cars#Car", "http://t.org/cars#Car"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ontomatch_pipeline_stage_runs_total")
	assert.Contains(t, string(data), `stage="selection"`)
}

func TestMatchCommand_ReferenceOracle(t *testing.T) {
	dir := setupTestProject(t)
	ref := alignment.New()
	ref.Add("http://s.org/cars#Car", "http://t.org/cars#Car", 1, types.Equivalence, types.StatusUnknown)
	refPath := filepath.Join(dir, "reference.json")
	require.NoError(t, ref.SaveFile(refPath))

	out, err := runCLI(t, "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"),
		"--reference", refPath,
		"--query-limit", "5")
	require.NoError(t, err)
	assert.Len(t, decode(t, out), 1)
}

func TestMatchCommand_Errors(t *testing.T) {
	dir := setupTestProject(t)

	_, err := runCLI(t, "match", "-s", filepath.Join(dir, "source.toml"))
	assert.Error(t, err, "target is required")

	_, err = runCLI(t, "match", "-s", filepath.Join(dir, "missing.toml"), "-t", filepath.Join(dir, "target.toml"))
	assert.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	_, err = runCLI(t, "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"),
		"--size", "gigantic")
	assert.Error(t, err)
}

func TestMatchCommand_RootConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := setupTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ontomatch.kdl"),
		[]byte("semantic {\n    fuzzy_algorithm \"soundex\"\n}\n"), 0644))

	_, err := runCLI(t, "--root", dir, "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semantic.fuzzy_algorithm")
	assert.Equal(t, 2, exitCode(err))
}

func TestMatchCommand_DebugOutput(t *testing.T) {
	resetDebug(t)
	dir := setupTestProject(t)
	args := []string{"match", "-s", filepath.Join(dir, "source.toml"), "-t", filepath.Join(dir, "target.toml")}

	_, stderr, err := runCLIWithStderr(t, append([]string{"--debug"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "component=PIPELINE")

	_, stderr, err = runCLIWithStderr(t, append([]string{"--debug", "--quiet"}, args...)...)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "component=")
}

func TestMatchCommand_DebugLogFile(t *testing.T) {
	resetDebug(t)
	dir := setupTestProject(t)

	_, stderr, err := runCLIWithStderr(t, "--debug-log", "match",
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"))
	require.NoError(t, err)

	first, _, _ := strings.Cut(stderr, "\n")
	line, ok := strings.CutPrefix(first, "Debug log: ")
	require.True(t, ok, "stderr: %s", stderr)
	data, err := os.ReadFile(line)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=PIPELINE")
}

func TestEvaluateCommand(t *testing.T) {
	dir := setupTestProject(t)
	a := alignment.New()
	a.Add("s#1", "t#1", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add("s#2", "t#2", 0.8, types.Equivalence, types.StatusUnknown)
	ref := alignment.New()
	ref.Add("s#1", "t#1", 1, types.Equivalence, types.StatusUnknown)
	require.NoError(t, a.SaveFile(filepath.Join(dir, "a.json")))
	require.NoError(t, ref.SaveFile(filepath.Join(dir, "ref.json")))

	out, err := runCLI(t, "evaluate", "-a", filepath.Join(dir, "a.json"), "-r", filepath.Join(dir, "ref.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "precision 50.0%")
	assert.Contains(t, out, "recall 100.0%")

	out, err = runCLI(t, "evaluate", "-a", filepath.Join(dir, "a.json"), "-r", filepath.Join(dir, "ref.json"), "--json")
	require.NoError(t, err)
	var eval map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.Equal(t, 1.0, eval["correct"])
	assert.Equal(t, 0.5, eval["precision"])
}

func TestRepairCommand(t *testing.T) {
	dir := setupTestProject(t)
	a := alignment.New()
	a.Add("http://s.org/cars#Car", "http://t.org/cars#Car", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add("http://s.org/cars#Car", "http://t.org/cars#Boat", 0.5, types.Equivalence, types.StatusUnknown)
	require.NoError(t, a.SaveFile(filepath.Join(dir, "a.json")))

	out, err := runCLI(t, "repair",
		"-a", filepath.Join(dir, "a.json"),
		"-s", filepath.Join(dir, "source.toml"),
		"-t", filepath.Join(dir, "target.toml"))
	require.NoError(t, err)

	cs := decode(t, out)
	require.Len(t, cs, 1)
	assert.Equal(t, "http://t.org/cars#Car", cs[0].To)
}

func TestSourcesCommand(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "sources", "-k", filepath.Join(dir, "knowledge"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"thesaurus", "WordNet"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"lexicon", "anatomy.lexicon"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"ontology", "onto/uberon.toml"}, strings.Fields(lines[2]))
}
