package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	omerrors "github.com/standardbeagle/ontomatch/internal/errors"
)

// FileName is the per-project configuration file
const FileName = ".ontomatch.kdl"

// LoadKDL attempts to load configuration from the .ontomatch.kdl file in dir
func LoadKDL(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, FileName)

	// Check if .ontomatch.kdl exists
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil // No KDL config found, use defaults
	}
	return LoadKDLFile(kdlPath)
}

// LoadKDLFile loads configuration from an explicit file path
func LoadKDLFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, omerrors.NewFileError("read", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// Relative knowledge directories are resolved against the config file location
	if cfg.Knowledge.Dir != "" && !filepath.IsAbs(cfg.Knowledge.Dir) {
		cfg.Knowledge.Dir = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Knowledge.Dir))
	}
	if cfg.Oracle.Reference != "" && !filepath.IsAbs(cfg.Oracle.Reference) {
		cfg.Oracle.Reference = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Oracle.Reference))
	}
	return cfg, nil
}

// nodeSetter applies one KDL node to the config
type nodeSetter func(cfg *Config, n *document.Node) error

// sections maps section → key → setter. Unknown keys are ignored so that
// newer files stay loadable by older binaries.
var sections = map[string]map[string]nodeSetter{
	"matching": {
		"base_threshold":        floatSetter(func(c *Config) *float64 { return &c.Matching.BaseThreshold }),
		"interactive_penalty":   floatSetter(func(c *Config) *float64 { return &c.Matching.InteractivePenalty }),
		"huge_bonus":            floatSetter(func(c *Config) *float64 { return &c.Matching.HugeBonus }),
		"translate_penalty":     floatSetter(func(c *Config) *float64 { return &c.Matching.TranslatePenalty }),
		"multi_bonus":           floatSetter(func(c *Config) *float64 { return &c.Matching.MultiBonus }),
		"string_threshold":      floatSetter(func(c *Config) *float64 { return &c.Matching.StringThreshold }),
		"word_gain":             floatSetter(func(c *Config) *float64 { return &c.Matching.WordGain }),
		"interactive_word_gain": floatSetter(func(c *Config) *float64 { return &c.Matching.InteractiveWordGain }),
		"high_gain":             floatSetter(func(c *Config) *float64 { return &c.Matching.HighGain }),
		"min_gain":              floatSetter(func(c *Config) *float64 { return &c.Matching.MinGain }),
		"property_ratio":        floatSetter(func(c *Config) *float64 { return &c.Matching.PropertyRatio }),
		"same_entity":           boolSetter(func(c *Config) *bool { return &c.Matching.SameEntity }),
	},
	"selection": {
		"hybrid_confidence": floatSetter(func(c *Config) *float64 { return &c.Selection.HybridConfidence }),
		"huge_offset":       floatSetter(func(c *Config) *float64 { return &c.Selection.HugeOffset }),
		"high_level_weight": floatSetter(func(c *Config) *float64 { return &c.Selection.HighLevelWeight }),
		"rematch_weight":    floatSetter(func(c *Config) *float64 { return &c.Selection.RematchWeight }),
		"strict_bound":      intSetter(func(c *Config) *int { return &c.Selection.StrictBound }),
		"interactive_low":   floatSetter(func(c *Config) *float64 { return &c.Selection.InteractiveLow }),
	},
	"repair": {
		"ambiguity_margin": floatSetter(func(c *Config) *float64 { return &c.Repair.AmbiguityMargin }),
	},
	"knowledge": {
		"dir":            stringSetter(func(c *Config) *string { return &c.Knowledge.Dir }),
		"default_source": stringSetter(func(c *Config) *string { return &c.Knowledge.DefaultSource }),
		"patterns":       listSetter(func(c *Config) *[]string { return &c.Knowledge.Patterns }),
		"sources":        listSetter(func(c *Config) *[]string { return &c.Knowledge.Sources }),
	},
	"task": {
		"size":               stringSetter(func(c *Config) *string { return &c.Task.Size }),
		"language":           stringSetter(func(c *Config) *string { return &c.Task.Language }),
		"small_class_limit":  intSetter(func(c *Config) *int { return &c.Task.SmallClassLimit }),
		"medium_class_limit": intSetter(func(c *Config) *int { return &c.Task.MediumClassLimit }),
		"large_class_limit":  intSetter(func(c *Config) *int { return &c.Task.LargeClassLimit }),
	},
	"oracle": {
		"mode":        stringSetter(func(c *Config) *string { return &c.Oracle.Mode }),
		"reference":   stringSetter(func(c *Config) *string { return &c.Oracle.Reference }),
		"query_limit": intSetter(func(c *Config) *int { return &c.Oracle.QueryLimit }),
	},
	"performance": {
		"workers": intSetter(func(c *Config) *int { return &c.Performance.Workers }),
	},
	"semantic": {
		"min_stem_length": intSetter(func(c *Config) *int { return &c.Semantic.MinStemLength }),
		"cache_size":      intSetter(func(c *Config) *int { return &c.Semantic.CacheSize }),
		"fuzzy_algorithm": stringSetter(func(c *Config) *string { return &c.Semantic.FuzzyAlgorithm }),
		"stem_exclusions": listSetter(func(c *Config) *[]string { return &c.Semantic.StemExclusions }),
	},
}

// Simple KDL parser for ontomatch configuration
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		name := nodeName(n)
		if name == "version" {
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
			continue
		}
		keys, ok := sections[name]
		if !ok {
			continue
		}
		for _, cn := range n.Children {
			set, ok := keys[nodeName(cn)]
			if !ok {
				continue
			}
			if err := set(cfg, cn); err != nil {
				return nil, omerrors.NewConfigError(name+"."+nodeName(cn), argString(cn), err)
			}
		}
	}

	return cfg, nil
}

func floatSetter(field func(*Config) *float64) nodeSetter {
	return func(cfg *Config, n *document.Node) error {
		v, ok := firstFloatArg(n)
		if !ok {
			return errors.New("expected a number")
		}
		*field(cfg) = v
		return nil
	}
}

func intSetter(field func(*Config) *int) nodeSetter {
	return func(cfg *Config, n *document.Node) error {
		v, ok := firstIntArg(n)
		if !ok {
			return errors.New("expected an integer")
		}
		*field(cfg) = v
		return nil
	}
}

func boolSetter(field func(*Config) *bool) nodeSetter {
	return func(cfg *Config, n *document.Node) error {
		v, ok := firstBoolArg(n)
		if !ok {
			return errors.New("expected true or false")
		}
		*field(cfg) = v
		return nil
	}
}

func stringSetter(field func(*Config) *string) nodeSetter {
	return func(cfg *Config, n *document.Node) error {
		v, ok := firstStringArg(n)
		if !ok {
			return errors.New("expected a string")
		}
		*field(cfg) = v
		return nil
	}
}

// listSetter replaces the defaults with the listed values
func listSetter(field func(*Config) *[]string) nodeSetter {
	return func(cfg *Config, n *document.Node) error {
		*field(cfg) = collectStringArgs(n)
		return nil
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func argString(n *document.Node) string {
	if n == nil || len(n.Arguments) == 0 {
		return ""
	}
	return fmt.Sprint(n.Arguments[0].Value)
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// First try to collect from arguments (for inline format)
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// If no arguments, collect from children (for block format like patterns { "**/*.lexicon" })
	// In KDL block format, strings are child nodes where the node name is the string value
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
