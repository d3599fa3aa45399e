package config

import (
	"os"
	"runtime"
)

// Threshold constants tuned empirically for the automatic matcher.
// They are defaults only; every one can be overridden from .ontomatch.kdl.
const (
	DefaultBaseThreshold       = 0.6
	DefaultInteractivePenalty  = 0.3
	DefaultHugeBonus           = 0.1
	DefaultTranslatePenalty    = 0.15
	DefaultMultiBonus          = 0.05
	DefaultStringThreshold     = 0.7
	DefaultWordGain            = 0.1
	DefaultInteractiveWordGain = 0.04
	DefaultHighGain            = 0.25
	DefaultMinGain             = 0.02
	DefaultPropertyRatio       = 0.05
)

// Selection, repair, task and semantic defaults
const (
	DefaultHybridConfidence  = 0.75
	DefaultHugeOffset        = 0.05
	DefaultHighLevelWeight   = 0.75
	DefaultRematchWeight     = 0.8
	DefaultStrictBound       = 400
	DefaultInteractiveLowSim = 0.7
	DefaultAmbiguityMargin   = 0.1
	DefaultKnowledgeSource   = "WordNet"
	DefaultSmallClassLimit   = 500
	DefaultMediumClassLimit  = 5000
	DefaultLargeClassLimit   = 30000
	DefaultNameCacheSize     = 1000
	DefaultMinStemLength     = 3
	DefaultFuzzyAlgorithm    = "jaro-winkler"
)

type Config struct {
	Version     int
	Matching    Matching
	Selection   Selection
	Repair      Repair
	Knowledge   Knowledge
	Task        Task
	Oracle      Oracle
	Performance Performance
	Semantic    Semantic
}

// Matching holds the adaptive threshold parameters
type Matching struct {
	BaseThreshold       float64 // thresh before adjustments
	InteractivePenalty  float64 // subtracted when an oracle is available
	HugeBonus           float64 // added for HUGE tasks
	TranslatePenalty    float64 // subtracted for TRANSLATE tasks
	MultiBonus          float64 // added for MULTI tasks
	StringThreshold     float64 // psmThresh unless TRANSLATE
	WordGain            float64 // wnThresh
	InteractiveWordGain float64 // wnThresh when interactive
	HighGain            float64 // BK ontology gain that triggers lexicon extension
	MinGain             float64 // BK gain required to merge at all
	PropertyRatio       float64 // properties/classes ratio below which property matching is skipped
	SameEntity          bool    // allow src == tgt correspondences
}

// Selection holds selector parameters
type Selection struct {
	HybridConfidence float64 // similarity above which HYBRID selects strictly
	HugeOffset       float64 // HUGE path pre-selection runs at thresh - HugeOffset
	HighLevelWeight  float64 // LWC weight of the high-level rematch
	RematchWeight    float64 // LWC weight of the working alignment against rematches
	StrictBound      int     // largest conflict component solved exactly
	InteractiveLow   float64 // interactive selection queries mappings below this similarity
}

// Repair holds repairer parameters
type Repair struct {
	AmbiguityMargin float64 // top two similarities within this margin are ambiguous
}

// Knowledge configures background-knowledge discovery
type Knowledge struct {
	Dir           string   // directory scanned for sources
	Patterns      []string // doublestar patterns relative to Dir
	Sources       []string // explicit source names, added to the discovered ones
	DefaultSource string   // the thesaurus used for SMALL tasks
}

// Task configures size/language classification
type Task struct {
	Size             string // "" = derive from class counts
	Language         string // "" = derive from shared languages
	SmallClassLimit  int
	MediumClassLimit int
	LargeClassLimit  int
}

// Oracle configures the interactive oracle
type Oracle struct {
	Mode       string // "none", "reference" or "console"
	Reference  string // reference alignment path for Mode "reference"
	QueryLimit int    // 0 = unlimited
}

type Performance struct {
	Workers int // 0 = auto-detect (NumCPU)
}

type Semantic struct {
	MinStemLength  int      // Minimum word length for stemming
	CacheSize      int      // NameSplitter cache size
	FuzzyAlgorithm string   // jaro-winkler, levenshtein, cosine, jaccard
	StemExclusions []string // words the stemmer leaves alone
}

// Default returns the configuration used when no .ontomatch.kdl is present
func Default() *Config {
	return &Config{
		Version: 1,
		Matching: Matching{
			BaseThreshold:       DefaultBaseThreshold,
			InteractivePenalty:  DefaultInteractivePenalty,
			HugeBonus:           DefaultHugeBonus,
			TranslatePenalty:    DefaultTranslatePenalty,
			MultiBonus:          DefaultMultiBonus,
			StringThreshold:     DefaultStringThreshold,
			WordGain:            DefaultWordGain,
			InteractiveWordGain: DefaultInteractiveWordGain,
			HighGain:            DefaultHighGain,
			MinGain:             DefaultMinGain,
			PropertyRatio:       DefaultPropertyRatio,
		},
		Selection: Selection{
			HybridConfidence: DefaultHybridConfidence,
			HugeOffset:       DefaultHugeOffset,
			HighLevelWeight:  DefaultHighLevelWeight,
			RematchWeight:    DefaultRematchWeight,
			StrictBound:      DefaultStrictBound,
			InteractiveLow:   DefaultInteractiveLowSim,
		},
		Repair: Repair{
			AmbiguityMargin: DefaultAmbiguityMargin,
		},
		Knowledge: Knowledge{
			Dir:           "knowledge",
			Patterns:      []string{"**/*.lexicon", "**/*.toml"},
			DefaultSource: DefaultKnowledgeSource,
		},
		Task: Task{
			SmallClassLimit:  DefaultSmallClassLimit,
			MediumClassLimit: DefaultMediumClassLimit,
			LargeClassLimit:  DefaultLargeClassLimit,
		},
		Oracle: Oracle{
			Mode: "none",
		},
		Performance: Performance{
			Workers: runtime.NumCPU(),
		},
		Semantic: Semantic{
			MinStemLength:  DefaultMinStemLength,
			CacheSize:      DefaultNameCacheSize,
			FuzzyAlgorithm: DefaultFuzzyAlgorithm,
		},
	}
}

// LoadWithRoot loads ~/.ontomatch.kdl and <rootDir>/.ontomatch.kdl, project values winning.
// An explicit path replaces the project lookup.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	// Step 1: Load global base config from ~/.ontomatch.kdl (if exists)
	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	// Step 2: Load the project config, or the explicit file
	var projectConfig *Config
	var err error
	if path != "" {
		projectConfig, err = LoadKDLFile(path)
	} else {
		projectConfig, err = LoadKDL(searchDir)
	}
	if err != nil {
		return nil, err
	}

	// Step 3: Merge configs (project overrides base, knowledge sources accumulate)
	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		return baseConfig, nil
	}
	return Default(), nil
}

// mergeConfigs lets project values win while keeping the union of knowledge
// patterns and explicit sources from both files
func mergeConfigs(base, project *Config) *Config {
	merged := *project
	merged.Knowledge.Patterns = mergeUnique(base.Knowledge.Patterns, project.Knowledge.Patterns)
	merged.Knowledge.Sources = mergeUnique(base.Knowledge.Sources, project.Knowledge.Sources)
	merged.Semantic.StemExclusions = mergeUnique(base.Semantic.StemExclusions, project.Semantic.StemExclusions)
	if merged.Knowledge.Dir == "" {
		merged.Knowledge.Dir = base.Knowledge.Dir
	}
	return &merged
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
