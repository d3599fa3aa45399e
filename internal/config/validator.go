package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	omerrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Every section is checked; all problems found are returned together.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	errs := []error{
		v.validateMatchingConfig(&cfg.Matching),
		v.validateSelectionConfig(&cfg.Selection),
		v.validateTaskConfig(&cfg.Task),
		v.validateOracleConfig(&cfg.Oracle),
		v.validateSemanticConfig(&cfg.Semantic),
	}

	if cfg.Repair.AmbiguityMargin < 0 || cfg.Repair.AmbiguityMargin > 1 {
		errs = append(errs, omerrors.NewConfigError("repair.ambiguity_margin", fmt.Sprint(cfg.Repair.AmbiguityMargin), omerrors.ErrInvalidThreshold))
	}

	if cfg.Performance.Workers < 0 {
		errs = append(errs, omerrors.NewConfigError("performance.workers", fmt.Sprint(cfg.Performance.Workers), errors.New("workers cannot be negative")))
	}

	if err := omerrors.NewMultiError(errs).ErrorOrNil(); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateMatchingConfig checks that every threshold parameter lies in [0,1]
func (v *Validator) validateMatchingConfig(m *Matching) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"matching.base_threshold", m.BaseThreshold},
		{"matching.interactive_penalty", m.InteractivePenalty},
		{"matching.huge_bonus", m.HugeBonus},
		{"matching.translate_penalty", m.TranslatePenalty},
		{"matching.multi_bonus", m.MultiBonus},
		{"matching.string_threshold", m.StringThreshold},
		{"matching.word_gain", m.WordGain},
		{"matching.interactive_word_gain", m.InteractiveWordGain},
		{"matching.high_gain", m.HighGain},
		{"matching.min_gain", m.MinGain},
		{"matching.property_ratio", m.PropertyRatio},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 {
			return omerrors.NewConfigError(f.name, fmt.Sprint(f.value), omerrors.ErrInvalidThreshold)
		}
	}
	if m.MinGain > m.HighGain {
		return omerrors.NewConfigError("matching.min_gain", fmt.Sprint(m.MinGain),
			fmt.Errorf("min_gain must not exceed high_gain (%v)", m.HighGain))
	}
	return nil
}

// validateSelectionConfig validates selector parameters
func (v *Validator) validateSelectionConfig(s *Selection) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"selection.hybrid_confidence", s.HybridConfidence},
		{"selection.huge_offset", s.HugeOffset},
		{"selection.high_level_weight", s.HighLevelWeight},
		{"selection.rematch_weight", s.RematchWeight},
		{"selection.interactive_low", s.InteractiveLow},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 {
			return omerrors.NewConfigError(f.name, fmt.Sprint(f.value), omerrors.ErrInvalidThreshold)
		}
	}
	if s.StrictBound < 0 {
		return omerrors.NewConfigError("selection.strict_bound", fmt.Sprint(s.StrictBound), errors.New("strict_bound cannot be negative"))
	}
	return nil
}

// validateTaskConfig checks overrides and that the size limits are increasing
func (v *Validator) validateTaskConfig(t *Task) error {
	if t.Size != "" {
		if _, err := types.ParseSizeCategory(t.Size); err != nil {
			return omerrors.NewConfigError("task.size", t.Size, err)
		}
	}
	if t.Language != "" {
		if _, err := types.ParseLanguageSetting(t.Language); err != nil {
			return omerrors.NewConfigError("task.language", t.Language, err)
		}
	}
	if t.SmallClassLimit < 0 || t.MediumClassLimit < 0 || t.LargeClassLimit < 0 {
		return omerrors.NewConfigError("task", "", errors.New("class limits cannot be negative"))
	}
	if t.SmallClassLimit > 0 && t.MediumClassLimit > 0 && t.SmallClassLimit >= t.MediumClassLimit {
		return omerrors.NewConfigError("task.medium_class_limit", fmt.Sprint(t.MediumClassLimit),
			fmt.Errorf("must exceed small_class_limit (%d)", t.SmallClassLimit))
	}
	if t.MediumClassLimit > 0 && t.LargeClassLimit > 0 && t.MediumClassLimit >= t.LargeClassLimit {
		return omerrors.NewConfigError("task.large_class_limit", fmt.Sprint(t.LargeClassLimit),
			fmt.Errorf("must exceed medium_class_limit (%d)", t.MediumClassLimit))
	}
	return nil
}

// validateOracleConfig validates the oracle mode
func (v *Validator) validateOracleConfig(o *Oracle) error {
	switch strings.ToLower(o.Mode) {
	case "", "none", "console":
	case "reference":
		if o.Reference == "" {
			return omerrors.NewConfigError("oracle.reference", "", errors.New("reference oracle requires a reference alignment"))
		}
	default:
		return omerrors.NewConfigError("oracle.mode", o.Mode, fmt.Errorf("unknown oracle mode %q", o.Mode))
	}
	if o.QueryLimit < 0 {
		return omerrors.NewConfigError("oracle.query_limit", fmt.Sprint(o.QueryLimit), errors.New("query_limit cannot be negative"))
	}
	return nil
}

// validateSemanticConfig checks the label comparison settings
func (v *Validator) validateSemanticConfig(s *Semantic) error {
	if s.MinStemLength < 0 {
		return omerrors.NewConfigError("semantic.min_stem_length", fmt.Sprint(s.MinStemLength), errors.New("min_stem_length cannot be negative"))
	}
	if s.CacheSize < 0 {
		return omerrors.NewConfigError("semantic.cache_size", fmt.Sprint(s.CacheSize), errors.New("cache_size cannot be negative"))
	}
	if s.FuzzyAlgorithm != "" {
		if err := semantic.NewFuzzyMatcher(true, s.FuzzyAlgorithm).ValidateConfig(); err != nil {
			return omerrors.NewConfigError("semantic.fuzzy_algorithm", s.FuzzyAlgorithm, err)
		}
	}
	return nil
}

// setSmartDefaults fills zero values with defaults
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Use cores-1 to leave headroom for the system, minimum of 1
	if cfg.Performance.Workers == 0 {
		cfg.Performance.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Task.SmallClassLimit == 0 {
		cfg.Task.SmallClassLimit = DefaultSmallClassLimit
	}
	if cfg.Task.MediumClassLimit == 0 {
		cfg.Task.MediumClassLimit = DefaultMediumClassLimit
	}
	if cfg.Task.LargeClassLimit == 0 {
		cfg.Task.LargeClassLimit = DefaultLargeClassLimit
	}

	if cfg.Selection.StrictBound == 0 {
		cfg.Selection.StrictBound = DefaultStrictBound
	}

	if cfg.Knowledge.DefaultSource == "" {
		cfg.Knowledge.DefaultSource = DefaultKnowledgeSource
	}

	if cfg.Oracle.Mode == "" {
		cfg.Oracle.Mode = "none"
	}

	if cfg.Semantic.MinStemLength == 0 {
		cfg.Semantic.MinStemLength = DefaultMinStemLength
	}
	if cfg.Semantic.CacheSize == 0 {
		cfg.Semantic.CacheSize = DefaultNameCacheSize
	}
	if cfg.Semantic.FuzzyAlgorithm == "" {
		cfg.Semantic.FuzzyAlgorithm = DefaultFuzzyAlgorithm
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
