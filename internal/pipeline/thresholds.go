package pipeline

import (
	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Thresholds holds the similarity and gain cut-offs of one run. They are
// derived from the task classification at the start of every run.
type Thresholds struct {
	Main          float64 // selection and most matchers
	String        float64 // string matcher in match mode
	WordGain      float64 // minimum coverage of the default knowledge source
	HighGain      float64 // knowledge ontology gain that triggers lexicon extension
	MinGain       float64 // knowledge gain required to merge at all
	PropertyRatio float64 // properties per class below which property matching is skipped
}

// ComputeThresholds applies the size, language and interactivity adjustments
// to the configured base values
func ComputeThresholds(size types.SizeCategory, lang types.LanguageSetting, interactive bool, cfg config.Matching) Thresholds {
	th := Thresholds{
		Main:          cfg.BaseThreshold,
		String:        cfg.StringThreshold,
		WordGain:      cfg.WordGain,
		HighGain:      cfg.HighGain,
		MinGain:       cfg.MinGain,
		PropertyRatio: cfg.PropertyRatio,
	}
	if interactive {
		th.Main -= cfg.InteractivePenalty
		th.WordGain = cfg.InteractiveWordGain
	}
	if size == types.SizeHuge {
		th.Main += cfg.HugeBonus
	}
	switch lang {
	case types.LanguageTranslate:
		th.Main -= cfg.TranslatePenalty
		th.String = th.Main
	case types.LanguageMulti:
		th.Main += cfg.MultiBonus
	case types.LanguageSingle:
	}
	return th
}
