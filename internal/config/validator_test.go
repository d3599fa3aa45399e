package config

import (
	"errors"
	"testing"

	omerrors "github.com/standardbeagle/ontomatch/internal/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := Default()
	cfg.Performance.Workers = 0
	cfg.Task.SmallClassLimit = 0
	cfg.Knowledge.DefaultSource = ""
	cfg.Semantic.FuzzyAlgorithm = ""

	validator := NewValidator()
	if err := validator.ValidateAndSetDefaults(cfg); err != nil {
		t.Fatalf("ValidateAndSetDefaults failed: %v", err)
	}

	if cfg.Performance.Workers == 0 {
		t.Errorf("Workers should have been set from the CPU count")
	}
	if cfg.Task.SmallClassLimit != DefaultSmallClassLimit {
		t.Errorf("SmallClassLimit should default to %d, got %d", DefaultSmallClassLimit, cfg.Task.SmallClassLimit)
	}
	if cfg.Knowledge.DefaultSource != "WordNet" {
		t.Errorf("DefaultSource should default to WordNet, got %q", cfg.Knowledge.DefaultSource)
	}
	if cfg.Semantic.FuzzyAlgorithm != DefaultFuzzyAlgorithm {
		t.Errorf("FuzzyAlgorithm should have a default value")
	}
}

func TestValidateThresholdRange(t *testing.T) {
	cfg := Default()
	cfg.Matching.BaseThreshold = 1.5

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("Expected error for threshold above 1")
	}
	if !errors.Is(err, omerrors.ErrInvalidThreshold) {
		t.Errorf("Expected ErrInvalidThreshold, got %v", err)
	}
	if !omerrors.IsConfig(err) {
		t.Errorf("Expected a config error, got %T", err)
	}
}

func TestValidateGainOrdering(t *testing.T) {
	cfg := Default()
	cfg.Matching.MinGain = 0.5
	cfg.Matching.HighGain = 0.25

	if err := ValidateConfig(cfg); err == nil {
		t.Error("Expected error when min_gain exceeds high_gain")
	}
}

func TestValidateTaskConfig(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"auto", Task{SmallClassLimit: 500, MediumClassLimit: 5000, LargeClassLimit: 30000}, false},
		{"size override", Task{Size: "huge"}, false},
		{"bad size", Task{Size: "gigantic"}, true},
		{"bad language", Task{Language: "klingon"}, true},
		{"negative limit", Task{SmallClassLimit: -1}, true},
		{"unordered limits", Task{SmallClassLimit: 5000, MediumClassLimit: 500}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.validateTaskConfig(&tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTaskConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOracleConfig(t *testing.T) {
	validator := NewValidator()

	if err := validator.validateOracleConfig(&Oracle{Mode: "console"}); err != nil {
		t.Errorf("console oracle should be valid: %v", err)
	}
	if err := validator.validateOracleConfig(&Oracle{Mode: "reference"}); err == nil {
		t.Error("reference oracle without a reference should fail")
	}
	if err := validator.validateOracleConfig(&Oracle{Mode: "crystal-ball"}); err == nil {
		t.Error("unknown oracle mode should fail")
	}
	if err := validator.validateOracleConfig(&Oracle{Mode: "none", QueryLimit: -3}); err == nil {
		t.Error("negative query limit should fail")
	}
}

func TestValidateUnknownFuzzyAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.Semantic.FuzzyAlgorithm = "soundex"

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("Expected error for unknown fuzzy algorithm")
	}
	var ce *omerrors.ConfigError
	if !errors.As(err, &ce) || ce.Field != "semantic.fuzzy_algorithm" {
		t.Errorf("Expected semantic.fuzzy_algorithm config error, got %v", err)
	}
}

func TestValidateReportsEverySection(t *testing.T) {
	cfg := Default()
	cfg.Matching.BaseThreshold = 1.5
	cfg.Oracle.Mode = "crystal-ball"
	cfg.Performance.Workers = -1

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("Expected errors")
	}
	var multi *omerrors.MultiError
	if !errors.As(err, &multi) {
		t.Fatalf("Expected a MultiError, got %T", err)
	}
	if len(multi.Errors) != 3 {
		t.Errorf("Expected 3 errors, got %d: %v", len(multi.Errors), multi.Errors)
	}
	if !errors.Is(err, omerrors.ErrInvalidThreshold) {
		t.Error("Threshold error should be reachable through the MultiError")
	}
	if cfg.Performance.Workers != -1 {
		t.Error("Defaults must not be applied to an invalid config")
	}
}
