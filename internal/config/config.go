// Package config loads the docgate gate configuration: classification
// rules, reference contracts, schema fragment locations, and engine
// options. The validation core consumes only the compiled forms; file
// handling stays here.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RuleConfig is one classification rule as written in the config file.
type RuleConfig struct {
	Pattern   string `koanf:"pattern" validate:"required"`
	Category  string `koanf:"category" validate:"required"`
	Substring bool   `koanf:"substring"`
}

// ContractConfig is one reference contract as written in the config file.
// Extractor uses the "preamble:<field>" or "body:<regex>" form.
type ContractConfig struct {
	Producer      string `koanf:"producer" validate:"required"`
	Extractor     string `koanf:"extractor" validate:"required"`
	Target        string `koanf:"target" validate:"required"`
	TargetIDField string `koanf:"target_id_field" validate:"required"`
}

// Configuration is the full docgate gate configuration.
type Configuration struct {
	SchemaDir           string           `koanf:"schema_dir" validate:"required"`
	Include             []string         `koanf:"include"`
	MaxParallel         int              `koanf:"max_parallel" validate:"omitempty,min=1,max=64"`
	AllowMissingTargets bool             `koanf:"allow_missing_targets"`
	WeightedScoring     bool             `koanf:"weighted_scoring"`
	ScoreThreshold      int              `koanf:"score_threshold" validate:"min=0,max=100"`
	Rules               []RuleConfig     `koanf:"rules" validate:"dive"`
	Contracts           []ContractConfig `koanf:"contracts" validate:"dive"`
}

// Load reads configuration from defaults, an optional JSON config file,
// and DOCGATE_-prefixed environment variables, in increasing priority.
func Load(configPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
			}
		}
	}

	k.Load(env.Provider("DOCGATE_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys.
// Example: DOCGATE_MAX_PARALLEL -> max_parallel
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "DOCGATE_"))
}
