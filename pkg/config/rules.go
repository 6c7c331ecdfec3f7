package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules are the street naming-convention knobs the validation engine applies.
// Jurisdictions tune these without a rebuild by pointing RULES_PATH at a YAML
// file; anything omitted there keeps its compiled default.
type Rules struct {
	// Directions rejected as name prefixes, upper-case.
	Directions []string `yaml:"directions"`
	// Street types that may not start or end a proposed name, upper-case.
	DisallowedTypes []string `yaml:"disallowed_types"`
	// Every whitespace-delimited word must be at least this long.
	MinWordLength int `yaml:"min_word_length"`
	// At most this many words per name.
	MaxWordCount int `yaml:"max_word_count"`
}

// DefaultRules returns the compiled naming rules.
func DefaultRules() Rules {
	return Rules{
		Directions: []string{
			"NORTH", "SOUTH", "EAST", "WEST",
			"NORTHEAST", "NORTHWEST", "SOUTHEAST", "SOUTHWEST",
		},
		DisallowedTypes: []string{
			"STREET", "BOULEVARD", "CIRCLE", "COURT", "CRESCENT", "DRIVE",
			"LANE", "LOOP", "PATH", "PLACE", "ROAD", "TRAIL", "WAY",
		},
		MinWordLength: 3,
		MaxWordCount:  2,
	}
}

// LoadRules reads a YAML rules file, merging over the defaults. An empty path
// returns the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}

	var overrides Rules
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return rules, fmt.Errorf("parse rules file: %w", err)
	}

	if len(overrides.Directions) > 0 {
		rules.Directions = overrides.Directions
	}
	if len(overrides.DisallowedTypes) > 0 {
		rules.DisallowedTypes = overrides.DisallowedTypes
	}
	if overrides.MinWordLength > 0 {
		rules.MinWordLength = overrides.MinWordLength
	}
	if overrides.MaxWordCount > 0 {
		rules.MaxWordCount = overrides.MaxWordCount
	}
	return rules, nil
}
