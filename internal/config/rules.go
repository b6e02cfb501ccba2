package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the YAML comparison rules file. Every field is optional;
// unset fields leave the environment-derived tuning untouched.
//
// Example:
//
//	uniquenessThreshold: 0.99
//	namePenalty: 0.8
//	nullLiterals: ["", "null", "missing"]
//	keys:
//	  - table: orders
//	    columns: [region, code]
type Rules struct {
	UniquenessThreshold *float64  `yaml:"uniquenessThreshold"`
	NamePenalty         *float64  `yaml:"namePenalty"`
	NullLiterals        []string  `yaml:"nullLiterals"`
	Keys                []KeyRule `yaml:"keys"`
}

// KeyRule pins the key columns for one table name, bypassing suggestion.
type KeyRule struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
}

// LoadRules reads and validates a YAML rules file.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return nil, errors.New("rules path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	if r.UniquenessThreshold != nil {
		if *r.UniquenessThreshold <= 0 || *r.UniquenessThreshold > 1 {
			return fmt.Errorf("uniquenessThreshold (%v) must be in (0, 1]", *r.UniquenessThreshold)
		}
	}
	if r.NamePenalty != nil {
		if *r.NamePenalty <= 0 || *r.NamePenalty > 1 {
			return fmt.Errorf("namePenalty (%v) must be in (0, 1]", *r.NamePenalty)
		}
	}
	for _, rule := range r.Keys {
		if rule.Table == "" {
			return errors.New("key rule table is required")
		}
		if len(rule.Columns) == 0 {
			return fmt.Errorf("key rule for table %s must list columns", rule.Table)
		}
	}
	return nil
}

// apply copies the set rule fields over cfg.
func (r *Rules) apply(cfg *CompareConfig) {
	if r.UniquenessThreshold != nil {
		cfg.UniquenessThreshold = *r.UniquenessThreshold
	}
	if r.NamePenalty != nil {
		cfg.NamePenalty = *r.NamePenalty
	}
	if r.NullLiterals != nil {
		cfg.NullLiterals = r.NullLiterals
	}
	cfg.Keys = r.Keys
}
