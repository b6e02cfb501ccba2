package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRulesFile(t, `uniquenessThreshold: 0.99
keys:
  - table: orders
    columns: [region, code]
  - table: users
    columns: [id]
`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	if rules.UniquenessThreshold == nil || *rules.UniquenessThreshold != 0.99 {
		t.Errorf("UniquenessThreshold = %v, want 0.99", rules.UniquenessThreshold)
	}
	if rules.NamePenalty != nil {
		t.Errorf("NamePenalty = %v, want nil", rules.NamePenalty)
	}

	var compare CompareConfig
	rules.apply(&compare)

	key := compare.KeyFor("orders")
	if len(key) != 2 || key[0] != "region" || key[1] != "code" {
		t.Errorf("KeyFor(orders) = %v, want [region code]", key)
	}
	if compare.KeyFor("unknown") != nil {
		t.Error("KeyFor(unknown) should be nil")
	}
}

func TestLoadRules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "out of range threshold",
			content: "uniquenessThreshold: 2.0\n",
		},
		{
			name:    "out of range penalty",
			content: "namePenalty: 0\n",
		},
		{
			name:    "key rule without table",
			content: "keys:\n  - columns: [id]\n",
		},
		{
			name:    "key rule without columns",
			content: "keys:\n  - table: orders\n",
		},
		{
			name:    "invalid yaml",
			content: "keys: [\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRulesFile(t, tt.content)
			if _, err := LoadRules(path); err == nil {
				t.Error("LoadRules() expected error")
			}
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadRules() expected error for missing file")
	}
	if _, err := LoadRules(""); err == nil {
		t.Error("LoadRules() expected error for empty path")
	}
}
