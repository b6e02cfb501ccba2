package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 30*time.Second)
	}
	if cfg.Upload.MaxFileSize != 104857600 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 104857600)
	}
	if cfg.Upload.MaxStoredResults != 64 {
		t.Errorf("Upload.MaxStoredResults = %d, want %d", cfg.Upload.MaxStoredResults, 64)
	}
	if cfg.Compare.UniquenessThreshold != 0.95 {
		t.Errorf("Compare.UniquenessThreshold = %v, want %v", cfg.Compare.UniquenessThreshold, 0.95)
	}
	if cfg.Compare.NamePenalty != 0.9 {
		t.Errorf("Compare.NamePenalty = %v, want %v", cfg.Compare.NamePenalty, 0.9)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("COMPARE_UNIQUENESS_THRESHOLD", "0.8")
	os.Setenv("COMPARE_NULL_LITERALS", ", null, missing")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("COMPARE_UNIQUENESS_THRESHOLD")
		os.Unsetenv("COMPARE_NULL_LITERALS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Compare.UniquenessThreshold != 0.8 {
		t.Errorf("Compare.UniquenessThreshold = %v, want %v", cfg.Compare.UniquenessThreshold, 0.8)
	}
	want := []string{"", "null", "missing"}
	if len(cfg.Compare.NullLiterals) != len(want) {
		t.Fatalf("Compare.NullLiterals = %v, want %v", cfg.Compare.NullLiterals, want)
	}
	for i, v := range want {
		if cfg.Compare.NullLiterals[i] != v {
			t.Errorf("Compare.NullLiterals[%d] = %q, want %q", i, cfg.Compare.NullLiterals[i], v)
		}
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-number")
	defer os.Unsetenv("SERVER_PORT")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid SERVER_PORT")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	os.Setenv("COMPARE_UNIQUENESS_THRESHOLD", "1.5")
	defer os.Unsetenv("COMPARE_UNIQUENESS_THRESHOLD")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for out-of-range threshold")
	}
}

func TestLoad_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `uniquenessThreshold: 0.99
namePenalty: 0.8
nullLiterals: ["", "null", "missing"]
keys:
  - table: orders
    columns: [region, code]
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatal(err)
	}

	os.Setenv("COMPARE_RULES_PATH", path)
	defer os.Unsetenv("COMPARE_RULES_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Compare.UniquenessThreshold != 0.99 {
		t.Errorf("Compare.UniquenessThreshold = %v, want %v", cfg.Compare.UniquenessThreshold, 0.99)
	}
	if cfg.Compare.NamePenalty != 0.8 {
		t.Errorf("Compare.NamePenalty = %v, want %v", cfg.Compare.NamePenalty, 0.8)
	}
	if len(cfg.Compare.NullLiterals) != 3 {
		t.Errorf("Compare.NullLiterals = %v, want 3 entries", cfg.Compare.NullLiterals)
	}
}

func TestServerConfigAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9000")
	}
}
