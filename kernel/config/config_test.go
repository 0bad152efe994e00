package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAppliesDefaultsWithNoOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Kernel.SnapshotInterval != defaultSnapshotInterval {
		t.Fatalf("expected default snapshot interval, got %d", cfg.Kernel.SnapshotInterval)
	}
	if cfg.Kernel.DefaultSeed != defaultSeed {
		t.Fatalf("expected default seed, got %d", cfg.Kernel.DefaultSeed)
	}
	if cfg.Kernel.StorePath != defaultStorePath {
		t.Fatalf("expected default store path, got %q", cfg.Kernel.StorePath)
	}
}

func TestLoadMissingDirectoryIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatalf("expected an error for a missing config directory")
	}
}

func TestLoadKernelYAMLOverridesPartialFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kernel.yaml", "snapshot_interval: 25\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Kernel.SnapshotInterval != 25 {
		t.Fatalf("expected overridden snapshot interval 25, got %d", cfg.Kernel.SnapshotInterval)
	}
	if cfg.Kernel.DefaultSeed != defaultSeed {
		t.Fatalf("expected untouched default seed, got %d", cfg.Kernel.DefaultSeed)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DEFAULT_SEED=777\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Kernel.DefaultSeed != 777 {
		t.Fatalf("expected seed from .env, got %d", cfg.Kernel.DefaultSeed)
	}
	os.Unsetenv("DEFAULT_SEED")
}

func TestLoadDomainFilesKeyedByBasename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fraud_detection.yaml", "alert_threshold: 0.85\n")
	writeFile(t, dir, "aml_screening.yml", "sanctions_lists:\n  - ofac\n")
	writeFile(t, dir, "README.md", "not a domain file\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := cfg.Domains.Domain("fraud_detection"); !ok {
		t.Fatalf("expected fraud_detection domain to be loaded")
	}
	if _, ok := cfg.Domains.Domain("aml_screening"); !ok {
		t.Fatalf("expected aml_screening domain to be loaded")
	}
	if _, ok := cfg.Domains.Domain("README"); ok {
		t.Fatalf("non-yaml files must not be loaded as domains")
	}
	if _, ok := cfg.Domains.Domain("kernel"); ok {
		t.Fatalf("kernel.yaml must not also appear as a domain entry")
	}
}

func TestDomainMissingReturnsFalse(t *testing.T) {
	d := Domains{}
	if _, ok := d.Domain("nonexistent"); ok {
		t.Fatalf("expected missing domain to report false")
	}
}
