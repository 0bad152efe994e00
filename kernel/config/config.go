// Package config loads the kernel's configuration surface: a directory
// of one self-describing YAML file per domain, plus an optional
// top-level kernel.yaml and .env overlay for the few scalar values the
// engine itself needs (snapshot interval, default seed, store path). The
// kernel defines no schema beyond "one file per domain". Domain documents
// are kept raw in Config.Domains; no subsystem constructor receives or
// parses them.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v2"

	"github.com/fincrime/thedesk/kernel/errors"
)

// Kernel holds the handful of scalar settings the engine reads directly,
// as opposed to the per-domain documents kept untouched in Domains.
type Kernel struct {
	SnapshotInterval uint64
	DefaultSeed      uint64
	StorePath        string
}

// Domains maps a domain name (the YAML file's base name, without
// extension) to its raw parsed document. The kernel never interprets
// these.
type Domains map[string]yaml.MapSlice

// Config is the fully loaded configuration surface for one engine build.
type Config struct {
	Kernel  Kernel
	Domains Domains
}

const (
	defaultSnapshotInterval = 10
	defaultSeed             = 42
	defaultStorePath        = ":memory:"
)

// Load reads every *.yaml file directly under dir as a domain document,
// an optional dir/kernel.yaml for kernel-level scalars, and layers a
// dir/.env file (if present) on top via godotenv, matching this
// codebase's existing config.Load() convention of .env under explicit
// values. Missing dir/.env is not an error; missing dir is.
func Load(dir string) (*Config, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Configuration("config directory %q: %v", dir, err)
	}
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &Config{
		Kernel: Kernel{
			SnapshotInterval: getEnvAsUint("SNAPSHOT_INTERVAL", defaultSnapshotInterval),
			DefaultSeed:      getEnvAsUint("DEFAULT_SEED", defaultSeed),
			StorePath:        getEnv("STORE_PATH", defaultStorePath),
		},
		Domains: Domains{},
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Configuration("read config directory %q: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		base := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Configuration("read %s: %v", name, err)
		}

		if base == "kernel" {
			if err := applyKernelOverrides(&cfg.Kernel, data); err != nil {
				return nil, err
			}
			continue
		}

		var doc yaml.MapSlice
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Configuration("parse %s: %v", name, err)
		}
		cfg.Domains[base] = doc
	}

	return cfg, nil
}

// kernelOverrides is the optional top-level kernel.yaml shape; any field
// left unset in the file keeps the .env/default value already in cfg.
type kernelOverrides struct {
	SnapshotInterval *uint64 `yaml:"snapshot_interval"`
	DefaultSeed      *uint64 `yaml:"default_seed"`
	StorePath        *string `yaml:"store_path"`
}

func applyKernelOverrides(k *Kernel, data []byte) error {
	var o kernelOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return errors.Configuration("parse kernel.yaml: %v", err)
	}
	if o.SnapshotInterval != nil {
		k.SnapshotInterval = *o.SnapshotInterval
	}
	if o.DefaultSeed != nil {
		k.DefaultSeed = *o.DefaultSeed
	}
	if o.StorePath != nil {
		k.StorePath = *o.StorePath
	}
	return nil
}

// Domain returns the raw document for a named domain, and whether it was
// present at all.
func (d Domains) Domain(name string) (yaml.MapSlice, bool) {
	doc, ok := d[name]
	return doc, ok
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
