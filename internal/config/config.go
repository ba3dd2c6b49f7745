package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Region         string      `toml:"region"`
	Toolsets       []string    `toml:"toolsets"`
	ReadOnly       bool        `toml:"read_only"`
	LogLevel       string      `toml:"log_level"`
	VerifyIdentity bool        `toml:"verify_identity"`
	Cache          CacheConfig `toml:"cache"`
	Audit          AuditConfig `toml:"audit"`
}

type CacheConfig struct {
	// TTL for cached list results; zero disables response caching.
	ListTTLSeconds int `toml:"list_ttl_seconds"`
}

type AuditConfig struct {
	// Mirror streams every audit entry as a JSON line to stderr.
	Mirror bool `toml:"mirror"`
}

type Overrides struct {
	Region   *string
	Toolsets *[]string
	ReadOnly *bool
	LogLevel *string
}

func DefaultConfig() Config {
	return Config{
		Toolsets: []string{"storage", "compute"},
		LogLevel: "info",
	}
}

// Load merges, in order: defaults, the named file, drop-in files from dir
// (sorted by name), and explicit overrides.
func Load(path string, dir string, overrides Overrides) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		merge(&cfg, fileCfg)
	}

	if dir != "" {
		files, err := dropInFiles(dir)
		if err != nil {
			return cfg, err
		}
		for _, file := range files {
			fileCfg, err := readFile(file)
			if err != nil {
				return cfg, err
			}
			merge(&cfg, fileCfg)
		}
	}

	applyOverrides(&cfg, overrides)
	return cfg, nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func dropInFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func merge(dst *Config, src Config) {
	if src.Region != "" {
		dst.Region = src.Region
	}
	if len(src.Toolsets) > 0 {
		dst.Toolsets = append([]string{}, src.Toolsets...)
	}
	if src.ReadOnly {
		dst.ReadOnly = src.ReadOnly
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.VerifyIdentity {
		dst.VerifyIdentity = src.VerifyIdentity
	}
	if src.Cache.ListTTLSeconds > 0 {
		dst.Cache.ListTTLSeconds = src.Cache.ListTTLSeconds
	}
	if src.Audit.Mirror {
		dst.Audit.Mirror = src.Audit.Mirror
	}
}

func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.Region != nil {
		cfg.Region = *overrides.Region
	}
	if overrides.Toolsets != nil {
		cfg.Toolsets = append([]string{}, (*overrides.Toolsets)...)
	}
	if overrides.ReadOnly != nil {
		cfg.ReadOnly = *overrides.ReadOnly
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
}
