package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the gavel configuration.
type Config struct {
	RulePacks      []string    `yaml:"rulePacks,omitempty"`
	Categories     []string    `yaml:"categories,omitempty"`
	Format         string      `yaml:"format"`
	DiffOnly       bool        `yaml:"diffOnly"`
	MaxParallelism int         `yaml:"maxParallelism"`
	ContextLines   int         `yaml:"contextLines"`
	Include        []string    `yaml:"include,omitempty"`
	Exclude        []string    `yaml:"exclude,omitempty"`
	LogLevel       string      `yaml:"logLevel"`
	Cache          CacheConfig `yaml:"cache"`
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:         "text",
		DiffOnly:       true,
		MaxParallelism: 4,
		ContextLines:   3,
		Exclude:        []string{"vendor/**", "**/*.gen.go", "**/dist/**", "**/node_modules/**"},
		LogLevel:       "warn",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
	}
}

// Dir returns the platform-appropriate config directory for gavel.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gavel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gavel"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gavel"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gavel"), nil
	default:
		return filepath.Join(home, ".config", "gavel"), nil
	}
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from the config file. A missing file is not an
// error; it yields a zero Config.
func LoadFile() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags; only set keys apply.
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.RulePacks) > 0 {
		dst.RulePacks = src.RulePacks
	}
	if len(src.Categories) > 0 {
		dst.Categories = src.Categories
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.MaxParallelism > 0 {
		dst.MaxParallelism = src.MaxParallelism
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("GAVEL_RULE_PACKS"); v != "" {
		cfg.RulePacks = splitList(v)
	}
	if v := os.Getenv("GAVEL_CATEGORIES"); v != "" {
		cfg.Categories = splitList(v)
	}
	if v := os.Getenv("GAVEL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("GAVEL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GAVEL_MAX_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxParallelism = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["rulePacks"]; ok && v != "" {
		cfg.RulePacks = splitList(v)
	}
	if v, ok := overrides["categories"]; ok && v != "" {
		cfg.Categories = splitList(v)
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["diffOnly"]; ok && v != "" {
		cfg.DiffOnly = v == "true"
	}
	if v, ok := overrides["maxParallelism"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxParallelism = n
		}
	}
	if v, ok := overrides["contextLines"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContextLines = n
		}
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.LogLevel = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetField sets a single config field by key name, for `gavel config set`.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "rulePacks":
		cfg.RulePacks = splitList(value)
	case "categories":
		cfg.Categories = splitList(value)
	case "format":
		cfg.Format = value
	case "diffOnly":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("diffOnly must be a boolean: %w", err)
		}
		cfg.DiffOnly = b
	case "maxParallelism":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxParallelism must be an integer: %w", err)
		}
		cfg.MaxParallelism = n
	case "contextLines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("contextLines must be an integer: %w", err)
		}
		cfg.ContextLines = n
	case "logLevel":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
