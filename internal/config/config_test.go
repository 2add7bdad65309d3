package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.DiffOnly)
	assert.Equal(t, 4, cfg.MaxParallelism)
	assert.Equal(t, 3, cfg.ContextLines)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 86400, cfg.Cache.TTLSeconds)
	assert.Contains(t, cfg.Exclude, "vendor/**")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	confDir := filepath.Join(dir, "gavel")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	file := `format: json
maxParallelism: 8
categories:
  - security
  - reliability
logLevel: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(file), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.MaxParallelism)
	assert.Equal(t, []string{"security", "reliability"}, cfg.Categories)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep defaults.
	assert.Equal(t, 3, cfg.ContextLines)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	confDir := filepath.Join(dir, "gavel")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("format: json\n"), 0o644))

	t.Setenv("GAVEL_FORMAT", "sarif")
	t.Setenv("GAVEL_CATEGORIES", "security, performance")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "sarif", cfg.Format)
	assert.Equal(t, []string{"security", "performance"}, cfg.Categories)
}

func TestLoad_FlagOverridesWin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GAVEL_FORMAT", "sarif")

	cfg, err := Load(map[string]string{
		"format":   "markdown",
		"diffOnly": "false",
	})
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Format)
	assert.False(t, cfg.DiffOnly)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	confDir := filepath.Join(dir, "gavel")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("format: [unterminated"), 0o644))

	_, err := Load(nil)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Format = "markdown"
	cfg.RulePacks = []string{"team.yaml"}
	require.NoError(t, Save(cfg))

	loaded, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "markdown", loaded.Format)
	assert.Equal(t, []string{"team.yaml"}, loaded.RulePacks)
}

func TestSetField(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{"format", "json", false, func(t *testing.T, cfg Config) {
			assert.Equal(t, "json", cfg.Format)
		}},
		{"diffOnly", "false", false, func(t *testing.T, cfg Config) {
			assert.False(t, cfg.DiffOnly)
		}},
		{"diffOnly", "maybe", true, nil},
		{"maxParallelism", "12", false, func(t *testing.T, cfg Config) {
			assert.Equal(t, 12, cfg.MaxParallelism)
		}},
		{"maxParallelism", "lots", true, nil},
		{"contextLines", "5", false, func(t *testing.T, cfg Config) {
			assert.Equal(t, 5, cfg.ContextLines)
		}},
		{"categories", "security,style", false, func(t *testing.T, cfg Config) {
			assert.Equal(t, []string{"security", "style"}, cfg.Categories)
		}},
		{"nonsense", "x", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := SetField(&cfg, tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a"}, splitList("a,,  "))
	assert.Nil(t, splitList(""))
}
