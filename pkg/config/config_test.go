package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/selectorlint/pkg/selector"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, selector.DefaultPolicy(), cfg.Policy)
	assert.False(t, cfg.Policy.AllowIDs)
	assert.False(t, cfg.Policy.AllowTags)
	assert.True(t, cfg.Policy.DisallowClasses)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.Contains(t, cfg.Exclude.Dirs, "node_modules")
	assert.Equal(t, int64(1<<20), cfg.Analysis.MaxFileSize)
	assert.Equal(t, 0, cfg.Analysis.Workers)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, ".selectorlint/cache", cfg.Cache.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "selectorlint.toml", `
[policy]
allowIds = true
disallowClasses = false

[exclude]
dirs = ["vendor", "fixtures"]
patterns = ["*.generated.js"]

[analysis]
max_file_size = 2048
workers = 4

[output]
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Policy.AllowIDs)
	assert.False(t, cfg.Policy.AllowTags)
	assert.False(t, cfg.Policy.DisallowClasses)
	assert.Equal(t, []string{"vendor", "fixtures"}, cfg.Exclude.Dirs)
	assert.Equal(t, []string{"*.generated.js"}, cfg.Exclude.Patterns)
	assert.Equal(t, int64(2048), cfg.Analysis.MaxFileSize)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "selectorlint.yaml", `
policy:
  allowTags: true
output:
  format: markdown
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Policy.AllowTags)
	assert.True(t, cfg.Policy.DisallowClasses, "unset keys keep defaults")
	assert.Equal(t, FormatMarkdown, cfg.Output.Format)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, ".selectorlint.json", `{
  "policy": {"allowIds": true, "allowTags": true, "disallowClasses": true},
  "output": {"format": "toon", "color": false}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, selector.Policy{AllowIDs: true, AllowTags: true, DisallowClasses: true}, cfg.Policy)
	assert.Equal(t, FormatTOON, cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key toml", "c.toml", "[policy]\nallowClasses = true\n"},
		{"string value toml", "c.toml", "[policy]\nallowIds = \"yes\"\n"},
		{"int value yaml", "c.yaml", "policy:\n  allowTags: 1\n"},
		{"array policy json", "c.json", `{"policy": [true]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, selector.ErrInvalidOptions), "got %v", err)
		})
	}
}

func TestLoad_InvalidSections(t *testing.T) {
	path := writeConfig(t, "c.toml", "[output]\nformat = \"xml\"\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	path = writeConfig(t, "c.toml", "[analysis]\nworkers = -1\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	path = writeConfig(t, "c.toml", "[cache]\nttl_hours = -1\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	path = writeConfig(t, "c.toml", "[cache]\nenabled = true\ndir = \"\"\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadCacheSection(t *testing.T) {
	path := writeConfig(t, "selectorlint.toml", "[cache]\nenabled = true\ndir = \"/tmp/sl\"\nttl_hours = 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CacheConfig{Enabled: true, Dir: "/tmp/sl", TTLHours: 2}, cfg.Cache)
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/selectorlint.toml")
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "selectorlint.toml", "[policy\ninvalid toml")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, "selectorlint.toml", "[policy]\nallowIds = false\nallowTags = true\n")

	result, err := LoadConfig(
		WithPath(path),
		WithPolicyOverrides(map[string]any{"allowIds": true}),
		WithPolicyOverrides(map[string]any{"disallowClasses": false}),
	)
	require.NoError(t, err)

	assert.Equal(t, path, result.Source)
	assert.Equal(t, selector.Policy{AllowIDs: true, AllowTags: true, DisallowClasses: false}, result.Config.Policy)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadConfig(WithPolicyOverrides(map[string]any{"allowEverything": true}))
	assert.ErrorIs(t, err, selector.ErrInvalidOptions)

	_, err = LoadConfig(WithPolicyOverrides(map[string]any{"allowIds": "true"}))
	assert.ErrorIs(t, err, selector.ErrInvalidOptions)
}

func TestLoadConfig_Search(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	result, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "", result.Source)
	assert.Equal(t, DefaultConfig(), result.Config)

	require.NoError(t, os.MkdirAll(".selectorlint", 0755))
	require.NoError(t, os.WriteFile(filepath.Join(".selectorlint", "selectorlint.yml"), []byte("policy:\n  allowIds: true\n"), 0644))

	result, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".selectorlint", "selectorlint.yml"), result.Source)
	assert.True(t, result.Config.Policy.AllowIDs)

	// The working directory wins over .selectorlint/.
	require.NoError(t, os.WriteFile("selectorlint.toml", []byte("[policy]\nallowTags = true\n"), 0644))
	assert.Equal(t, "selectorlint.toml", Find())
	result, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, result.Config.Policy.AllowTags)
	assert.False(t, result.Config.Policy.AllowIDs)
}

func TestLoadConfig_DiscoveredFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"broken json", "selectorlint.json", "{"},
		{"unknown policy key", "selectorlint.toml", "[policy]\nbogusKey = true\nallowTags = true\n"},
		{"invalid output format", ".selectorlint.yaml", "output:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			require.NoError(t, os.WriteFile(tt.file, []byte(tt.content), 0644))

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path     string
		excluded bool
	}{
		{"src/login.spec.js", false},
		{"e2e/pages/home.ts", false},
		{"node_modules/foo/index.js", true},
		{"packages/app/node_modules/foo/index.js", true},
		{"dist/bundle.js", true},
		{"vendor/jquery.min.js", true},
		{"types/global.d.ts", true},
		{"src/distance.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, cfg.ShouldExclude(tt.path))
		})
	}
}
