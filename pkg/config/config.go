// Package config loads selectorlint settings from TOML, YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/panbanda/selectorlint/pkg/selector"
)

// ErrInvalidConfig is returned when a config value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatTOON     = "toon"
)

// Config holds all configuration options for selectorlint.
type Config struct {
	// Rule options for no-classes-by-css
	Policy selector.Policy `koanf:"policy" toml:"policy" yaml:"policy" json:"policy"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`

	// Analysis limits
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output" json:"output"`

	// Per-file result cache
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache" json:"cache"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore" json:"gitignore"`
}

// AnalysisConfig bounds the work done per run.
type AnalysisConfig struct {
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size" yaml:"max_file_size" json:"max_file_size"` // bytes, 0 = unlimited
	Workers     int   `koanf:"workers" toml:"workers" yaml:"workers" json:"workers"`                         // 0 = 2x NumCPU
}

// CacheConfig controls the per-file diagnostics cache.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Dir      string `koanf:"dir" toml:"dir" yaml:"dir" json:"dir"`
	TTLHours int    `koanf:"ttl_hours" toml:"ttl_hours" yaml:"ttl_hours" json:"ttl_hours"` // 0 = never expires
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format" json:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color" json:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Policy: selector.DefaultPolicy(),
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.bundle.js",
				"*.d.ts",
			},
			Dirs: []string{
				"node_modules",
				".git",
				"dist",
				"build",
				"coverage",
				".selectorlint",
			},
			Gitignore: true,
		},
		Analysis: AnalysisConfig{
			MaxFileSize: 1 << 20,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
		Cache: CacheConfig{
			Dir:      ".selectorlint/cache",
			TTLHours: 24 * 7,
		},
	}
}

// Validate checks the non-policy sections. Policy options are validated
// against the options schema while loading.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatTOON:
	default:
		return fmt.Errorf("%w: output.format %q (want text, json, markdown or toon)", ErrInvalidConfig, c.Output.Format)
	}
	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("%w: analysis.max_file_size must be >= 0", ErrInvalidConfig)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: analysis.workers must be >= 0", ErrInvalidConfig)
	}
	if c.Cache.TTLHours < 0 {
		return fmt.Errorf("%w: cache.ttl_hours must be >= 0", ErrInvalidConfig)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("%w: cache.dir is required when the cache is enabled", ErrInvalidConfig)
	}
	return nil
}

// LoadResult is a loaded config and where it came from.
type LoadResult struct {
	Config *Config
	// Source is the file the config was read from, or "" for defaults.
	Source string
}

type loadOptions struct {
	path      string
	overrides map[string]any
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads from path instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithPolicyOverrides merges rule options over the file's policy section.
// Keys use the option names (allowIds, allowTags, disallowClasses).
func WithPolicyOverrides(overrides map[string]any) LoadOption {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any, len(overrides))
		}
		for k, v := range overrides {
			o.overrides[k] = v
		}
	}
}

// LoadConfig loads configuration. Without WithPath it searches the
// standard locations and falls back to defaults. The merged policy section
// is rejected with selector.ErrInvalidOptions if it has unknown keys or
// non-boolean values.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	path := o.path
	if path == "" {
		path = Find()
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	for key, v := range o.overrides {
		if err := k.Set("policy."+key, v); err != nil {
			return nil, fmt.Errorf("applying option %s: %w", key, err)
		}
	}

	if err := selector.ValidateOptions(k.Get("policy")); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &LoadResult{Config: cfg, Source: path}, nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	result, err := LoadConfig(WithPath(path))
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Standard config file names, in search order.
var configNames = []string{
	"selectorlint.toml",
	"selectorlint.yaml",
	"selectorlint.yml",
	"selectorlint.json",
	".selectorlint.toml",
	".selectorlint.yaml",
	".selectorlint.yml",
	".selectorlint.json",
}

// Find returns the first config file in the standard locations, or "".
func Find() string {
	// Search in current directory and .selectorlint directory
	for _, dir := range []string{".", ".selectorlint"} {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	path = filepath.ToSlash(path)

	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, "/"+dir+"/") || strings.HasPrefix(path, dir+"/") {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
