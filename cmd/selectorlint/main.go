package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// findingsError signals a run that completed but reported diagnostics.
type findingsError struct {
	count int
}

func (e *findingsError) Error() string {
	return fmt.Sprintf("%d selector problems found", e.count)
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "selectorlint",
		Usage:   "Lint By.css locators against a selector policy",
		Version: version,
		Description: `selectorlint finds By.css(...) calls in JavaScript and TypeScript test code
and reports selectors that depend on classes, bare tags or IDs.

Supports: .js .mjs .cjs .jsx .ts .mts .cts .tsx`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SELECTORLINT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the diagnostics cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print files that could not be analyzed",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			checkCmd(),
			watchCmd(),
			rulesCmd(),
			configCmd(),
			initCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		var findings *findingsError
		if !errors.As(err, &findings) {
			notify(os.Stderr, output.Failure, "Error: %v", err)
		}
		os.Exit(1)
	}
}

// loadConfig loads the config named by --config, or searches for one.
func loadConfig(c *cli.Context, opts ...config.LoadOption) (*config.LoadResult, error) {
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return config.LoadConfig(opts...)
}

// applyGlobalFlags applies global flags that override the config.
func applyGlobalFlags(c *cli.Context, cfg *config.Config) {
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
}

// newFormatter resolves --format against the config default.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	colored := cfg.Output.Color && !color.NoColor
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}

// notify writes a status line. Commands that render reports send status to
// the error stream so redirected output stays machine-readable.
func notify(w io.Writer, level output.Level, format string, args ...any) {
	output.Notice(w, !color.NoColor, level, format, args...)
}

// verboseHandler returns an error callback that reports skipped files on
// stderr when --verbose is set.
func verboseHandler(c *cli.Context) func(path string, err error) {
	if !c.Bool("verbose") {
		return nil
	}
	return func(path string, err error) {
		notify(c.App.ErrWriter, output.Warning, "skipped %s: %v", path, err)
	}
}
