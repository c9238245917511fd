package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a selectorlint configuration file for syntax errors, unknown
rule options and invalid values.

Examples:
  selectorlint config validate                        # Validates default config locations
  selectorlint -c selectorlint.toml config validate   # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "as",
						Value: "toml",
						Usage: "Encoding: toml, yaml, or json",
					},
				},
				Action: runConfigShow,
			},
		},
	}
}

func runConfigValidate(c *cli.Context) error {
	result, err := loadConfig(c)
	if err != nil {
		notify(c.App.Writer, output.Failure, "Configuration validation failed:")
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		notify(c.App.Writer, output.Success, "Configuration valid: %s", result.Source)
	} else {
		notify(c.App.Writer, output.Warning, "No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	result, err := loadConfig(c)
	if err != nil {
		return err
	}

	as := c.String("as")
	if as != "json" {
		if result.Source != "" {
			fmt.Fprintf(c.App.Writer, "# Configuration from: %s\n\n", result.Source)
		} else {
			fmt.Fprintln(c.App.Writer, "# Default configuration (no config file found)")
		}
	}
	return encodeConfig(c.App.Writer, result.Config, as)
}

// encodeConfig writes cfg in the given encoding.
func encodeConfig(w io.Writer, cfg *config.Config, as string) error {
	switch as {
	case "toml":
		content, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = w.Write(content)
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unknown encoding %q (want toml, yaml, or json)", as)
	}
}
