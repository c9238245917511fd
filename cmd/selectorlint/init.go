package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a selectorlint.toml with the default settings",
		Description: `Creates a new selectorlint.toml configuration file in the current directory
with the default policy. Use --file to pick a different location.

Examples:
  selectorlint init                                # Creates selectorlint.toml
  selectorlint init --file .selectorlint/selectorlint.toml
  selectorlint init --force                        # Overwrite existing config file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Value: "selectorlint.toml",
				Usage: "Config file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	outputPath := c.String("file")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	notify(c.App.Writer, output.Success, "Created %s", outputPath)
	fmt.Fprintln(c.App.Writer, "Edit this file to change the selector policy.")
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# selectorlint configuration\n")
	buf.WriteString("# policy keys: allowIds, allowTags, disallowClasses\n\n")
	buf.Write(content)
	return buf.String(), nil
}
