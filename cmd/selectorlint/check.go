package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/internal/progress"
	"github.com/panbanda/selectorlint/internal/remote"
	"github.com/panbanda/selectorlint/internal/service/lint"
	"github.com/panbanda/selectorlint/pkg/analyzer"
	"github.com/panbanda/selectorlint/pkg/config"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"lint"},
		Usage:     "Check By.css selectors in JavaScript and TypeScript files",
		ArgsUsage: "[path|owner/repo[@ref]...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-fail",
				Usage: "Exit 0 even when problems are found",
			},
			&cli.BoolFlag{
				Name:  "changed",
				Usage: "Only check files changed in the git worktree",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Check files as they are at a git revision",
			},
			&cli.StringFlag{
				Name:  "options",
				Usage: `Rule options as JSON, e.g. '{"allowIds": true}'`,
			},
			&cli.BoolFlag{
				Name:  "allow-ids",
				Usage: "Allow single ID selectors",
			},
			&cli.BoolFlag{
				Name:  "allow-tags",
				Usage: "Allow bare tag selectors",
			},
			&cli.BoolFlag{
				Name:  "allow-classes",
				Usage: "Allow class selectors",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
		},
		Action: runCheckCmd,
	}
}

// policyOverrides merges --options with the individual policy flags.
// Flags win over keys in --options.
func policyOverrides(c *cli.Context) (map[string]any, error) {
	overrides := make(map[string]any)
	if raw := c.String("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			return nil, fmt.Errorf("invalid --options: %w", err)
		}
	}
	if c.IsSet("allow-ids") {
		overrides["allowIds"] = c.Bool("allow-ids")
	}
	if c.IsSet("allow-tags") {
		overrides["allowTags"] = c.Bool("allow-tags")
	}
	if c.IsSet("allow-classes") {
		overrides["disallowClasses"] = !c.Bool("allow-classes")
	}
	return overrides, nil
}

func runCheckCmd(c *cli.Context) error {
	overrides, err := policyOverrides(c)
	if err != nil {
		return err
	}
	loaded, err := loadConfig(c, config.WithPolicyOverrides(overrides))
	if err != nil {
		return err
	}
	cfg := loaded.Config
	applyGlobalFlags(c, cfg)

	if c.IsSet("changed") && c.IsSet("ref") {
		return fmt.Errorf("--changed and --ref cannot be combined")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	paths, cleanup, err := resolveRemotes(ctx, getPaths(c), c.App.ErrWriter, c.Bool("verbose"), c.String("ref") == "")
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := lint.New(lint.WithConfig(cfg))
	if err != nil {
		return err
	}
	target, err := svc.Resolve(paths, lint.CheckOptions{
		Changed: c.Bool("changed"),
		Ref:     c.String("ref"),
	})
	if err != nil {
		return err
	}
	if len(target.Files) == 0 {
		notify(c.App.ErrWriter, output.Warning, "No JavaScript or TypeScript files found")
		return nil
	}

	var tracker *progress.Tracker
	if !c.Bool("no-progress") && len(target.Files) > 1 {
		tracker = progress.NewTracker("Checking selectors...", len(target.Files))
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(tracker.Callback()))
	}

	result, err := svc.CheckFiles(ctx, target.Files, target.Source, verboseHandler(c))
	if tracker != nil {
		if err != nil {
			tracker.FinishError(err)
		} else {
			tracker.FinishSuccess()
		}
	}
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(output.NewDiagnosticsReport(result)); err != nil {
		return err
	}

	if n := result.Summary.TotalDiagnostics; n > 0 && !c.Bool("no-fail") {
		return &findingsError{count: n}
	}
	return nil
}

// resolveRemotes clones arguments that name remote repositories and
// returns the paths to check. cleanup removes the clones. Clone progress
// goes to status.
func resolveRemotes(ctx context.Context, paths []string, status io.Writer, verbose, shallow bool) ([]string, func(), error) {
	var clones []*remote.Source
	cleanup := func() {
		for _, src := range clones {
			_ = src.Cleanup()
		}
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		src, err := remote.Parse(p)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if src == nil {
			out = append(out, p)
			continue
		}

		progress := io.Discard
		if verbose {
			progress = status
		}
		notify(status, output.Info, "Cloning %s...", src.URL)
		if err := src.Clone(ctx, progress, shallow); err != nil {
			cleanup()
			return nil, nil, err
		}
		clones = append(clones, src)
		out = append(out, src.CloneDir)
	}
	return out, cleanup, nil
}
