package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/internal/service/lint"
	"github.com/panbanda/selectorlint/pkg/source"
	"github.com/panbanda/selectorlint/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-check them",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a changed file is checked",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	applyGlobalFlags(c, cfg)

	absPath, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, err := lint.New(lint.WithConfig(cfg))
	if err != nil {
		return err
	}
	formatter := output.NewWriterFormatter(output.FormatText, os.Stdout, cfg.Output.Color && !color.NoColor)
	onError := verboseHandler(c)

	watcher, err := watch.NewWatcher(absPath, cfg,
		watch.WithDebounce(c.Duration("debounce")),
		watch.WithCallback(func(paths []string) {
			result, err := svc.CheckFiles(ctx, paths, source.NewFilesystem(), onError)
			if err != nil {
				notify(c.App.ErrWriter, output.Failure, "Check failed: %v", err)
				return
			}
			if err := formatter.Output(output.NewDiagnosticsReport(result)); err != nil {
				notify(c.App.ErrWriter, output.Failure, "Output failed: %v", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
