package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/cache"
	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the diagnostics cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache size and entry ages",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached results",
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory whether or not caching is
// enabled for checks.
func openCache(c *cli.Context) (*cache.Cache, *config.Config, error) {
	loaded, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cfg := loaded.Config
	ch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLHours, true)
	if err != nil {
		return nil, nil, err
	}
	return ch, cfg, nil
}

func runCacheStats(c *cli.Context) error {
	ch, cfg, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Directory", stats.Dir},
		{"Enabled", fmt.Sprint(cfg.Cache.Enabled)},
		{"Entries", fmt.Sprint(stats.Entries)},
		{"Size", fmt.Sprintf("%d bytes", stats.TotalSize)},
		{"Oldest", stats.OldestAge.Round(time.Second).String()},
		{"Newest", stats.NewestAge.Round(time.Second).String()},
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(output.NewTable("Cache", []string{"Property", "Value"}, rows, nil, stats))
}

func runCacheClear(c *cli.Context) error {
	ch, _, err := openCache(c)
	if err != nil {
		return err
	}
	if err := ch.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	notify(c.App.Writer, output.Success, "Cleared %s", ch.Dir())
	return nil
}
