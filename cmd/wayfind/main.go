// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/wayfind"
	"github.com/poiesic/wayfind/config"
	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/progress"
	"github.com/poiesic/wayfind/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "wayfind",
		Usage: "Find and launch applications, settings, commands, folders and files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   config.DefaultPath(),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Rebuild the application list and cache missing icons",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh-icons",
						Usage: "Discard cached icons and extract them again",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report icon progress every N items",
						Value: 10,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search every enabled category",
				ArgsUsage: "<text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "only",
						Usage: "Restrict results to categories (apps, commands, settings, folders, files)",
					},
				},
			},
			{
				Name:      "launch",
				Usage:     "Launch the best match for a query",
				ArgsUsage: "<text>",
				Action:    launchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "elevated",
						Usage: "Run with administrator rights",
					},
					&cli.StringSliceFlag{
						Name:  "only",
						Usage: "Restrict matching to categories (apps, commands, settings, folders, files)",
					},
				},
			},
			{
				Name:      "add-folder",
				Usage:     "Index a folder for file and folder search",
				ArgsUsage: "<path>",
				Action:    addFolderCommand,
			},
			{
				Name:      "remove-folder",
				Usage:     "Stop indexing a folder",
				ArgsUsage: "<path>",
				Action:    removeFolderCommand,
			},
			{
				Name:   "folders",
				Usage:  "List indexed folders",
				Action: foldersCommand,
			},
			{
				Name:   "history",
				Usage:  "Show launch history, most recent first",
				Action: historyCommand,
			},
		},
	}
}

func openLauncher(c *cli.Context, opts ...wayfind.Option) (*wayfind.Launcher, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, wayfind.WithLogger(slog.Default()))
	l, err := wayfind.New(c.Context, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open launcher: %w", err)
	}
	return l, nil
}

func closeLauncher(l *wayfind.Launcher) {
	if err := l.Close(); err != nil {
		slog.Error("failed to close launcher", "err", err)
	}
}

func indexCommand(c *cli.Context) error {
	l, err := openLauncher(c, wayfind.WithoutWatcher())
	if err != nil {
		return err
	}
	defer closeLauncher(l)

	if err := l.Reload(c.Context); err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d applications\n", len(l.Items()))

	stream := l.IconProgress()
	if c.Bool("refresh-icons") {
		// Let the reload's run settle before the map is cleared.
		if err := stream.Wait(); err != nil {
			slog.Debug("icon run ended early", "err", err)
		}
		stream = l.RefreshIcons(c.Context)
	}
	if stream.Total() == 0 {
		return stream.Wait()
	}

	tracker := progress.NewTracker(c.App.Writer, "Icons", stream.Total(), c.Int("report-interval"))
	if err := tracker.Follow(stream); err != nil {
		return fmt.Errorf("icon caching stopped: %w", err)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	raw := strings.Join(c.Args().Slice(), " ")
	filters, err := parseFilters(c.StringSlice("only"))
	if err != nil {
		return err
	}

	rs, err := reloadAndQuery(c, raw, filters)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, rs)
	return nil
}

func launchCommand(c *cli.Context) error {
	raw := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("query text is required")
	}
	filters, err := parseFilters(c.StringSlice("only"))
	if err != nil {
		return err
	}

	l, err := openLauncher(c, wayfind.WithoutWatcher())
	if err != nil {
		return err
	}
	defer closeLauncher(l)

	ctx := c.Context
	if err := l.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}
	rs, err := l.Query(ctx, raw, filters)
	if err != nil {
		return err
	}
	if rs.BestMatch == nil {
		return fmt.Errorf("nothing matches %q", raw)
	}

	ok, msg := l.Launch(ctx, *rs.BestMatch, c.Bool("elevated"))
	if !ok {
		return fmt.Errorf("%s", msg)
	}
	fmt.Fprintln(c.App.Writer, msg)
	return nil
}

func reloadAndQuery(c *cli.Context, raw string, filters core.Filters) (*core.ResultSet, error) {
	var monitor search.QueryMonitor
	if slog.Default().Enabled(c.Context, slog.LevelDebug) {
		monitor = &search.LogMonitor{Logger: slog.Default()}
	}
	l, err := openLauncher(c, wayfind.WithoutWatcher(), wayfind.WithMonitor(monitor))
	if err != nil {
		return nil, err
	}
	defer closeLauncher(l)

	if err := l.Reload(c.Context); err != nil {
		return nil, fmt.Errorf("failed to reload: %w", err)
	}
	return l.Query(c.Context, raw, filters)
}

func addFolderCommand(c *cli.Context) error {
	return folderCommand(c, (*wayfind.Launcher).AddFolder)
}

func removeFolderCommand(c *cli.Context) error {
	return folderCommand(c, (*wayfind.Launcher).RemoveFolder)
}

func folderCommand(c *cli.Context, op func(*wayfind.Launcher, context.Context, string) (bool, string)) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("folder path is required")
	}

	l, err := openLauncher(c, wayfind.WithoutWatcher())
	if err != nil {
		return err
	}
	defer closeLauncher(l)

	ok, msg := op(l, c.Context, path)
	if !ok {
		return fmt.Errorf("%s", msg)
	}
	fmt.Fprintln(c.App.Writer, msg)
	return nil
}

func foldersCommand(c *cli.Context) error {
	l, err := openLauncher(c, wayfind.WithoutWatcher())
	if err != nil {
		return err
	}
	defer closeLauncher(l)

	for _, folder := range l.Folders() {
		fmt.Fprintln(c.App.Writer, folder)
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	l, err := openLauncher(c, wayfind.WithoutWatcher())
	if err != nil {
		return err
	}
	defer closeLauncher(l)

	names, err := l.History(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	for i, name := range names {
		fmt.Fprintf(c.App.Writer, "%3d. %s\n", i+1, name)
	}
	return nil
}

// parseFilters maps category names to Filters. No names enables everything.
func parseFilters(names []string) (core.Filters, error) {
	if len(names) == 0 {
		return core.AllFilters(), nil
	}

	var f core.Filters
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "apps":
				f.Apps = true
			case "commands":
				f.Commands = true
			case "settings":
				f.Settings = true
			case "folders":
				f.Folders = true
			case "files":
				f.Files = true
			case "":
			default:
				return core.Filters{}, fmt.Errorf("unknown category %q: must be one of apps, commands, settings, folders, files", part)
			}
		}
	}
	return f, nil
}

func printResults(w io.Writer, rs *core.ResultSet) {
	if rs.BestMatch != nil {
		fmt.Fprintf(w, "Best match: %s (%s)\n", rs.BestMatch.Name, rs.BestMatch.Kind)
	}
	for _, group := range []struct {
		title string
		items []core.Item
	}{
		{"Apps", rs.Apps},
		{"Commands", rs.Commands},
		{"Settings", rs.Settings},
		{"Folders", rs.Folders},
		{"Files", rs.Files},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", group.title)
		for _, item := range group.items {
			fmt.Fprintf(w, "  %s\t%s\n", item.Name, target(item))
		}
	}
}

func target(item core.Item) string {
	if path, ok := item.Path(); ok {
		return path
	}
	id, _ := item.PackageID()
	return id
}

// setupLogger configures the default slog logger. An explicit --log-level
// wins over the configuration file's log_level.
func setupLogger(c *cli.Context) error {
	levelStr := c.String("log-level")
	if !c.IsSet("log-level") {
		if cfg, err := config.Load(c.String("config")); err == nil && cfg.LogLevel != "" {
			levelStr = cfg.LogLevel
		}
	}
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
