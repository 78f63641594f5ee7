package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/wayfind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func loggerApp(level string) *cli.App {
	return &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   level,
			},
			&cli.StringFlag{
				Name: "config",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error {
			return nil
		},
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				err := loggerApp("info").Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
				assert.True(t, slog.Default().Enabled(context.Background(), tc.expected))
				assert.False(t, slog.Default().Enabled(context.Background(), tc.expected-1))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				err := loggerApp("info").Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := loggerApp("info").Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := loggerApp("info").Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("config file level applies when flag is unset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0644))

		err := loggerApp("info").Run([]string{"test", "--config", path})
		require.NoError(t, err)
		assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("flag wins over config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0644))

		err := loggerApp("info").Run([]string{"test", "--config", path, "-l", "debug"})
		require.NoError(t, err)
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestParseFilters(t *testing.T) {
	t.Run("none enables all", func(t *testing.T) {
		f, err := parseFilters(nil)
		require.NoError(t, err)
		assert.Equal(t, core.AllFilters(), f)
	})

	t.Run("comma separated and repeated", func(t *testing.T) {
		f, err := parseFilters([]string{"apps, Files", "settings"})
		require.NoError(t, err)
		assert.Equal(t, core.Filters{Apps: true, Files: true, Settings: true}, f)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := parseFilters([]string{"apps,music"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "music")
	})
}

func TestPrintResults(t *testing.T) {
	best := core.NewItem("Notepad", core.KindApp, core.SourceShortcut, core.PathTarget("/apps/Notepad.lnk"))
	rs := &core.ResultSet{
		BestMatch: &best,
		Apps:      []core.Item{core.NewItem("Calculator", core.KindApp, core.SourcePackage, core.PackageTarget("Calc!App"))},
	}

	var buf bytes.Buffer
	printResults(&buf, rs)
	out := buf.String()
	assert.Contains(t, out, "Best match: Notepad")
	assert.Contains(t, out, "Apps:\n  Calculator\tCalc!App\n")
	assert.NotContains(t, out, "Files:")
}

func runApp(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"wayfind", "--config", configPath}, args...))
	return buf.String(), err
}

func TestFolderCommands(t *testing.T) {
	t.Setenv("WAYFIND_DATA_DIR", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "missing.yaml")
	root := t.TempDir()

	out, err := runApp(t, configPath, "add-folder", root)
	require.NoError(t, err)
	assert.Equal(t, "Indexed "+root+"\n", out)

	out, err = runApp(t, configPath, "folders")
	require.NoError(t, err)
	assert.Equal(t, root+"\n", out)

	_, err = runApp(t, configPath, "add-folder", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already indexed")

	_, err = runApp(t, configPath, "remove-folder", root)
	require.NoError(t, err)

	out, err = runApp(t, configPath, "folders")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCommandValidation(t *testing.T) {
	t.Setenv("WAYFIND_DATA_DIR", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("add-folder requires a path", func(t *testing.T) {
		_, err := runApp(t, configPath, "add-folder")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "folder path is required")
	})

	t.Run("launch requires text", func(t *testing.T) {
		_, err := runApp(t, configPath, "launch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text is required")
	})

	t.Run("query rejects unknown category", func(t *testing.T) {
		_, err := runApp(t, configPath, "query", "--only", "music", "note")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})

	t.Run("empty history", func(t *testing.T) {
		out, err := runApp(t, configPath, "history")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
