package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mvsync", cmd.Use)
	assert.Contains(t, cmd.Long, "Models own the data")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"run", "test", "replay", "trace"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flags   []string
	}{
		{"run", []string{"journal"}},
		{"test", []string{"filter", "golden-dir"}},
		{"replay", []string{"journal", "session"}},
		{"trace", []string{"journal", "session", "skipped"}},
	}
	cmd := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)
			for _, f := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(f), "--%s", f)
			}
		})
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCommand()

	_, err := execute(t, cmd, "--format", "xml", "test", scenarioDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRoot_LoadsConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvConfig, "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  glyph_checked: \"[v]\"\n"), 0o644))

	path := journalPath(t)
	writeJournal(t, path, "s1")

	// The journal was written with stock glyphs; replaying under a config
	// with different glyphs must still check out, since the checked glyph
	// never appears in this session.
	cmd := NewRootCommand()
	out, err := execute(t, cmd, "--config", cfgPath, "replay", "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Session: s1")
}

func TestRoot_BadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCommand()
	_, err := execute(t, cmd, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "test", scenarioDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLogger_Levels(t *testing.T) {
	opts := testRootOptions(t, "text")

	assert.False(t, opts.Logger(io.Discard).Enabled(context.Background(), slog.LevelDebug), "info by default")

	opts.Verbose = true
	assert.True(t, opts.Logger(io.Discard).Enabled(context.Background(), slog.LevelDebug), "--verbose enables debug")

	opts.Verbose = false
	opts.Config.Log.Level = "error"
	assert.False(t, opts.Logger(io.Discard).Enabled(context.Background(), slog.LevelWarn))
}
