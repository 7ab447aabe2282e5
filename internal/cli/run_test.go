package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/store"
	"github.com/roach88/mvsync/internal/testutil"
)

// headlessRun runs the todo list with scripted terminal input and no
// terminal output.
func headlessRun(t *testing.T, opts *RunOptions, input, journal string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts.ProgramOptions = []tea.ProgramOption{
		tea.WithInput(strings.NewReader(input)),
		tea.WithOutput(io.Discard),
	}
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(out)
	opts.Journal = journal
	err := runTodo(opts, cmd)
	return out.String(), err
}

func TestRun_QuitsOnCtrlC(t *testing.T) {
	opts := &RunOptions{RootOptions: testRootOptions(t, "text")}

	out, err := headlessRun(t, opts, "\x03", "")
	require.NoError(t, err)
	assert.Empty(t, out, "nothing is printed without a journal")
}

func TestRun_JournalsSession(t *testing.T) {
	path := journalPath(t)
	opts := &RunOptions{
		RootOptions:      testRootOptions(t, "text"),
		SessionGenerator: testutil.NewFixedSessionGenerator("run-1"),
	}

	out, err := headlessRun(t, opts, "\x03", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Session run-1 journaled to "+path)

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	sessions, err := st.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "run-1", sessions[0].Token)
	assert.Positive(t, sessions[0].Ticks, "the bootstrap tick is journaled")

	// The recorded session replays cleanly.
	cmd := NewReplayCommand(testRootOptions(t, "text"))
	replayOut, err := execute(t, cmd, "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, replayOut, "✓ Session: run-1")
}

func TestRun_JournalFromConfig(t *testing.T) {
	path := journalPath(t)
	opts := &RunOptions{RootOptions: testRootOptions(t, "text")}
	opts.Config.Journal.Path = path

	_, err := headlessRun(t, opts, "\x03", "")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "journal.path is used when --journal is absent")
}

func TestRun_BadJournalPath(t *testing.T) {
	opts := &RunOptions{RootOptions: testRootOptions(t, "text")}

	_, err := headlessRun(t, opts, "\x03", filepath.Join(t.TempDir(), "no", "such", "dir", "j.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open journal")
}

func TestRun_LogsToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mvsync.log")
	opts := &RunOptions{RootOptions: testRootOptions(t, "text")}
	opts.Config.Log.File = logPath

	_, err := headlessRun(t, opts, "\x03", "")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "engine starting")
}

func TestRun_RejectsArgs(t *testing.T) {
	cmd := NewRunCommand(testRootOptions(t, "text"))

	_, err := execute(t, cmd, "extra")
	require.Error(t, err)
}
