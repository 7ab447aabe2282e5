package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/store"
)

func TestReplayMissingJournalFlag(t *testing.T) {
	cmd := NewReplayCommand(testRootOptions(t, "text"))

	_, err := execute(t, cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayJournalNotFound(t *testing.T) {
	cmd := NewReplayCommand(testRootOptions(t, "text"))

	_, err := execute(t, cmd, "--journal", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "journal not found")
}

func TestReplayEmptyJournal(t *testing.T) {
	path := journalPath(t)
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	cmd := NewReplayCommand(testRootOptions(t, "text"))
	out, err := execute(t, cmd, "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestReplayAllSessions(t *testing.T) {
	path := journalPath(t)
	writeJournal(t, path, "s1")
	writeJournal(t, path, "s2")

	cmd := NewReplayCommand(testRootOptions(t, "text"))
	out, err := execute(t, cmd, "--journal", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Replay Summary: 2 session(s)")
	assert.Contains(t, out, "✓ Session: s1")
	assert.Contains(t, out, "✓ Session: s2")
	assert.Contains(t, out, "✓ All sessions verified deterministic")
}

func TestReplaySingleSessionJSON(t *testing.T) {
	path := journalPath(t)
	writeJournal(t, path, "s1")
	writeJournal(t, path, "s2")

	cmd := NewReplayCommand(testRootOptions(t, "json"))
	out, err := execute(t, cmd, "--journal", path, "--session", "s2")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Sessions, 1)

	s := resp.Data.Sessions[0]
	assert.Equal(t, "s2", s.Session)
	assert.True(t, s.Deterministic)
	assert.Positive(t, s.Ticks)
	assert.Equal(t, s.Ticks, s.Replayed)
}

func TestReplayUnknownSession(t *testing.T) {
	path := journalPath(t)
	writeJournal(t, path, "s1")

	cmd := NewReplayCommand(testRootOptions(t, "text"))
	_, err := execute(t, cmd, "--journal", path, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found: nope")
}

func TestReplayDivergesUnderOtherGlyphs(t *testing.T) {
	path := journalPath(t)
	writeJournal(t, path, "s1")

	// New todos show the unchecked glyph, so the snapshot changes.
	opts := testRootOptions(t, "text")
	opts.Config.UI.GlyphUnchecked = "( )"
	opts.Verbose = true

	cmd := NewReplayCommand(opts)
	out, err := execute(t, cmd, "--journal", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Session: s1")
	assert.Contains(t, out, "Diverged at tick")
	assert.Contains(t, out, "journaled:")
	assert.Contains(t, out, "✗ Determinism verification failed")
}
