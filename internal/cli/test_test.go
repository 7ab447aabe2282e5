package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTest_AllScenariosPass(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "text"))

	out, err := execute(t, cmd, scenarioDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ submit_check_delete")
	assert.Contains(t, out, "✓ stale_after_delete")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "json"))

	out, err := execute(t, cmd, scenarioDir, "--filter", "edit*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)

	var names []string
	for _, s := range resp.Data.Scenarios {
		names = append(names, s.Name)
		assert.True(t, s.Pass)
		assert.Equal(t, s.Ticks, s.Replayed)
	}
	assert.ElementsMatch(t, []string{"edit_todo", "editing_focus"}, names)
}

func TestTest_GoldenDir(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "text"))

	out, err := execute(t, cmd,
		filepath.Join(scenarioDir, "custom_glyphs.yaml"),
		"--golden-dir", "../harness/testdata/golden")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ custom_glyphs")
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	scenario := `
name: wrong
steps:
  - type: "a"
  - key: enter
expect:
  todos: [{text: "b", checked: false}]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(scenario), 0o644))

	cmd := NewTestCommand(testRootOptions(t, "text"))
	out, err := execute(t, cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "1 failed")
}

func TestTest_InvalidScenarioIsAFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nsteps:\n  - jump: 3\n"), 0o644))

	cmd := NewTestCommand(testRootOptions(t, "json"))
	out, err := execute(t, cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTest_MissingPath(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "text"))

	_, err := execute(t, cmd, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_NoScenarios(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "text"))

	out, err := execute(t, cmd, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_RequiresArgs(t *testing.T) {
	cmd := NewTestCommand(testRootOptions(t, "text"))

	_, err := execute(t, cmd)
	require.Error(t, err)
}
