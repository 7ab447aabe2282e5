package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../../testdata/scenarios"

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenarios found in %s", scenarioDir)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name, "scenario name should match its file name")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors:\n%s", strings.Join(result.Errors, "\n"))
			assert.Equal(t, len(result.Trace), result.Replayed, "every journaled tick is replayed")
		})
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir, "submit_check_delete.yaml"))
	require.NoError(t, err)

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	require.Equal(t, len(first.Trace), len(second.Trace))
	for i := range first.Trace {
		assert.Equal(t, first.Trace[i].Digest, second.Trace[i].Digest, "tick %d", first.Trace[i].Tick)
	}
	assert.Equal(t, first.Render, second.Render)
}

func TestRun_TraceTagsSteps(t *testing.T) {
	s := mustParse(t, `
name: trace_steps
steps:
  - type: "a"
  - key: enter
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	require.NotEmpty(t, result.Trace)
	assert.Equal(t, -1, result.Trace[0].Step, "bootstrap ticks precede the first step")
	assert.Equal(t, []string{`create(input, "")`}, result.Trace[0].Applied)

	last := result.Trace[len(result.Trace)-1]
	assert.Equal(t, 1, last.Step)
	assert.Contains(t, last.Applied, `create(todo, "a")`)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	s := mustParse(t, `
name: wrong_expectations
steps:
  - type: "a"
  - key: enter
expect:
  todos:
    - {text: "b", checked: true}
  focus: none
  view_count: 3
  skipped: [STALE_HANDLE]
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	joined := strings.Join(result.Errors, "\n")
	for _, want := range []string{"todos[0].text", "todos[0].checked", "focus", "view_count", "skipped"} {
		assert.Contains(t, joined, "assertion failed: "+want)
	}
}

func TestRun_StepErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "type without focus",
			doc: `
name: type_without_focus
steps:
  - key: escape
  - type: "lost"
`,
			want: "steps[1]: type \"lost\": nothing is focused",
		},
		{
			name: "press unknown todo",
			doc: `
name: press_unknown
steps:
  - press: {role: todo-checkmark, todo: "ghost"}
`,
			want: "steps[0]: press: no todo with text \"ghost\"",
		},
		{
			name: "delete unknown todo",
			doc: `
name: delete_unknown
steps:
  - dispatch: {delete: "ghost"}
`,
			want: "steps[0]: dispatch: no todo with text \"ghost\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(context.Background(), mustParse(t, tt.doc))
			require.NoError(t, err)
			assert.False(t, result.Pass)
			assert.Contains(t, result.Errors, tt.want)
		})
	}
}

func TestRun_GoldenDir(t *testing.T) {
	dir := t.TempDir()
	s := mustParse(t, `
name: golden_dir
expect:
  golden: bootstrap
`)
	want := "== input ==\ninput-box [editing]\n  input-label \"\" *editable* <focus>\n== todo-list ==\nfocus: input-label \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bootstrap.golden"), []byte(want), 0o644))

	result, err := Run(context.Background(), s, WithGoldenDir(dir))
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bootstrap.golden"), []byte("stale\n"), 0o644))
	result, err = Run(context.Background(), s, WithGoldenDir(dir))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, strings.Join(result.Errors, "\n"), "assertion failed: golden")
}

func mustParse(t *testing.T, doc string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	return s
}
