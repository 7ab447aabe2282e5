package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/config"
	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/store"
	"github.com/roach88/mvsync/internal/testutil"
)

const scenarioDir = "../../testdata/scenarios"

// testRootOptions returns root options holding the default config, with
// HOME isolated so no user config file is read.
func testRootOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvConfig, "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return &RootOptions{Format: format, Config: cfg}
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeJournal journals one session under token: the todo "a" is created
// and then deleted twice, so the second delete is skipped as stale.
func writeJournal(t *testing.T, path, token string, opts ...engine.Option) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	base := []engine.Option{
		engine.WithLogger(engine.DiscardLogger()),
		engine.WithJournal(st),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(token)),
	}
	e := engine.New(nil, append(base, opts...)...)
	require.NoError(t, e.Start(ctx, ir.RequiredSlots))

	tick := func(notes ...ir.Notification) {
		for _, n := range notes {
			require.True(t, e.Submit(n))
		}
		_, err := e.Tick(ctx)
		require.NoError(t, err)
		require.NoError(t, e.Settle(ctx))
	}

	tick(ir.TextChanged{View: e.Focus(), Text: "a"}, ir.KeyPressed{Key: ir.KeyEnter})
	todos := e.Snapshot().Todos()
	require.Len(t, todos, 1)
	h := todos[0].Handle

	tick(ir.Dispatch{Action: ir.Delete{Model: h}})
	tick(ir.Dispatch{Action: ir.Delete{Model: h}})
}

func journalPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "journal.db")
}
