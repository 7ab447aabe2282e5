package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/store"
	"github.com/roach88/mvsync/internal/tui"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string

	// SessionGenerator overrides the journal session token source (tests).
	SessionGenerator engine.SessionTokenGenerator

	// ProgramOptions are appended to the terminal program's options (tests).
	ProgramOptions []tea.ProgramOption
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the todo list",
		Long: `Start the terminal todo list.

The input box is focused on start: type a todo and press Enter. Esc leaves
the input; use j/k to select a todo, space to check it, d to delete it and
e to edit its text. Press q to quit.

Todos live in memory only. With --journal (or journal.path in the config)
every tick is also written to a SQLite journal for replay and trace.
Logs go to log.file from the config so they never draw over the screen.

Examples:
  mvsync run
  mvsync run --journal ./mvsync.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTodo(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite tick journal (default journal.path)")

	return cmd
}

func runTodo(opts *RunOptions, cmd *cobra.Command) error {
	logger, closeLog, err := opts.fileLogger()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	defer closeLog()

	engOpts := append(opts.EngineOptions(), engine.WithLogger(logger))
	if opts.SessionGenerator != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.SessionGenerator))
	}

	path := opts.Journal
	if path == "" {
		path = opts.Config.Journal.Path
	}
	if path != "" {
		logger.Info("opening journal", "path", path)
		st, err := store.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		engOpts = append(engOpts, engine.WithJournal(st))
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	session, err := tui.Run(ctx, tui.Options{
		Placeholder:    opts.Config.UI.Placeholder,
		Engine:         engOpts,
		ProgramOptions: opts.ProgramOptions,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "todo list failed", err)
	}

	logger.Info("engine stopped gracefully", "session", session)
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s journaled to %s\n", session, path)
	}
	return nil
}

// fileLogger opens log.file for appending. Without a log file the logger
// discards everything, since stderr belongs to the terminal program.
func (o *RunOptions) fileLogger() (*slog.Logger, func(), error) {
	if o.Config.Log.File == "" {
		return o.Logger(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(o.Config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return o.Logger(f), func() { _ = f.Close() }, nil
}
