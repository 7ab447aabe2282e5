package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
	Session string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session       string `json:"session"`
	Ticks         int    `json:"ticks"`
	Replayed      int    `json:"replayed"`
	Deterministic bool   `json:"deterministic"`
	DivergedAt    int64  `json:"diverged_at,omitempty"`
	Want          string `json:"want,omitempty"`
	Got           string `json:"got,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Replay journaled sessions on a fresh engine and verify determinism.

Each session's recorded inputs are re-submitted tick by tick and the
resulting snapshot digest is compared with the journaled one. Replay never
restores todos; it only checks that the same inputs produce the same state.

Glyphs and engine.max_actions_per_tick must match the configuration the
session ran with, since both shape the snapshot.

Exit codes:
  0 - All sessions are deterministic
  1 - A session diverged
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  mvsync replay --journal ./mvsync.db
  mvsync replay --journal ./mvsync.db --session 0192f0c4-...
  mvsync replay --journal ./mvsync.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite tick journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay a specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	st, err := openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens, err := sessionTokens(ctx, st, opts.Session, false)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(tokens)),
		TotalSessions:    len(tokens),
		AllDeterministic: true,
	}
	if len(tokens) == 0 {
		if out.JSON() {
			return out.Success(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	for _, token := range tokens {
		out.VerboseLog("replaying session %s", token)
		sr, err := replaySession(ctx, st, token, opts.EngineOptions())
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", token), err)
		}
		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if out.JSON() {
		if result.AllDeterministic {
			return out.Success(result)
		}
		if err := out.Failure("E_DETERMINISM", "determinism verification failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
}

// replaySession replays one journaled session on a fresh engine.
func replaySession(ctx context.Context, st *store.Store, token string, opts []engine.Option) (ReplaySessionResult, error) {
	records, err := st.Ticks(ctx, token)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	slots, err := st.Slots(ctx, token)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	res, err := engine.Replay(ctx, slots, records, opts...)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	sr := ReplaySessionResult{
		Session:       token,
		Ticks:         len(records),
		Replayed:      res.Ticks,
		Deterministic: !res.Diverged,
	}
	if res.Diverged {
		sr.DivergedAt, sr.Want, sr.Got = res.Tick, res.Want, res.Got
	}
	return sr, nil
}

func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Ticks: %d replayed of %d\n", s.Replayed, s.Ticks)
		if !s.Deterministic {
			fmt.Fprintf(w, "  Diverged at tick %d\n", s.DivergedAt)
			if verbose {
				fmt.Fprintf(w, "    journaled: %s\n", s.Want)
				fmt.Fprintf(w, "    replayed:  %s\n", s.Got)
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}

// openJournal opens an existing journal. Opening creates missing files, so
// the path is checked first: reading an empty new journal is never useful.
func openJournal(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

// sessionTokens resolves --session. Without it, every session is returned,
// or only the latest when latestOnly is set.
func sessionTokens(ctx context.Context, st *store.Store, session string, latestOnly bool) ([]string, error) {
	if session != "" {
		if _, err := st.Slots(ctx, session); err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return nil, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", session))
			}
			return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		return []string{session}, nil
	}

	if latestOnly {
		latest, err := st.LatestSession(ctx)
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		return []string{latest.Token}, nil
	}

	sessions, err := st.Sessions(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	tokens := make([]string, 0, len(sessions))
	for _, s := range sessions {
		tokens = append(tokens, s.Token)
	}
	return tokens, nil
}
