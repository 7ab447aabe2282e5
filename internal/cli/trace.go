package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal     string
	Session     string
	SkippedOnly bool
}

// TraceTick is one journaled tick in the timeline.
type TraceTick struct {
	Tick     int64    `json:"tick"`
	Inputs   []string `json:"inputs"`
	Applied  []string `json:"applied"`
	Skipped  []string `json:"skipped"`
	Deferred int      `json:"deferred,omitempty"`
	Effects  int      `json:"effects"`
	Focus    string   `json:"focus"`
	Digest   string   `json:"digest"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Ticks   int `json:"ticks"`
	Inputs  int `json:"inputs"`
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Effects int `json:"effects"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  string      `json:"session"`
	Slots    []ir.Slot   `json:"slots"`
	Timeline []TraceTick `json:"timeline"`
	Stats    TraceStats  `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the tick timeline of a journaled session",
		Long: `Print the tick timeline of a journaled session.

For every tick the trace lists the notifications taken in, the actions
applied, the actions skipped with their diagnostic code (STALE_HANDLE,
UNSUPPORTED_ACTION, ...), the number of effects delivered, the committed
focus and the snapshot digest.

Without --session the most recent session is traced.

Examples:
  mvsync trace --journal ./mvsync.db
  mvsync trace --journal ./mvsync.db --session 0192f0c4-... --skipped
  mvsync trace --journal ./mvsync.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite tick journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to trace (default latest)")
	cmd.Flags().BoolVar(&opts.SkippedOnly, "skipped", false, "only show ticks that skipped actions")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	st, err := openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens, err := sessionTokens(ctx, st, opts.Session, true)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		if out.JSON() {
			return out.Success(TraceResult{Slots: []ir.Slot{}, Timeline: []TraceTick{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	result, err := buildTrace(ctx, st, tokens[0], opts.SkippedOnly)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if out.JSON() {
		return out.Success(result)
	}
	writeTraceText(cmd.OutOrStdout(), result)
	return nil
}

func buildTrace(ctx context.Context, st *store.Store, token string, skippedOnly bool) (TraceResult, error) {
	slots, err := st.Slots(ctx, token)
	if err != nil {
		return TraceResult{}, err
	}
	records, err := st.Ticks(ctx, token)
	if err != nil {
		return TraceResult{}, err
	}

	result := TraceResult{Session: token, Slots: slots, Timeline: []TraceTick{}}
	for _, rec := range records {
		result.Stats.Ticks++
		result.Stats.Inputs += len(rec.Inputs)
		result.Stats.Applied += len(rec.Applied)
		result.Stats.Skipped += len(rec.Skipped)
		result.Stats.Effects += rec.Effects

		if skippedOnly && len(rec.Skipped) == 0 {
			continue
		}
		result.Timeline = append(result.Timeline, traceTick(rec))
	}
	return result, nil
}

func traceTick(rec ir.TickRecord) TraceTick {
	tt := TraceTick{
		Tick:     rec.Tick,
		Inputs:   make([]string, 0, len(rec.Inputs)),
		Applied:  make([]string, 0, len(rec.Applied)),
		Skipped:  make([]string, 0, len(rec.Skipped)),
		Deferred: rec.Deferred,
		Effects:  rec.Effects,
		Focus:    rec.Focus.String(),
		Digest:   rec.Digest,
	}
	for _, n := range rec.Inputs {
		tt.Inputs = append(tt.Inputs, describeInput(n))
	}
	for _, a := range rec.Applied {
		tt.Applied = append(tt.Applied, a.String())
	}
	for _, s := range rec.Skipped {
		tt.Skipped = append(tt.Skipped, fmt.Sprintf("%s %s: %s", s.Code, s.Action, s.Reason))
	}
	return tt
}

// describeInput renders a notification in the same call style as actions.
func describeInput(n ir.Notification) string {
	switch note := n.(type) {
	case ir.Pointer:
		return fmt.Sprintf("pointer(%s, %t)", note.View, note.Pressed)
	case ir.TextChanged:
		return fmt.Sprintf("text_changed(%s, %q)", note.View, note.Text)
	case ir.KeyPressed:
		return fmt.Sprintf("key_pressed(%s)", note.Key)
	case ir.Resize:
		return fmt.Sprintf("resize(%d, %d)", note.Width, note.Height)
	case ir.Dispatch:
		if note.Action == nil {
			return "dispatch(nil)"
		}
		return fmt.Sprintf("dispatch(%s)", note.Action)
	default:
		return n.Kind()
	}
}

func writeTraceText(w io.Writer, r TraceResult) {
	slots := make([]string, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = string(s)
	}
	fmt.Fprintf(w, "Session: %s\n", r.Session)
	fmt.Fprintf(w, "Slots: %s\n", strings.Join(slots, ", "))
	fmt.Fprintln(w)

	for _, t := range r.Timeline {
		fmt.Fprintf(w, "tick %d  effects=%d focus=%s digest=%s\n", t.Tick, t.Effects, t.Focus, shortDigest(t.Digest))
		for _, in := range t.Inputs {
			fmt.Fprintf(w, "  < %s\n", in)
		}
		for _, a := range t.Applied {
			fmt.Fprintf(w, "  + %s\n", a)
		}
		for _, s := range t.Skipped {
			fmt.Fprintf(w, "  ! %s\n", s)
		}
		if t.Deferred > 0 {
			fmt.Fprintf(w, "  ~ %d deferred\n", t.Deferred)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d ticks, %d inputs, %d applied, %d skipped, %d effects\n",
		r.Stats.Ticks, r.Stats.Inputs, r.Stats.Applied, r.Stats.Skipped, r.Stats.Effects)
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
