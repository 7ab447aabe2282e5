// Package tui is the terminal frontend: a bubbletea program drawing the
// engine's scene and turning key presses into notifications.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/scene"
)

// Options configures Run.
type Options struct {
	Placeholder    string
	Engine         []engine.Option
	ProgramOptions []tea.ProgramOption
}

// Run starts an engine behind a full-screen program and blocks until the
// user quits or ctx is cancelled. It returns the engine's session token.
func Run(ctx context.Context, opts Options) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sc := scene.New(ir.RequiredSlots...)

	// prog is assigned before the engine goroutine starts; bootstrap effects
	// are applied to the scene without a program to notify.
	var prog *tea.Program
	bridge := engine.RendererFunc(func(effects []ir.Effect) {
		sc.Apply(effects)
		if prog != nil {
			prog.Send(EffectsMsg{Effects: len(effects)})
		}
	})

	e := engine.New(bridge, opts.Engine...)
	if err := e.Start(ctx, sc.Slots()); err != nil {
		return "", err
	}

	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	prog = tea.NewProgram(NewModel(sc, e, opts.Placeholder), popts...)

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	_, err := prog.Run()
	e.Stop()
	cancel()
	runErr := <-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return e.Session(), fmt.Errorf("tui: %w", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return e.Session(), fmt.Errorf("engine: %w", runErr)
	}
	if err := sc.Err(); err != nil {
		return e.Session(), fmt.Errorf("scene: %w", err)
	}
	return e.Session(), nil
}
