// Package tui is the full-screen result viewer: a bubbletea program
// that runs statements through the engine and renders each snapshot
// through the grid pipeline (derived view, virtualized window,
// identity-keyed selection, export).
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/querypad/querypad/internal/grid"
	"github.com/querypad/querypad/pkg/core"
)

// QueryRunner executes one statement and captures its result. It is
// satisfied by *engine.Engine; tests substitute a stub.
type QueryRunner interface {
	Execute(ctx context.Context, query string) (*core.ResultSnapshot, error)
}

// Config wires the viewer to its collaborators.
type Config struct {
	// Runner executes statements typed into the editor. Required.
	Runner QueryRunner
	// Output receives export files and clipboard writes. Required.
	Output grid.OutputService
	// ConnectionName labels the top bar.
	ConnectionName string
	// InitialQuery pre-fills the editor.
	InitialQuery string
	// RunOnStart executes InitialQuery as soon as the program starts.
	RunOnStart bool
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Run starts the viewer in the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Runner == nil {
		return errors.New("tui: query runner is required")
	}
	if cfg.Output == nil {
		return errors.New("tui: output service is required")
	}

	p := tea.NewProgram(newApp(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
