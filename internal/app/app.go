package app

import (
	"errors"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/atomicstack/update-control/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	Width      int
	Height     int
	Verbose    bool
	AutoScan   bool
	FlatpakBin string
	ZypperBin  string
	Elevate    []string
}

// Backends returns the backend descriptors selected by the configured
// binaries, in scan order.
func (c Config) Backends() []pkgmgr.Backend {
	return []pkgmgr.Backend{
		pkgmgr.NewBackend(pkgmgr.KindFlatpak, c.FlatpakBin),
		pkgmgr.NewBackend(pkgmgr.KindZypper, c.ZypperBin),
	}
}

// NewController builds the controller shared by the TUI and the CLI.
func (c Config) NewController() *controller.Controller {
	var elevate []string
	if len(c.Elevate) > 0 {
		elevate = c.Elevate
	}
	return controller.New(controller.Config{Backends: c.Backends(), Elevate: elevate})
}

// NewScanner builds a scanner over the configured backends.
func (c Config) NewScanner() *pkgmgr.Scanner {
	return pkgmgr.NewScanner(nil, c.Backends()...)
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	run := runner.New()
	model := ui.NewModel(ui.Options{
		Controller: cfg.NewController(),
		Scanner:    cfg.NewScanner(),
		Runner:     run,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Verbose:    cfg.Verbose,
		AutoScan:   cfg.AutoScan,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
