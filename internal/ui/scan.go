package ui

import (
	"context"

	"github.com/atomicstack/update-control/internal/logging"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

type scanRequestMsg struct{}

// scanResultMsg mirrors the async scanner response for one backend.
type scanResultMsg struct {
	kind pkgmgr.Kind
	set  pkgmgr.UpdateSet
	err  error
}

func requestScan() tea.Msg {
	return scanRequestMsg{}
}

func (m *Model) handleScanRequestMsg(tea.Msg) tea.Cmd {
	if !m.ctrl.ScanEnabled() {
		m.setInfo("Checking for updates is not available right now.")
		return nil
	}
	if _, err := m.ctrl.BeginScan(); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.clearFilter()
	m.follow = true
	return m.nextScanCmd()
}

func (m *Model) handleScanResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(scanResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		logging.Error(result.err)
	}
	m.ctrl.RecordScan(result.kind, result.set, result.err)
	return m.nextScanCmd()
}

// nextScanCmd issues the scan of the next backend, or completes the scan once
// every backend has reported. Scans run one after another.
func (m *Model) nextScanCmd() tea.Cmd {
	kind, ok := m.ctrl.NextScan()
	if !ok {
		m.ctrl.FinishScan()
		return nil
	}
	scanner := m.scanner
	return m.bus.Execute(command.Request{
		ID:    "scan:" + kind.String(),
		Label: kind.Label(),
		Handler: func(ctx context.Context) tea.Msg {
			set, err := scanner.Scan(ctx, kind)
			return scanResultMsg{kind: kind, set: set, err: err}
		},
	})
}
