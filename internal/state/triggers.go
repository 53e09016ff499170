package state

import "github.com/atomicstack/update-control/internal/pkgmgr"

// Triggers tracks which user actions are currently enabled.
type Triggers interface {
	ScanEnabled() bool
	SetScanEnabled(bool)
	UpdateEnabled(pkgmgr.Kind) bool
	SetUpdateEnabled(pkgmgr.Kind, bool)
	DisableUpdates()
	EnabledUpdates() []pkgmgr.Kind
}

type triggers struct {
	scan    bool
	updates map[pkgmgr.Kind]bool
}

// NewTriggers starts with scanning enabled and every update disabled.
func NewTriggers() Triggers {
	return &triggers{scan: true, updates: map[pkgmgr.Kind]bool{}}
}

func (t *triggers) ScanEnabled() bool {
	return t.scan
}

func (t *triggers) SetScanEnabled(enabled bool) {
	t.scan = enabled
}

func (t *triggers) UpdateEnabled(kind pkgmgr.Kind) bool {
	return t.updates[kind]
}

func (t *triggers) SetUpdateEnabled(kind pkgmgr.Kind, enabled bool) {
	t.updates[kind] = enabled
}

func (t *triggers) DisableUpdates() {
	for kind := range t.updates {
		t.updates[kind] = false
	}
}

// EnabledUpdates lists enabled update actions in display order.
func (t *triggers) EnabledUpdates() []pkgmgr.Kind {
	var out []pkgmgr.Kind
	for _, kind := range pkgmgr.Kinds {
		if t.updates[kind] {
			out = append(out, kind)
		}
	}
	return out
}
