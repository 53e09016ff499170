// Package pkgmgr runs the read-only listing commands of the supported package
// backends and turns their output into display-ready update sets.
package pkgmgr

import (
	"fmt"
	"strings"
)

// Kind identifies a package management backend.
type Kind int

const (
	KindFlatpak Kind = iota
	KindZypper
)

// Kinds lists the backends in display and scan order.
var Kinds = []Kind{KindFlatpak, KindZypper}

func (k Kind) String() string {
	switch k {
	case KindFlatpak:
		return "flatpak"
	case KindZypper:
		return "zypper"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label is the user-facing name of the backend.
func (k Kind) Label() string {
	switch k {
	case KindFlatpak:
		return "Flatpak"
	case KindZypper:
		return "openSUSE"
	default:
		return k.String()
	}
}

// ParseKind resolves a backend name as typed on the command line.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flatpak":
		return KindFlatpak, nil
	case "zypper", "opensuse", "system":
		return KindZypper, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (expected flatpak or zypper)", name)
	}
}

// Record is one pending update.
type Record struct {
	Name    string
	Version string
	Arch    string
	Origin  string
	Size    string
}

// UpdateSet is the parsed result of a single backend scan. Lines holds the
// formatted table shown to the user, header and separator included.
type UpdateSet struct {
	Kind       Kind
	Records    []Record
	Lines      []string
	HasUpdates bool
}

// Empty returns the "no updates" result for kind.
func Empty(kind Kind) UpdateSet {
	return UpdateSet{Kind: kind}
}
