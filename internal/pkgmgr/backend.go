package pkgmgr

// Backend describes how to list and apply updates for one package manager.
type Backend struct {
	Kind       Kind
	Binary     string
	ListArgs   []string
	UpdateArgs []string
	Env        []string
	Parse      func(lines []string) UpdateSet
}

// NewBackend returns the descriptor for kind. An empty binary selects the
// backend's default executable name.
func NewBackend(kind Kind, binary string) Backend {
	switch kind {
	case KindZypper:
		if binary == "" {
			binary = "zypper"
		}
		return Backend{
			Kind:     KindZypper,
			Binary:   binary,
			ListArgs: []string{"--no-refresh", "lu"},
			UpdateArgs: []string{
				"-v", "dup",
				"--force-resolution",
				"--no-allow-vendor-change",
				"--no-confirm",
				"--auto-agree-with-licenses",
			},
			Env:   []string{"LC_ALL=C"},
			Parse: ParseZypper,
		}
	default:
		if binary == "" {
			binary = "flatpak"
		}
		return Backend{
			Kind:       KindFlatpak,
			Binary:     binary,
			ListArgs:   []string{"remote-ls", "--updates", "--columns=application,arch,branch,origin,download-size"},
			UpdateArgs: []string{"update", "-y"},
			Parse:      ParseFlatpak,
		}
	}
}

// DefaultBackends returns every supported backend in scan order.
func DefaultBackends() []Backend {
	backends := make([]Backend, 0, len(Kinds))
	for _, kind := range Kinds {
		backends = append(backends, NewBackend(kind, ""))
	}
	return backends
}

// ListCommand is the non-mutating command that reports pending updates.
func (b Backend) ListCommand() CommandConfig {
	return CommandConfig{
		Name: b.Binary,
		Args: append([]string(nil), b.ListArgs...),
		Env:  append([]string(nil), b.Env...),
	}
}

// UpdateArgv is the unprivileged update command; callers prepend the
// elevation prefix.
func (b Backend) UpdateArgv() []string {
	return append([]string{b.Binary}, b.UpdateArgs...)
}
