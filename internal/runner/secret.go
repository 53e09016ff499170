package runner

const redacted = "[redacted]"

// Secret holds a credential fed to a child process on stdin. It formats as a
// placeholder so it cannot leak through logs or traces.
type Secret struct {
	value string
}

// NewSecret wraps value. An empty value yields an unset secret.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// IsSet reports whether the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s.value != ""
}

func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return "runner.Secret{" + s.String() + "}"
}

// MarshalText keeps secrets out of structured encoders.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Secret) reveal() string {
	return s.value
}
