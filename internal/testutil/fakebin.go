package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireShell aborts the calling test when /bin/sh is not available.
func RequireShell(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("skipping: sh binary not available")
	}
	return path
}

// FakeBin is a temporary directory of shell-script executables placed at the
// front of PATH for the duration of a test.
type FakeBin struct {
	Dir string
	t   *testing.T
}

// NewFakeBin creates the directory and prepends it to PATH.
func NewFakeBin(t *testing.T) *FakeBin {
	t.Helper()
	RequireShell(t)
	dir := t.TempDir()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return &FakeBin{Dir: dir, t: t}
}

// Add writes an executable named name whose body is the given shell script.
// It returns the absolute path of the executable.
func (f *FakeBin) Add(name, script string) string {
	f.t.Helper()
	path := filepath.Join(f.Dir, name)
	body := "#!/bin/sh\n" + strings.TrimLeft(script, "\n")
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		f.t.Fatalf("failed to write fake %s: %v", name, err)
	}
	return path
}

// Path returns the location a file named name would have inside the fake
// directory, useful for scripts that record their input.
func (f *FakeBin) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

// ReadFile returns the contents of name inside the fake directory, or an
// empty string when it does not exist.
func (f *FakeBin) ReadFile(name string) string {
	f.t.Helper()
	data, err := os.ReadFile(f.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		f.t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}
