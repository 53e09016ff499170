package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/atomicstack/update-control/internal/runner"
)

// ErrNoTerminal is returned when the password cannot be read without echo.
var ErrNoTerminal = errors.New("password prompt requires a terminal")

// TerminalPrompter reads the root password from a terminal with echo
// disabled. An empty answer is passed on and rejected by the controller.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func (p TerminalPrompter) Prompt(_ context.Context, label string) (runner.Secret, error) {
	if p.In == nil {
		return runner.Secret{}, ErrNoTerminal
	}
	fd := int(p.In.Fd())
	if !term.IsTerminal(fd) {
		return runner.Secret{}, ErrNoTerminal
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "Root password for the %s update: ", label)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return runner.Secret{}, fmt.Errorf("read password: %w", err)
	}
	return runner.NewSecret(string(value)), nil
}
