package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/update-control/internal/app"
	"github.com/atomicstack/update-control/internal/config"
	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/atomicstack/update-control/internal/testutil"
)

const fakeFlatpak = `
if [ "$1" = "remote-ls" ]; then
  printf 'org.gnome.Calculator\tx86_64\tstable\tflathub\t1.2 MB\n'
fi
`

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, opts Options, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	args = append([]string{"--log-file", filepath.Join(t.TempDir(), "update-control.log")}, args...)
	code := Execute(args, opts)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func setupBackends(t *testing.T) *testutil.FakeBin {
	t.Helper()
	bin := testutil.NewFakeBin(t)
	bin.Add("flatpak", fakeFlatpak)
	bin.Add("zypper", `exit 0`)
	return bin
}

func secretPrompter(value string) controller.Prompter {
	return controller.PrompterFunc(func(context.Context, string) (runner.Secret, error) {
		return runner.NewSecret(value), nil
	})
}

func TestScanCommandPrintsLogAndSummary(t *testing.T) {
	setupBackends(t)

	res := run(t, Options{}, "scan")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Flatpak updates:")
	assert.Contains(t, res.stdout, "org.gnome.Calculator")
	assert.Contains(t, res.stdout, "No openSUSE updates found.")
	assert.Regexp(t, `Flatpak\s+1\n`, res.stdout)
	assert.Regexp(t, `openSUSE\s+0\n`, res.stdout)
	assert.Contains(t, res.stdout, "Update check complete.")
}

func TestScanCommandReportsMissingBackend(t *testing.T) {
	setupBackends(t)

	res := run(t, Options{}, "--zypper-bin", "update-control-missing-zypper", "scan")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "was not found")
	assert.Regexp(t, `openSUSE\s+error\n`, res.stdout)
	assert.Contains(t, res.stdout, "Flatpak updates:")
}

func TestScanNoticesAreNotLabelledTwice(t *testing.T) {
	setupBackends(t)

	res := run(t, Options{}, "--zypper-bin", "update-control-missing-zypper", "scan")

	assert.Contains(t, res.stderr, "✗ Error: The command 'update-control-missing-zypper' was not found.")
	assert.NotContains(t, res.stderr, "Warning: Error")
}

func TestUpgradeFailsWhenRequestedBackendCannotBeChecked(t *testing.T) {
	setupBackends(t)
	prompter := controller.PrompterFunc(func(context.Context, string) (runner.Secret, error) {
		t.Fatalf("expected no prompt when the scan failed")
		return runner.Secret{}, nil
	})

	res := run(t, Options{Prompter: prompter}, "--zypper-bin", "update-control-missing-zypper", "upgrade", "zypper")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "check openSUSE updates")
	assert.Contains(t, res.stderr, "update-control-missing-zypper")
}

func TestUpgradeIgnoresFailureOfOtherBackend(t *testing.T) {
	setupBackends(t)
	elevate := "sh,-c,read pw; echo done,elevate"

	res := run(t, Options{Prompter: secretPrompter("s3cr3t")}, "--zypper-bin", "update-control-missing-zypper", "--elevate", elevate, "upgrade", "flatpak")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Flatpak update finished.")
}

func TestUpgradeRunsElevatedUpdate(t *testing.T) {
	setupBackends(t)
	elevate := "sh,-c,read pw; echo pw:$pw; echo args:$*,elevate"

	res := run(t, Options{Prompter: secretPrompter("s3cr3t")}, "--elevate", elevate, "upgrade", "flatpak")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "pw:s3cr3t")
	assert.Contains(t, res.stdout, "args:flatpak update -y")
	assert.Contains(t, res.stdout, "Flatpak update finished.")
}

func TestUpgradeFailureExitsNonZero(t *testing.T) {
	setupBackends(t)
	elevate := "sh,-c,read pw; echo Sorry try again. incorrect password attempt >&2; exit 1,elevate"

	res := run(t, Options{Prompter: secretPrompter("wrong")}, "--elevate", elevate, "upgrade", "flatpak")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "Error: Sorry try again. incorrect password attempt")
	assert.Contains(t, res.stderr, "Flatpak update failed: incorrect password.")
}

func TestUpgradeRejectsEmptyCredential(t *testing.T) {
	setupBackends(t)

	res := run(t, Options{Prompter: secretPrompter("")}, "upgrade", "flatpak")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Root password is required.")
	assert.Contains(t, res.stderr, controller.ErrCredentialRejected.Error())
}

func TestUpgradeWithoutUpdatesDoesNotPrompt(t *testing.T) {
	setupBackends(t)
	prompter := controller.PrompterFunc(func(context.Context, string) (runner.Secret, error) {
		t.Fatalf("expected no prompt without pending updates")
		return runner.Secret{}, nil
	})

	res := run(t, Options{Prompter: prompter}, "upgrade", "zypper")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No openSUSE updates found.")
}

func TestUpgradeUnknownBackend(t *testing.T) {
	res := run(t, Options{}, "upgrade", "apt")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "apt")
}

func TestUnknownFlagIsConfigError(t *testing.T) {
	res := run(t, Options{}, "--bogus")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "configuration error")
}

func TestInvalidConfigurationExitsTwo(t *testing.T) {
	res := run(t, Options{}, "--width", "-5")
	assert.Equal(t, 2, res.code)
}

func TestRootRunsInterfaceWithResolvedConfig(t *testing.T) {
	var got app.Config
	var started config.Config
	opts := Options{
		RunTUI:  func(cfg app.Config) error { got = cfg; return nil },
		OnStart: func(cfg config.Config) { started = cfg },
		Environ: []string{"UPDATE_CONTROL_AUTO_SCAN=true"},
	}

	res := run(t, opts, "--width", "80", "--zypper-bin", "/usr/local/bin/zypper")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, 80, got.Width)
	assert.True(t, got.AutoScan)
	assert.Equal(t, "/usr/local/bin/zypper", got.ZypperBin)
	assert.Equal(t, controller.DefaultElevate, got.Elevate)
	assert.Equal(t, "80", started.Flags["width"])
}

func TestTerminalPrompterRequiresTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	_, err = TerminalPrompter{In: f}.Prompt(context.Background(), "Flatpak")
	assert.ErrorIs(t, err, ErrNoTerminal)
}
