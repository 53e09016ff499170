package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/atomicstack/update-control/internal/testutil"
)

type scanOutcome struct {
	set pkgmgr.UpdateSet
	err error
}

func runScan(t *testing.T, c *Controller, outcomes map[pkgmgr.Kind]scanOutcome) {
	t.Helper()
	_, err := c.BeginScan()
	require.NoError(t, err)
	for {
		kind, ok := c.NextScan()
		if !ok {
			break
		}
		out := outcomes[kind]
		if out.set.Kind != kind {
			out.set = pkgmgr.Empty(kind)
		}
		c.RecordScan(kind, out.set, out.err)
	}
	c.FinishScan()
}

func flatpakUpdates() pkgmgr.UpdateSet {
	return pkgmgr.ParseFlatpak([]string{"org.gnome.Maps\tx86_64\tstable\tflathub\t1.2 MB"})
}

func TestScanWithoutUpdatesKeepsActionsDisabled(t *testing.T) {
	c := New(Config{})
	runScan(t, c, nil)

	assert.Equal(t, StateScanned, c.State())
	assert.True(t, c.ScanEnabled())
	assert.False(t, c.UpdateEnabled(pkgmgr.KindFlatpak))
	assert.False(t, c.UpdateEnabled(pkgmgr.KindZypper))
	assert.Equal(t, []string{"No Flatpak updates found.", "No openSUSE updates found."}, c.Lines())
	assert.Equal(t, 100, c.Progress())
	assert.Empty(t, c.Notices())
}

func TestScanWithFlatpakUpdatesEnablesOnlyFlatpak(t *testing.T) {
	c := New(Config{})
	set := flatpakUpdates()
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: set}})

	assert.True(t, c.UpdateEnabled(pkgmgr.KindFlatpak))
	assert.False(t, c.UpdateEnabled(pkgmgr.KindZypper))
	lines := c.Lines()
	require.Len(t, lines, 1+len(set.Lines)+1)
	assert.Equal(t, "Flatpak updates:", lines[0])
	assert.Equal(t, set.Lines, lines[1:1+len(set.Lines)])
	assert.Equal(t, "No openSUSE updates found.", lines[len(lines)-1])
}

func TestZypperWithoutHeaderStaysDisabled(t *testing.T) {
	c := New(Config{})
	set := pkgmgr.ParseZypper([]string{"Loading repository data...", "Nothing to do."})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindZypper: {set: set}})

	assert.False(t, c.UpdateEnabled(pkgmgr.KindZypper))
	assert.Contains(t, c.Lines(), "No openSUSE updates found.")
}

func TestScanErrorQueuesNoticeAndContinues(t *testing.T) {
	c := New(Config{})
	zypper := pkgmgr.ParseZypper([]string{
		"S  | Repository | Name | Current Version | Available Version | Arch",
		"---+------------+------+-----------------+-------------------+-------",
		"v  | repo-oss   | bash | 5.2.15-1.1      | 5.2.21-1.1        | x86_64",
	})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{
		pkgmgr.KindFlatpak: {err: &pkgmgr.NotFoundError{Kind: pkgmgr.KindFlatpak, Binary: "flatpak"}},
		pkgmgr.KindZypper:  {set: zypper},
	})

	notices := c.Notices()
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "'flatpak' was not found")
	assert.False(t, c.UpdateEnabled(pkgmgr.KindFlatpak))
	assert.True(t, c.UpdateEnabled(pkgmgr.KindZypper))
	lines := c.Lines()
	assert.Equal(t, "No Flatpak updates found.", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "openSUSE updates:", lines[2])

	n, ok := c.PopNotice()
	require.True(t, ok)
	assert.Equal(t, "Error", n.Title)
	_, ok = c.PopNotice()
	assert.False(t, ok)
}

func TestReportedScanErrorNotice(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{
		pkgmgr.KindZypper: {err: &pkgmgr.ReportedError{Kind: pkgmgr.KindZypper, ExitCode: 4, Message: "unknown error"}},
	})
	notices := c.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Error checking openSUSE", notices[0].Title)
	assert.Equal(t, "Failed to check openSUSE updates:\nunknown error", notices[0].Text)
}

func TestScanProgressSteps(t *testing.T) {
	c := New(Config{})
	kinds, err := c.BeginScan()
	require.NoError(t, err)
	assert.Equal(t, []pkgmgr.Kind{pkgmgr.KindFlatpak, pkgmgr.KindZypper}, kinds)
	assert.False(t, c.ScanEnabled())

	kind, ok := c.NextScan()
	require.True(t, ok)
	assert.Equal(t, pkgmgr.KindFlatpak, kind)
	assert.Equal(t, 25, c.Progress())
	assert.Equal(t, "Checking Flatpak updates...", c.Status())
	c.RecordScan(kind, pkgmgr.Empty(kind), nil)

	kind, ok = c.NextScan()
	require.True(t, ok)
	assert.Equal(t, 50, c.Progress())
	c.RecordScan(kind, pkgmgr.Empty(kind), nil)

	_, ok = c.NextScan()
	assert.False(t, ok)
	c.FinishScan()
	assert.Equal(t, 100, c.Progress())
	assert.Equal(t, "Update check complete.", c.Status())
}

func TestNewScanClearsDisplayLog(t *testing.T) {
	c := New(Config{})
	runScan(t, c, nil)
	runScan(t, c, nil)
	assert.Len(t, c.Lines(), 2)
}

func TestEmptyCredentialIsRejected(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})

	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))
	assert.Equal(t, StateConfirmingCredential, c.State())

	inv, err := c.SubmitCredential(runner.NewSecret(""))
	assert.ErrorIs(t, err, ErrCredentialRejected)
	assert.Empty(t, inv.Argv)
	assert.Equal(t, StateScanned, c.State())
	assert.True(t, c.UpdateEnabled(pkgmgr.KindFlatpak))

	notices := c.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Root password is required.", notices[0].Text)
	assert.True(t, notices[0].Warning)
}

func TestCancelCredentialIsRejected(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})
	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))

	assert.ErrorIs(t, c.CancelCredential(), ErrCredentialRejected)
	assert.Equal(t, StateScanned, c.State())
	assert.ErrorIs(t, c.CancelCredential(), ErrInvalidTransition)
}

func TestRequestUpdateRequiresEnabledTrigger(t *testing.T) {
	c := New(Config{})
	assert.ErrorIs(t, c.RequestUpdate(pkgmgr.KindZypper), ErrUpdateUnavailable)

	runScan(t, c, nil)
	assert.ErrorIs(t, c.RequestUpdate(pkgmgr.KindZypper), ErrUpdateUnavailable)
	assert.Equal(t, StateScanned, c.State())
}

func TestSubmitCredentialBuildsElevatedInvocation(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})
	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))

	inv, err := c.SubmitCredential(runner.NewSecret("s3cr3t"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo", "-S", "-p", "", "flatpak", "update", "-y"}, inv.Argv)
	assert.Equal(t, []string{"sudo", "flatpak"}, inv.Require)
	assert.True(t, inv.Secret.IsSet())

	assert.Equal(t, StateUpdating, c.State())
	assert.False(t, c.ScanEnabled())
	assert.False(t, c.UpdateEnabled(pkgmgr.KindFlatpak))
	assert.False(t, c.UpdateEnabled(pkgmgr.KindZypper))

	_, err = c.BeginScan()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, c.RequestUpdate(pkgmgr.KindFlatpak), ErrInvalidTransition)
}

func TestHandleEventCompletesUpdate(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})
	before := len(c.Lines())
	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))
	_, err := c.SubmitCredential(runner.NewSecret("pw"))
	require.NoError(t, err)

	c.HandleEvent(runner.Line("Updating org.gnome.Maps"))
	c.HandleEvent(runner.Line("Error: something odd"))
	assert.Equal(t, StateUpdating, c.State())
	c.HandleEvent(runner.Event{Kind: runner.KindProgress, Percent: 100})

	lines := c.Lines()
	assert.Equal(t, []string{"Updating org.gnome.Maps", "Error: something odd"}, lines[before:])
	assert.Equal(t, StateIdle, c.State())
	assert.True(t, c.ScanEnabled())
	assert.True(t, c.UpdateEnabled(pkgmgr.KindFlatpak))
	assert.False(t, c.UpdateEnabled(pkgmgr.KindZypper))
	assert.Equal(t, "Flatpak update finished.", c.Status())

	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))
	assert.ErrorIs(t, c.CancelCredential(), ErrCredentialRejected)
	assert.Equal(t, StateIdle, c.State())
}

func TestHandleEventReportsSudoFailure(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})
	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))
	_, err := c.SubmitCredential(runner.NewSecret("wrong"))
	require.NoError(t, err)

	c.HandleEvent(runner.Event{Kind: runner.KindProgress, Percent: 100, ExitCode: 1, Err: runner.ErrIncorrectPassword})
	assert.Equal(t, "Flatpak update failed: incorrect password.", c.Status())
	assert.ErrorIs(t, c.LastError(), runner.ErrIncorrectPassword)
}

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Prompt(ctx context.Context, label string) (runner.Secret, error) {
	args := m.Called(label)
	return args.Get(0).(runner.Secret), args.Error(1)
}

func TestConfirmUsesPrompter(t *testing.T) {
	c := New(Config{Elevate: []string{"doas"}})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})

	prompter := new(MockPrompter)
	prompter.On("Prompt", "Flatpak").Return(runner.NewSecret("pw"), nil)
	inv, err := c.Confirm(context.Background(), pkgmgr.KindFlatpak, prompter)
	require.NoError(t, err)
	assert.Equal(t, []string{"doas", "flatpak", "update", "-y"}, inv.Argv)
	prompter.AssertExpectations(t)
}

func TestConfirmCancelled(t *testing.T) {
	c := New(Config{})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})

	prompter := new(MockPrompter)
	prompter.On("Prompt", "Flatpak").Return(runner.Secret{}, ErrPromptCancelled)
	_, err := c.Confirm(context.Background(), pkgmgr.KindFlatpak, prompter)
	assert.ErrorIs(t, err, ErrCredentialRejected)
	assert.Equal(t, StateScanned, c.State())

	failing := PrompterFunc(func(context.Context, string) (runner.Secret, error) {
		return runner.Secret{}, errors.New("no tty")
	})
	_, err = c.Confirm(context.Background(), pkgmgr.KindFlatpak, failing)
	assert.ErrorIs(t, err, ErrCredentialRejected)
	assert.Contains(t, err.Error(), "no tty")
}

func TestUpdateEndToEndWithRunner(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	flatpak := bin.Add("flatpak", `echo unused`)

	c := New(Config{
		Backends: []pkgmgr.Backend{pkgmgr.NewBackend(pkgmgr.KindFlatpak, flatpak)},
		Elevate:  []string{"sh", "-c", `read pw; echo "pw:$pw"; echo "args:$*"`, "elevate"},
	})
	runScan(t, c, map[pkgmgr.Kind]scanOutcome{pkgmgr.KindFlatpak: {set: flatpakUpdates()}})
	require.NoError(t, c.RequestUpdate(pkgmgr.KindFlatpak))
	inv, err := c.SubmitCredential(runner.NewSecret("s3cr3t"))
	require.NoError(t, err)

	ch, err := runner.New().Start(inv)
	require.NoError(t, err)
	for ev := range ch {
		c.HandleEvent(ev)
	}

	lines := c.Lines()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "pw:s3cr3t", lines[len(lines)-2])
	assert.Equal(t, "args:"+flatpak+" update -y", lines[len(lines)-1])
	assert.Equal(t, StateIdle, c.State())
	assert.NoError(t, c.LastError())
}
