package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomicstack/update-control/internal/logging"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
)

func newUpgradeCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "upgrade <flatpak|zypper>",
		Short:     "Apply pending updates for one backend as root",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"flatpak", "zypper"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := pkgmgr.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runUpgrade(cmd, s, kind)
		},
	}
}

func runUpgrade(cmd *cobra.Command, s *session, kind pkgmgr.Kind) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	ctrl := s.cfg.App.NewController()
	_, scanErr := scanAll(ctx, ctrl, s.newScanner())
	if scanErr != nil {
		logging.Error(scanErr)
	}
	printLog(out, ctrl)
	drainNotices(errOut, ctrl)
	if err := scanErrorFor(scanErr, kind); err != nil {
		return fmt.Errorf("check %s updates: %w", kind.Label(), err)
	}
	if !ctrl.UpdateEnabled(kind) {
		return nil
	}

	inv, err := ctrl.Confirm(ctx, kind, s.opts.Prompter)
	if err != nil {
		drainNotices(errOut, ctrl)
		return err
	}
	ch, err := s.opts.Runner.Start(inv)
	if err != nil {
		return fmt.Errorf("start %s update: %w", kind.Label(), err)
	}
	for ev := range ch {
		ctrl.HandleEvent(ev)
		if ev.Kind == runner.KindLine {
			fmt.Fprintln(out, ev.Text)
		}
	}
	if err := ctrl.LastError(); err != nil {
		PrintWarning(errOut, ctrl.Status())
		return fmt.Errorf("%s update: %w", kind.Label(), err)
	}
	PrintSuccess(out, ctrl.Status())
	return nil
}
