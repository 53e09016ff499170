package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/format/table"
	"github.com/atomicstack/update-control/internal/pkgmgr"
)

func newScanCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List pending updates for every backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := s.cfg.App.NewController()
			sets, err := scanAll(cmd.Context(), ctrl, s.newScanner())
			printLog(cmd.OutOrStdout(), ctrl)
			fmt.Fprintln(cmd.OutOrStdout())
			printSummary(cmd.OutOrStdout(), sets, err)
			drainNotices(cmd.ErrOrStderr(), ctrl)
			return err
		},
	}
}

// scanAll runs one controller scan section over every backend. Failures are
// recorded on the controller as notices and aggregated into the returned
// error; the remaining backends are still scanned.
func scanAll(ctx context.Context, ctrl *controller.Controller, scanner *pkgmgr.Scanner) (map[pkgmgr.Kind]*pkgmgr.UpdateSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := ctrl.BeginScan(); err != nil {
		return nil, err
	}
	sets := map[pkgmgr.Kind]*pkgmgr.UpdateSet{}
	_, err := scanner.ScanAll(ctx, func(kind pkgmgr.Kind, set pkgmgr.UpdateSet, err error) {
		ctrl.NextScan()
		ctrl.RecordScan(kind, set, err)
		if err != nil {
			sets[kind] = nil
			return
		}
		sets[kind] = &set
	})
	ctrl.FinishScan()
	return sets, err
}

// scanErrorFor picks the failure of kind out of an aggregated scan error.
func scanErrorFor(err error, kind pkgmgr.Kind) error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return nil
	}
	for _, e := range merr.Errors {
		var nf *pkgmgr.NotFoundError
		if errors.As(e, &nf) && nf.Kind == kind {
			return e
		}
		var re *pkgmgr.ReportedError
		if errors.As(e, &re) && re.Kind == kind {
			return e
		}
	}
	return nil
}

func printLog(w io.Writer, ctrl *controller.Controller) {
	for _, line := range ctrl.Lines() {
		fmt.Fprintln(w, line)
	}
}

func printSummary(w io.Writer, sets map[pkgmgr.Kind]*pkgmgr.UpdateSet, err error) {
	rows := [][]string{{"Backend", "Updates"}}
	for _, kind := range pkgmgr.Kinds {
		set, ok := sets[kind]
		if !ok {
			continue
		}
		count := "error"
		if set != nil {
			count = strconv.Itoa(len(set.Records))
		}
		rows = append(rows, []string{kind.Label(), count})
	}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight}) {
		fmt.Fprintln(w, line)
	}
	if err == nil {
		PrintSuccess(w, "Update check complete.")
	}
}
