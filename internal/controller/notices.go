package controller

import (
	"errors"
	"fmt"

	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
)

func scanNotice(kind pkgmgr.Kind, err error) Notice {
	var nf *pkgmgr.NotFoundError
	var reported *pkgmgr.ReportedError
	switch {
	case errors.As(err, &nf):
		return Notice{
			Title: "Error",
			Text:  fmt.Sprintf("The command '%s' was not found. Make sure %s is installed.", nf.Binary, kind),
		}
	case errors.As(err, &reported):
		return Notice{
			Title: fmt.Sprintf("Error checking %s", kind.Label()),
			Text:  fmt.Sprintf("Failed to check %s updates:\n%s", kind.Label(), reported.Message),
		}
	default:
		return Notice{
			Title: "Error",
			Text:  fmt.Sprintf("Error checking %s: %v", kind, err),
		}
	}
}

func completionStatus(label string, cause error) string {
	switch {
	case cause == nil:
		return fmt.Sprintf("%s update finished.", label)
	case errors.Is(cause, runner.ErrIncorrectPassword):
		return fmt.Sprintf("%s update failed: incorrect password.", label)
	case errors.Is(cause, runner.ErrNotSudoer):
		return fmt.Sprintf("%s update failed: user may not run sudo.", label)
	default:
		return fmt.Sprintf("%s update finished with errors.", label)
	}
}
