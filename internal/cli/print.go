package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/theme"
)

const (
	errorPrefix   = "✗ Error: "
	warningPrefix = "⚠ Warning: "
	successPrefix = "✓ "
)

var styles = theme.Default()

func PrintError(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(w, styles.Error.Render(errorPrefix+err.Error()))
	}
}

func PrintWarning(w io.Writer, message string) {
	if message != "" {
		fmt.Fprintln(w, styles.NoticeWarning.Render(warningPrefix+message))
	}
}

func PrintSuccess(w io.Writer, message string) {
	if message != "" {
		fmt.Fprintln(w, styles.Status.Render(successPrefix+message))
	}
}

// drainNotices prints and discards every queued controller notice. Notice
// texts are complete sentences, so the title is left to the prefix.
func drainNotices(w io.Writer, ctrl *controller.Controller) {
	for {
		notice, ok := ctrl.PopNotice()
		if !ok {
			return
		}
		text := strings.Join(strings.Fields(notice.Text), " ")
		if notice.Warning {
			PrintWarning(w, text)
			continue
		}
		fmt.Fprintln(w, styles.Error.Render(errorPrefix+text))
	}
}
