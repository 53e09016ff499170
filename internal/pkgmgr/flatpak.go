package pkgmgr

import (
	"strings"

	"github.com/atomicstack/update-control/internal/format/table"
)

var (
	flatpakColumns = []string{"ID", "Arch", "Branch", "Origin", "Download"}
	flatpakWidths  = []int{30, 12, 8, 12, 12}
)

const flatpakFields = 5

// ParseFlatpak turns tab-separated `flatpak remote-ls` output into an update
// set. Records with fewer than five fields are dropped.
func ParseFlatpak(lines []string) UpdateSet {
	set := Empty(KindFlatpak)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(parts) < flatpakFields {
			continue
		}
		parts = parts[:flatpakFields]
		set.Records = append(set.Records, Record{
			Name:    parts[0],
			Arch:    parts[1],
			Version: parts[2],
			Origin:  parts[3],
			Size:    parts[4],
		})
		rows = append(rows, parts)
	}
	if len(rows) == 0 {
		return set
	}
	header := table.FixedRow(flatpakColumns, flatpakWidths)
	set.Lines = append(set.Lines, header, table.Separator(header))
	set.Lines = append(set.Lines, table.Fixed(rows, flatpakWidths)...)
	set.HasUpdates = true
	return set
}
