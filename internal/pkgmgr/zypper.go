package pkgmgr

import "strings"

const (
	zypperHeaderPrefix    = "S  |"
	zypperSeparatorPrefix = "---+"
)

// ParseZypper filters pipe-delimited `zypper list-updates` output down to the
// header, the separator and the update rows. Output without a header is
// treated as having no updates.
func ParseZypper(lines []string) UpdateSet {
	set := Empty(KindZypper)
	header, ok := firstWithPrefix(lines, zypperHeaderPrefix)
	if !ok {
		return set
	}
	separator, _ := firstWithPrefix(lines, zypperSeparatorPrefix)

	var data []string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if !isZypperDataLine(line) {
			continue
		}
		data = append(data, line)
		set.Records = append(set.Records, zypperRecord(line))
	}
	if len(data) == 0 {
		return set
	}
	set.Lines = append(set.Lines, strings.TrimRight(header, "\r"), strings.TrimRight(separator, "\r"))
	set.Lines = append(set.Lines, data...)
	set.HasUpdates = true
	return set
}

func firstWithPrefix(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

// isZypperDataLine accepts rows whose status column is "v" (upgrade), "p"
// (patch) or blank.
func isZypperDataLine(line string) bool {
	if line == "" || !strings.Contains(line, "|") {
		return false
	}
	switch line[0] {
	case 'v', ' ', 'p':
		return true
	default:
		return false
	}
}

// zypperRecord splits a row laid out as
// S | Repository | Name | Current Version | Available Version | Arch.
func zypperRecord(line string) Record {
	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		Size:    get(0),
		Origin:  get(1),
		Name:    get(2),
		Version: get(4),
		Arch:    get(5),
	}
}
