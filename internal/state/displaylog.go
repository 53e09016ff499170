package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DisplayLog is the append-only record of scan and update output shown to
// the user. It is cleared only when a new scan begins.
type DisplayLog interface {
	Append(lines ...string)
	Reset()
	Lines() []string
	Len() int
	// Since returns the lines appended after the first n.
	Since(n int) []string
	// Generation changes every time the log is reset.
	Generation() uint64
	Filter(query string) []string
}

type displayLog struct {
	lines      []string
	generation uint64
}

func NewDisplayLog() DisplayLog {
	return &displayLog{}
}

func (l *displayLog) Append(lines ...string) {
	l.lines = append(l.lines, lines...)
}

func (l *displayLog) Reset() {
	l.lines = nil
	l.generation++
}

func (l *displayLog) Lines() []string {
	return cloneLines(l.lines)
}

func (l *displayLog) Len() int {
	return len(l.lines)
}

func (l *displayLog) Since(n int) []string {
	if n < 0 {
		n = 0
	}
	if n >= len(l.lines) {
		return nil
	}
	return cloneLines(l.lines[n:])
}

func (l *displayLog) Generation() uint64 {
	return l.generation
}

// Matches reports whether line is kept by the filter query.
func Matches(query, line string) bool {
	query = strings.TrimSpace(query)
	return query == "" || fuzzy.MatchNormalizedFold(query, line)
}

// Filter returns the lines fuzzily matching query, in log order. An empty
// query returns every line.
func (l *displayLog) Filter(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return l.Lines()
	}
	var out []string
	for _, line := range l.lines {
		if Matches(query, line) {
			out = append(out, line)
		}
	}
	return out
}

func cloneLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]string, len(lines))
	copy(dup, lines)
	return dup
}
