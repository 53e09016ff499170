package runner

// Kind tags the payload carried by an Event.
type Kind int

const (
	KindLine Kind = iota
	KindProgress
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Event is a single message from a running invocation. Line events carry one
// line of output; the final Progress event reports 100 and, on the terminal
// event only, the exit code and classified failure cause.
type Event struct {
	Kind     Kind
	Text     string
	Percent  int
	ExitCode int
	Err      error
}

// Line builds a line event.
func Line(text string) Event {
	return Event{Kind: KindLine, Text: text}
}

// Progress builds a progress event.
func Progress(percent int) Event {
	return Event{Kind: KindProgress, Percent: percent}
}

// Terminal reports whether e is the completion signal.
func (e Event) Terminal() bool {
	return e.Kind == KindProgress && e.Percent >= 100
}
