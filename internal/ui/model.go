package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/atomicstack/update-control/internal/theme"
	"github.com/atomicstack/update-control/internal/ui/command"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeLog Mode = iota
	ModeCredential
	ModeNotice
	ModeFilter
)

func (m Mode) String() string {
	switch m {
	case ModeLog:
		return "log"
	case ModeCredential:
		return "credential"
	case ModeNotice:
		return "notice"
	case ModeFilter:
		return "filter"
	default:
		return "unknown"
	}
}

const (
	appTitle             = "update-control"
	defaultProgressWidth = 40
	maxProgressWidth     = 60
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to its collaborators. Nil collaborators are
// replaced with defaults.
type Options struct {
	Controller *controller.Controller
	Scanner    *pkgmgr.Scanner
	Runner     *runner.Runner
	Context    context.Context
	Width      int
	Height     int
	Verbose    bool
	AutoScan   bool
}

// Model implements the Bubble Tea model for the updater.
type Model struct {
	ctrl    *controller.Controller
	scanner *pkgmgr.Scanner
	runner  *runner.Runner
	bus     *command.Bus
	events  <-chan runner.Event

	mode        Mode
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	verbose     bool
	autoScan    bool

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	progress progress.Model
	follow   bool
	logView  logView

	credential  *CredentialForm
	filter      textinput.Model
	filterQuery string
	notice      *controller.Notice

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state and configuration.
func NewModel(opts Options) *Model {
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = controller.New(controller.Config{})
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = pkgmgr.NewScanner(nil)
	}
	run := opts.Runner
	if run == nil {
		run = runner.New()
	}
	m := &Model{
		ctrl:     ctrl,
		scanner:  scanner,
		runner:   run,
		bus:      command.New(opts.Context),
		mode:     ModeLog,
		verbose:  opts.Verbose,
		autoScan: opts.AutoScan,
		keys:     newKeyMap(),
		help:     help.New(),
		follow:   true,
		filter:   newFilterInput(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.viewport = viewport.New(0, 0)
	m.keys.applyViewport(&m.viewport)
	m.progress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultProgressWidth))
	m.registerHandlers()
	m.layout()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if !m.autoScan {
		return nil
	}
	return requestScan
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// handleActiveForm routes key presses to the modal surface that owns them.
// Everything else still reaches the typed handlers so scans and runner events
// keep flowing while a form is open.
func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return false, nil
	}
	switch m.mode {
	case ModeCredential:
		return m.handleCredentialForm(msg)
	case ModeNotice:
		return m.handleNoticeKey(msg)
	case ModeFilter:
		return m.handleFilterInput(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(scanRequestMsg{}):    m.handleScanRequestMsg,
		reflect.TypeOf(scanResultMsg{}):     m.handleScanResultMsg,
		reflect.TypeOf(runnerEventMsg{}):    m.handleRunnerEventMsg,
		reflect.TypeOf(runnerDoneMsg{}):     m.handleRunnerDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate syncs derived view state after every message and surfaces the
// next queued notice once no other modal is open.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.showNextNotice()
	m.refreshLog()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Controller exposes the workflow controller driven by the model.
func (m *Model) Controller() *controller.Controller {
	return m.ctrl
}

// Mode reports the active input surface.
func (m *Model) Mode() Mode {
	return m.mode
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
