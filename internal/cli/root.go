// Package cli wires the cobra command tree. The root command starts the
// interactive interface; scan and upgrade drive the same controller from a
// plain terminal.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicstack/update-control/internal/app"
	"github.com/atomicstack/update-control/internal/config"
	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/logging"
	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
)

// Options carries the process-level collaborators. Zero values select the
// real terminal, environment and executables.
type Options struct {
	Stdin    *os.File
	Stdout   io.Writer
	Stderr   io.Writer
	Environ  []string
	Prompter controller.Prompter
	Executor pkgmgr.Executor
	Runner   *runner.Runner
	OnStart  func(config.Config)
	RunTUI   func(app.Config) error
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Environ == nil {
		o.Environ = os.Environ()
	}
	if o.Prompter == nil {
		o.Prompter = TerminalPrompter{In: o.Stdin, Out: o.Stderr}
	}
	if o.Runner == nil {
		o.Runner = runner.New()
	}
	if o.RunTUI == nil {
		o.RunTUI = app.Run
	}
	return o
}

// ConfigError marks failures to resolve or validate the configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// session holds the configuration resolved for the running command.
type session struct {
	opts Options
	args []string
	cfg  config.Config
}

func (s *session) load(cmd *cobra.Command) error {
	cfg, err := config.Resolve(cmd.Flags(), s.args, s.opts.Environ)
	if err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Validate(cfg); err != nil {
		return &ConfigError{Err: err}
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	if s.opts.OnStart != nil {
		s.opts.OnStart(cfg)
	}
	s.cfg = cfg
	return nil
}

func (s *session) newScanner() *pkgmgr.Scanner {
	return pkgmgr.NewScanner(s.opts.Executor, s.cfg.App.Backends()...)
}

// NewRootCommand builds the command tree for args.
func NewRootCommand(args []string, opts Options) *cobra.Command {
	opts = opts.withDefaults()
	s := &session{opts: opts, args: append([]string{}, args...)}
	root := &cobra.Command{
		Use:           "update-control",
		Short:         "Check for and apply Flatpak and openSUSE updates",
		Long:          "update-control checks Flatpak and zypper for pending updates and applies them as root.\nWithout a subcommand it starts the interactive interface.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.load(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return s.opts.RunTUI(s.cfg.App)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ConfigError{Err: err}
	})
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetArgs(s.args)
	root.AddCommand(newScanCommand(s), newUpgradeCommand(s))
	return root
}

// Execute runs the command tree and returns the process exit code:
// 0 on success, 2 for configuration errors and 1 otherwise.
func Execute(args []string, opts Options) int {
	opts = opts.withDefaults()
	err := NewRootCommand(args, opts).Execute()
	events.App.Exit(err)
	defer logging.Close()
	if err == nil {
		return 0
	}
	logging.Error(err)
	PrintError(opts.Stderr, err)
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
