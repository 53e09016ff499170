package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/atomicstack/update-control/internal/app"
	"github.com/atomicstack/update-control/internal/controller"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	flagConfig   = "config"
	flagWidth    = "width"
	flagHeight   = "height"
	flagVerbose  = "verbose"
	flagTrace    = "trace"
	flagLogFile  = "log-file"
	flagFlatpak  = "flatpak-bin"
	flagZypper   = "zypper-bin"
	flagElevate  = "elevate"
	flagAutoScan = "auto-scan"
)

const (
	envConfig   = "UPDATE_CONTROL_CONFIG"
	envWidth    = "UPDATE_CONTROL_WIDTH"
	envHeight   = "UPDATE_CONTROL_HEIGHT"
	envVerbose  = "UPDATE_CONTROL_VERBOSE"
	envTrace    = "UPDATE_CONTROL_TRACE"
	envLogFile  = "UPDATE_CONTROL_LOG_FILE"
	envFlatpak  = "UPDATE_CONTROL_FLATPAK_BIN"
	envZypper   = "UPDATE_CONTROL_ZYPPER_BIN"
	envElevate  = "UPDATE_CONTROL_ELEVATE"
	envAutoScan = "UPDATE_CONTROL_AUTO_SCAN"
)

var envByFlag = map[string]string{
	flagConfig:   envConfig,
	flagWidth:    envWidth,
	flagHeight:   envHeight,
	flagVerbose:  envVerbose,
	flagTrace:    envTrace,
	flagLogFile:  envLogFile,
	flagFlatpak:  envFlatpak,
	flagZypper:   envZypper,
	flagElevate:  envElevate,
	flagAutoScan: envAutoScan,
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "path to a YAML config file (default $XDG_CONFIG_HOME/update-control/config.yaml)")
	fs.Int(flagWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(flagHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool(flagVerbose, false, "show the full status line and key help")
	fs.Bool(flagTrace, false, "enable verbose JSON trace logging")
	fs.String(flagLogFile, "", "path to the log file")
	fs.String(flagFlatpak, "flatpak", "flatpak executable")
	fs.String(flagZypper, "zypper", "zypper executable")
	fs.StringSlice(flagElevate, controller.DefaultElevate, "comma-separated elevation prefix that reads the password from stdin")
	fs.Bool(flagAutoScan, false, "check for updates as soon as the interface starts")
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("update-control", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Resolve(fs, args, environ)
}

// Resolve builds the configuration from an already parsed flag set. Values
// come from flags first, then UPDATE_CONTROL_* variables, then the config
// file, then flag defaults. Unparseable environment values are ignored.
func Resolve(fs *pflag.FlagSet, args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	overlayEnv(fs, env)

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	file := ""
	path, explicit := configPath(fs, env)
	if path != "" {
		_, statErr := os.Stat(path)
		if statErr == nil || explicit {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			file = path
		}
	}

	width := v.GetInt(flagWidth)
	height := v.GetInt(flagHeight)
	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}
	verbose := v.GetBool(flagVerbose)
	trace := v.GetBool(flagTrace)
	logFile := v.GetString(flagLogFile)
	flatpakBin := strings.TrimSpace(v.GetString(flagFlatpak))
	zypperBin := strings.TrimSpace(v.GetString(flagZypper))
	elevate := v.GetStringSlice(flagElevate)
	autoScan := v.GetBool(flagAutoScan)

	cfg := Config{
		App: app.Config{
			Width:      width,
			Height:     height,
			Verbose:    verbose,
			AutoScan:   autoScan,
			FlatpakBin: flatpakBin,
			ZypperBin:  zypperBin,
			Elevate:    append([]string(nil), elevate...),
		},
		Logging: Logging{
			FilePath: logFile,
			Trace:    trace,
		},
		File: file,
		Flags: map[string]string{
			"config":     file,
			"width":      strconv.Itoa(width),
			"height":     strconv.Itoa(height),
			"verbose":    strconv.FormatBool(verbose),
			"trace":      strconv.FormatBool(trace),
			"logFile":    logFile,
			"flatpakBin": flatpakBin,
			"zypperBin":  zypperBin,
			"elevate":    strings.Join(elevate, " "),
			"autoScan":   strconv.FormatBool(autoScan),
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// overlayEnv applies environment values to flags the user did not set.
func overlayEnv(fs *pflag.FlagSet, env map[string]string) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key, ok := envByFlag[f.Name]
		if !ok {
			return
		}
		value, ok := env[key]
		if !ok || strings.TrimSpace(value) == "" {
			return
		}
		_ = fs.Set(f.Name, value)
	})
}

func configPath(fs *pflag.FlagSet, env map[string]string) (string, bool) {
	if f := fs.Lookup(flagConfig); f != nil && f.Value.String() != "" {
		return f.Value.String(), true
	}
	base := envOrDefault(env, "XDG_CONFIG_HOME", "")
	if base == "" {
		home := envOrDefault(env, "HOME", "")
		if home == "" {
			return "", false
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "update-control", "config.yaml"), false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	var result *multierror.Error
	if cfg.App.Width < 0 || cfg.App.Height < 0 {
		result = multierror.Append(result, fmt.Errorf("dimensions must be >= 0 (got %dx%d)", cfg.App.Width, cfg.App.Height))
	}
	if cfg.App.FlatpakBin == "" {
		result = multierror.Append(result, errors.New("flatpak executable must not be empty"))
	}
	if cfg.App.ZypperBin == "" {
		result = multierror.Append(result, errors.New("zypper executable must not be empty"))
	}
	if len(cfg.App.Elevate) == 0 || strings.TrimSpace(cfg.App.Elevate[0]) == "" {
		result = multierror.Append(result, errors.New("elevation prefix must name a command"))
	}
	return result.ErrorOrNil()
}
