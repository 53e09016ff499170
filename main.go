package main

import (
	"os"
	"os/exec"

	"github.com/atomicstack/update-control/internal/app"
	"github.com/atomicstack/update-control/internal/cli"
	"github.com/atomicstack/update-control/internal/config"
	"github.com/atomicstack/update-control/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], cli.Options{OnStart: traceStartup}))
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg, os.Stdin, os.Stdout))
}

// startupTracePayload records what a "command not found" or password prompt
// problem report needs: where each configured tool resolves and whether the
// session can prompt at all.
func startupTracePayload(cfg config.Config, in, out *os.File) map[string]interface{} {
	settings := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		settings[k] = v
	}
	settings["trace"] = cfg.Logging.Trace
	settings["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"settings": settings,
		"config":   cfg,
		"tools":    resolveTools(cfg.App),
		"terminal": inspectTerminal(in, out),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	return payload
}

type toolPath struct {
	Role    string `json:"role"`
	Command string `json:"command"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// resolveTools looks up the backend binaries and the elevation command on
// PATH the same way the scanner and runner will.
func resolveTools(cfg app.Config) []toolPath {
	tools := []toolPath{
		{Role: "flatpak", Command: cfg.FlatpakBin},
		{Role: "zypper", Command: cfg.ZypperBin},
	}
	if len(cfg.Elevate) > 0 {
		tools = append(tools, toolPath{Role: "elevate", Command: cfg.Elevate[0]})
	}
	for i := range tools {
		if tools[i].Command == "" {
			tools[i].Error = "not configured"
			continue
		}
		path, err := exec.LookPath(tools[i].Command)
		if err != nil {
			tools[i].Error = err.Error()
			continue
		}
		tools[i].Path = path
	}
	return tools
}

type terminalInfo struct {
	Interactive bool   `json:"interactive"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

// inspectTerminal reports whether the interface can run and the password can
// be read without echo: both ends have to be terminals.
func inspectTerminal(in, out *os.File) terminalInfo {
	if in == nil || out == nil {
		return terminalInfo{}
	}
	info := terminalInfo{
		Interactive: term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())),
	}
	if !info.Interactive {
		return info
	}
	width, height, err := term.GetSize(int(out.Fd()))
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Width, info.Height = width, height
	return info
}
