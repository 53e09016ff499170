package events

import "github.com/atomicstack/update-control/internal/logging"

type RunnerTracer struct{}

var Runner = RunnerTracer{}

// Start records the argument vector. The secret itself is never traced, only
// whether one was supplied.
func (RunnerTracer) Start(argv []string, withSecret bool) {
	logging.Trace("runner.start", map[string]interface{}{"argv": argv, "secret": withSecret})
}

func (RunnerTracer) Busy(argv []string) {
	logging.Trace("runner.busy", map[string]interface{}{"argv": argv})
}

func (RunnerTracer) Missing(binary string) {
	logging.Trace("runner.missing", map[string]interface{}{"binary": binary})
}

func (RunnerTracer) Failure(stage string, err error) {
	if err == nil {
		return
	}
	logging.Trace("runner.failure", map[string]interface{}{"stage": stage, "error": err.Error()})
}

func (RunnerTracer) Finish(exitCode int, lines int, cause error) {
	payload := map[string]interface{}{"exit": exitCode, "lines": lines}
	if cause != nil {
		payload["cause"] = cause.Error()
	}
	logging.Trace("runner.finish", payload)
}
