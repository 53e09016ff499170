package events

import "github.com/atomicstack/update-control/internal/logging"

type ScanTracer struct{}

var Scan = ScanTracer{}

func (ScanTracer) Begin(backends []string) {
	logging.Trace("scan.begin", map[string]interface{}{"backends": backends})
}

func (ScanTracer) Exec(backend string, argv []string) {
	logging.Trace("scan.exec", map[string]interface{}{"backend": backend, "argv": argv})
}

func (ScanTracer) Result(backend string, records int) {
	logging.Trace("scan.result", map[string]interface{}{"backend": backend, "records": records})
}

func (ScanTracer) Error(backend string, err error) {
	if err == nil {
		return
	}
	logging.Trace("scan.error", map[string]interface{}{"backend": backend, "error": err.Error()})
}

func (ScanTracer) Finish(available []string) {
	logging.Trace("scan.finish", map[string]interface{}{"available": available})
}
