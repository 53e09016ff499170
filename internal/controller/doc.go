// Package controller holds the state machine behind the update workflow:
// scan every backend, display the results, enable the matching update
// actions, confirm a credential and run one privileged update at a time.
//
// The controller performs no I/O. Front-ends run scans and the runner on
// their own schedule and feed the outcomes back through RecordScan and
// HandleEvent, so the same rules apply to the TUI and the CLI.
package controller
