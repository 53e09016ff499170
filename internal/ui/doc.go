// Package ui contains the Bubble Tea program that drives the updater. The
// package is structured so the Model type focuses on message orchestration,
// while the controller package owns the workflow rules.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Key presses go to the active modal surface first (credential form,
//     notice, or log filter). Every other message, and key presses while the
//     log has focus, is routed through a typed handler registry so each
//     tea.Msg is handled by a focused function.
//   - A scan is a chain of commands: scanRequestMsg starts it, each backend is
//     checked by a command issued through the command bus, and its
//     scanResultMsg issues the next one. Scans never overlap.
//
// State ownership:
//   - The display log, action triggers and workflow state live in
//     controller.Controller. The model only reads them when rendering and
//     calls controller operations in response to messages.
//   - Blocking notices queued by the controller are shown one at a time
//     whenever the log has focus.
//
// Update execution:
//   - Submitting the credential form yields a runner.Invocation, which is
//     handed to runner.Runner. Update waits for runner events with
//     waitForRunnerEvent and feeds each one back to the controller until the
//     channel closes.
package ui
