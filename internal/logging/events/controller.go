package events

import "github.com/atomicstack/update-control/internal/logging"

type ControllerTracer struct{}

type CredentialReason string

const (
	CredentialReasonCancel CredentialReason = "cancel"
	CredentialReasonEmpty  CredentialReason = "empty"
)

var Controller = ControllerTracer{}

func (ControllerTracer) Transition(from, to string) {
	logging.Trace("controller.transition", map[string]interface{}{"from": from, "to": to})
}

func (ControllerTracer) Rejected(op, state string) {
	logging.Trace("controller.rejected", map[string]interface{}{"op": op, "state": state})
}

func (ControllerTracer) CredentialRequested(backend string) {
	logging.Trace("credential.request", map[string]interface{}{"backend": backend})
}

func (ControllerTracer) CredentialAccepted(backend string) {
	logging.Trace("credential.accept", map[string]interface{}{"backend": backend})
}

func (ControllerTracer) CredentialRejected(backend string, reason CredentialReason) {
	logging.Trace("credential.reject", map[string]interface{}{"backend": backend, "reason": string(reason)})
}

func (ControllerTracer) Notice(title, text string) {
	logging.Trace("controller.notice", map[string]interface{}{"title": title, "text": text})
}
