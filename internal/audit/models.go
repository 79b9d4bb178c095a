package audit

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the closed set of audit event variants. Dispatch happens on Kind;
// there is no open-ended event hierarchy.
type Kind string

const (
	KindLogin         Kind = "login"
	KindOperation     Kind = "operation"
	KindTokenRotation Kind = "token_rotation"
)

// Outcome records how the audited action ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeDenied  Outcome = "denied"
	OutcomeRotated Outcome = "rotated"

	// OutcomeReplayDetected marks a refresh token replay. Distinct from
	// ordinary failures so operators can alert on it.
	OutcomeReplayDetected Outcome = "replay-detected"
)

// Event is emitted from domain logic to capture security-relevant actions.
// Keep it transport-agnostic so stores and sinks can fan out. One struct
// carries all variants; Kind says which payload fields are meaningful.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	UID       string    `json:"uid"`
	Username  string    `json:"username,omitempty"`
	Domain    string    `json:"domain"`
	Outcome   Outcome   `json:"outcome"`

	// Login payload
	IP string `json:"ip,omitempty"`

	// Operation payload
	Method   string        `json:"method,omitempty"`
	Resource string        `json:"resource,omitempty"`
	Action   string        `json:"action,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	// Shared
	RequestID string `json:"request_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// stamp fills identity and timestamp when the emitter left them zero. ULIDs
// give the durable trail a sortable primary key.
func (e *Event) stamp() {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
}

// NewLoginEvent builds a login event for the given principal identity.
func NewLoginEvent(uid, username, domain string, outcome Outcome, ip, requestID string) Event {
	return Event{
		Kind:      KindLogin,
		UID:       uid,
		Username:  username,
		Domain:    domain,
		Outcome:   outcome,
		IP:        ip,
		RequestID: requestID,
	}
}

// NewOperationEvent builds an operation event for an authenticated action.
func NewOperationEvent(uid, domain string, outcome Outcome, method, resource, action string, duration time.Duration, requestID string) Event {
	return Event{
		Kind:      KindOperation,
		UID:       uid,
		Domain:    domain,
		Outcome:   outcome,
		Method:    method,
		Resource:  resource,
		Action:    action,
		Duration:  duration,
		RequestID: requestID,
	}
}

// NewTokenRotationEvent builds a rotation event. Outcome is OutcomeRotated for
// a successful rotation or OutcomeReplayDetected for a replayed refresh token.
func NewTokenRotationEvent(uid, domain string, outcome Outcome, reason string) Event {
	return Event{
		Kind:    KindTokenRotation,
		UID:     uid,
		Domain:  domain,
		Outcome: outcome,
		Reason:  reason,
	}
}
