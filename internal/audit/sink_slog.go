package audit

import (
	"context"
	"log/slog"
)

// SlogSink writes every audit event to the structured log. It is the always-on
// subscriber: even when the durable sinks are down, the trail still lands in
// the log stream.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps a logger as a pipeline subscriber.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.With("component", "audit")}
}

// Handle logs one event. Never returns an error.
func (s *SlogSink) Handle(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit_event",
		"event_id", event.ID,
		"kind", event.Kind,
		"uid", event.UID,
		"domain", event.Domain,
		"outcome", event.Outcome,
		"resource", event.Resource,
		"action", event.Action,
		"request_id", event.RequestID,
		"reason", event.Reason,
	)
	return nil
}
