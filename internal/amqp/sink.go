package amqp

import (
	"context"
	"log/slog"

	"furfolio/internal/audit"
)

// AuditSink publishes audit events to the queue. It satisfies audit.Sink:
// publish failures are logged and swallowed so a broker outage never fails
// the mutation that produced the event.
type AuditSink struct {
	client *Client
}

// NewAuditSink wraps a client. A nil client yields a sink that drops
// everything, which keeps wiring simple when AMQP is not configured.
func NewAuditSink(client *Client) *AuditSink {
	return &AuditSink{client: client}
}

func (s *AuditSink) Record(ctx context.Context, e audit.Event) {
	if s.client == nil {
		return
	}
	if err := s.client.PublishAuditEvent(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish audit event",
			"error", err,
			"event_id", e.ID.String(),
			"action", e.Action)
	}
}
