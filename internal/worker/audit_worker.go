// Package worker persists audit events arriving over AMQP into the
// durable audit trail. The in-process ring only keeps the recent tail;
// this worker is what makes the trail survive restarts.
package worker

import (
	"context"
	"fmt"
	"time"

	"furfolio/internal/amqp"
	"furfolio/internal/ledger"
	"furfolio/internal/log"
)

// Counter is implemented by stores that can report the trail size.
type Counter interface {
	CountAuditEvents(ctx context.Context) (int64, error)
}

// AuditWorker consumes audit event messages and appends them to the store.
type AuditWorker struct {
	store  ledger.AuditStore
	logger *log.Logger
}

func NewAuditWorker(store ledger.AuditStore, logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAuditMessage appends a single consumed event to the trail.
// Returning an error makes the consumer requeue the delivery.
func (w *AuditWorker) HandleAuditMessage(ctx context.Context, msg *amqp.AuditEventMessage) error {
	e := msg.Event
	if err := w.store.AppendAuditEvent(ctx, e); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	w.logger.InfoContext(ctx, "Audit event persisted",
		log.FieldEventID, e.ID.String(),
		log.FieldOperation, e.Action,
		log.FieldEntity, e.Entity)
	return nil
}

// StartupCheck logs the current trail size so operators can spot a wiped
// or misconfigured database right after deploy.
func (w *AuditWorker) StartupCheck(ctx context.Context) error {
	counter, ok := w.store.(Counter)
	if !ok {
		w.logger.InfoContext(ctx, "Audit store does not expose a count, skipping startup check")
		return nil
	}

	count, err := counter.CountAuditEvents(ctx)
	if err != nil {
		return fmt.Errorf("count audit events: %w", err)
	}

	w.logger.InfoContext(ctx, "Audit trail ready", "events", count)
	return nil
}

// RunPeriodicSummary logs the trail size at the given interval until the
// context is cancelled. Errors are logged, never fatal.
func (w *AuditWorker) RunPeriodicSummary(ctx context.Context, interval time.Duration) {
	counter, ok := w.store.(Counter)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := counter.CountAuditEvents(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "Failed to count audit events", log.FieldError, err)
				continue
			}
			w.logger.InfoContext(ctx, "Audit trail summary", "events", count)
		}
	}
}
