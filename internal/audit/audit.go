// Package audit provides an injectable event sink for mutation trails.
// Components that need auditing take a Sink; nothing in the module keeps
// process-wide audit state, so tests and parallel instances stay isolated.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"furfolio/internal/log"
)

const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionUndo   = "undo"
	ActionRedo   = "redo"
	ActionReport = "report"
)

const (
	EntityCharge  = "charge"
	EntityExpense = "expense"
	EntityReport  = "report"
)

// Event is one recorded action against a domain entity.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Time     time.Time `json:"time"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	Detail   string    `json:"detail,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(actor, action, entity, entityID, detail string) Event {
	return Event{
		ID:       uuid.New(),
		Time:     time.Now().UTC(),
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
}

// Sink receives audit events. Record must never fail the business operation
// that produced the event; implementations swallow or log their own errors.
type Sink interface {
	Record(ctx context.Context, e Event)
}

// LogSink writes every event to the structured log.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink returns a sink logging at info level.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger.WithComponent(log.ComponentAudit)}
}

func (s *LogSink) Record(ctx context.Context, e Event) {
	s.logger.InfoContext(ctx, "audit event",
		log.FieldEventID, e.ID.String(),
		log.FieldActor, e.Actor,
		log.FieldOperation, e.Action,
		log.FieldEntity, e.Entity,
		"entity_id", e.EntityID,
		"detail", e.Detail)
}

// MultiSink fans one event out to several sinks in order.
type MultiSink []Sink

func (s MultiSink) Record(ctx context.Context, e Event) {
	for _, sink := range s {
		sink.Record(ctx, e)
	}
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}
