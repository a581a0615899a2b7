package worker

import (
	"context"
	"errors"
	"testing"

	"furfolio/internal/amqp"
	"furfolio/internal/audit"
	"furfolio/internal/ledger/memory"
	"furfolio/internal/log"
)

type failingStore struct{}

func (failingStore) AppendAuditEvent(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func (failingStore) ListAuditEvents(context.Context, int) ([]audit.Event, error) {
	return nil, nil
}

func TestHandleAuditMessagePersistsEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewAuditWorker(store, log.New(log.DefaultConfig()))

	e := audit.NewEvent("cli", audit.ActionAdd, audit.EntityCharge, "charge-1", "Full Package 75.00")
	if err := w.HandleAuditMessage(ctx, amqp.NewAuditEventMessage(e)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	events, err := store.ListAuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].ID != e.ID {
		t.Fatalf("event not persisted: %+v", events)
	}
}

func TestHandleAuditMessagePropagatesStoreError(t *testing.T) {
	w := NewAuditWorker(failingStore{}, log.New(log.DefaultConfig()))

	e := audit.NewEvent("cli", audit.ActionDelete, audit.EntityCharge, "charge-2", "")
	if err := w.HandleAuditMessage(context.Background(), amqp.NewAuditEventMessage(e)); err == nil {
		t.Fatal("expected error so the delivery gets requeued")
	}
}

func TestStartupCheckWithoutCounterIsNoop(t *testing.T) {
	w := NewAuditWorker(failingStore{}, log.New(log.DefaultConfig()))
	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("startup check without a counter must not fail: %v", err)
	}
}
