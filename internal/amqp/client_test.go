package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"furfolio/internal/audit"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestAuditEventMessageRoundTrip(t *testing.T) {
	e := audit.NewEvent("cli", audit.ActionAdd, audit.EntityCharge, "charge-1", "Full Package 75.00")

	body, err := NewAuditEventMessage(e).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := AuditEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Event.ID != e.ID {
		t.Fatalf("event ID lost: %v != %v", parsed.Event.ID, e.ID)
	}
	if parsed.Event.Action != e.Action || parsed.Event.Entity != e.Entity || parsed.Event.Detail != e.Detail {
		t.Fatalf("event fields lost: %+v", parsed.Event)
	}
	if !parsed.Event.Time.Equal(e.Time) {
		t.Fatalf("timestamp lost: %v != %v", parsed.Event.Time, e.Time)
	}
}

func TestAuditEventMessageFromInvalidJSON(t *testing.T) {
	if _, err := AuditEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestAuditSinkNilClient(t *testing.T) {
	sink := NewAuditSink(nil)
	// Must be a silent no-op, not a panic
	sink.Record(context.Background(), audit.NewEvent("cli", audit.ActionAdd, audit.EntityCharge, "c1", ""))
}
