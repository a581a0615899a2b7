// Package ledger defines the ports for outbound record stores. The core
// never touches a store directly; services apply changes through these
// interfaces so any backend (memory, sqlite) can be injected.
package ledger

import (
	"context"
	"errors"

	"furfolio/internal/audit"
	"furfolio/internal/core"
)

// ErrChargeNotFound is returned by updates and deletes against an unknown
// charge ID.
var ErrChargeNotFound = errors.New("charge not found")

type (
	// ChargeStore is the CRUD surface for charge records.
	ChargeStore interface {
		// FetchAllCharges returns every stored charge, unfiltered.
		FetchAllCharges(ctx context.Context) ([]core.Charge, error)
		InsertCharge(ctx context.Context, c core.Charge) error
		UpdateCharge(ctx context.Context, c core.Charge) error
		DeleteCharge(ctx context.Context, id string) error
	}

	// ExpenseStore holds expense records. Expenses are append-only; they
	// are not part of the undo history.
	ExpenseStore interface {
		FetchAllExpenses(ctx context.Context) ([]core.Expense, error)
		InsertExpense(ctx context.Context, e core.Expense) error
	}

	// AuditStore persists audit events for the durable trail.
	AuditStore interface {
		AppendAuditEvent(ctx context.Context, e audit.Event) error
		ListAuditEvents(ctx context.Context, limit int) ([]audit.Event, error)
	}

	// Store is the unified backend surface the services are wired against.
	Store interface {
		ChargeStore
		ExpenseStore
	}
)
