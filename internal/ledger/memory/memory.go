// Package memory is the in-memory ledger store: the default backend for the
// CLI and the store tests run against.
package memory

import (
	"context"
	"sync"

	"furfolio/internal/audit"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	charges  []core.Charge
	expenses []core.Expense
	events   []audit.Event
}

func New() *Store {
	return &Store{}
}

// FetchAllCharges implements ledger.ChargeStore.
func (s *Store) FetchAllCharges(_ context.Context) ([]core.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Charge, len(s.charges))
	copy(out, s.charges)
	return out, nil
}

// InsertCharge implements ledger.ChargeStore.
func (s *Store) InsertCharge(_ context.Context, c core.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges = append(s.charges, c)
	return nil
}

// UpdateCharge implements ledger.ChargeStore.
func (s *Store) UpdateCharge(_ context.Context, c core.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.charges {
		if s.charges[i].ID == c.ID {
			s.charges[i] = c
			return nil
		}
	}
	return ledger.ErrChargeNotFound
}

// DeleteCharge implements ledger.ChargeStore.
func (s *Store) DeleteCharge(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.charges {
		if s.charges[i].ID.String() == id {
			s.charges = append(s.charges[:i], s.charges[i+1:]...)
			return nil
		}
	}
	return ledger.ErrChargeNotFound
}

// FetchAllExpenses implements ledger.ExpenseStore.
func (s *Store) FetchAllExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

// InsertExpense implements ledger.ExpenseStore.
func (s *Store) InsertExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

// AppendAuditEvent implements ledger.AuditStore.
func (s *Store) AppendAuditEvent(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// ListAuditEvents implements ledger.AuditStore. Events come back newest
// first; limit <= 0 means all.
func (s *Store) ListAuditEvents(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Event, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		out = append(out, s.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
