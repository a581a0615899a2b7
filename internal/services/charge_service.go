// Package services wires the core logic to the injected stores: it is the
// caller that applies recorded changes (and their inverses) to persistence,
// which the core itself never touches.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"furfolio/internal/audit"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
	"furfolio/internal/log"
)

// ErrIDMismatch is returned when an edit's before and after images do not
// refer to the same charge.
var ErrIDMismatch = errors.New("edit images refer to different charges")

// ChargeService orchestrates charge mutations: every add, edit and delete
// goes to the store, into the undo history and out to the audit sink.
// A mutex serializes access since compound record/undo sequences on the
// history are not atomic.
type ChargeService struct {
	mu         sync.Mutex
	store      ledger.Store
	history    *core.ChangeHistory
	sink       audit.Sink
	logger     *log.Logger
	actor      string
	invalidate func() // report cache hook, may be nil
}

func NewChargeService(store ledger.Store, sink audit.Sink, logger *log.Logger, actor string, invalidate func()) *ChargeService {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &ChargeService{
		store:      store,
		history:    core.NewChangeHistory(),
		sink:       sink,
		logger:     logger.WithComponent(log.ComponentCharge),
		actor:      actor,
		invalidate: invalidate,
	}
}

// AddCharge inserts a new charge and records the change.
func (s *ChargeService) AddCharge(ctx context.Context, c core.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.InsertCharge(ctx, c); err != nil {
		return fmt.Errorf("insert charge: %w", err)
	}
	s.history.RecordAdd(c)
	s.afterMutation(ctx, audit.ActionAdd, c)

	s.logger.InfoContext(ctx, "Charge added", log.NewFields().
		WithOperation(log.OpAdd).
		WithCharge(c.ID.String(), c.Type, c.Amount.Cents, string(c.Method)).
		ToSlice()...)
	return nil
}

// EditCharge replaces old with new. Both images must carry the same ID;
// the old image is kept so the edit can be undone.
func (s *ChargeService) EditCharge(ctx context.Context, old, new core.Charge) error {
	if old.ID != new.ID {
		return ErrIDMismatch
	}
	if err := new.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateCharge(ctx, new); err != nil {
		return fmt.Errorf("update charge: %w", err)
	}
	s.history.RecordEdit(old, new)
	s.afterMutation(ctx, audit.ActionEdit, new)

	s.logger.InfoContext(ctx, "Charge edited", log.NewFields().
		WithOperation(log.OpEdit).
		WithCharge(new.ID.String(), new.Type, new.Amount.Cents, string(new.Method)).
		ToSlice()...)
	return nil
}

// DeleteCharge removes a charge, keeping its full image in the history so
// the delete can be undone.
func (s *ChargeService) DeleteCharge(ctx context.Context, c core.Charge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteCharge(ctx, c.ID.String()); err != nil {
		return fmt.Errorf("delete charge: %w", err)
	}
	s.history.RecordDelete(c)
	s.afterMutation(ctx, audit.ActionDelete, c)

	s.logger.InfoContext(ctx, "Charge deleted", log.NewFields().
		WithOperation(log.OpDelete).
		WithCharge(c.ID.String(), c.Type, c.Amount.Cents, string(c.Method)).
		ToSlice()...)
	return nil
}

// Undo reverses the most recent change by applying its inverse to the
// store. ok is false when there is nothing to undo.
func (s *ChargeService) Undo(ctx context.Context) (core.ChargeChange, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inverse, ok := s.history.Undo()
	if !ok {
		return core.ChargeChange{}, false, nil
	}

	if err := s.apply(ctx, inverse); err != nil {
		// Roll the pop back so history and store stay consistent
		s.history.Redo()
		return core.ChargeChange{}, false, fmt.Errorf("apply undo: %w", err)
	}
	s.afterMutation(ctx, audit.ActionUndo, inverse.Charge)

	fields := log.NewFields().WithOperation(log.OpUndo)
	fields[log.FieldChargeID] = inverse.ChargeID()
	fields[log.FieldUndoDepth] = s.history.Depth()
	s.logger.InfoContext(ctx, "Change undone", fields.ToSlice()...)
	return inverse, true, nil
}

// Redo reapplies the most recently undone change. ok is false when there
// is nothing to redo.
func (s *ChargeService) Redo(ctx context.Context) (core.ChargeChange, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, ok := s.history.Redo()
	if !ok {
		return core.ChargeChange{}, false, nil
	}

	if err := s.apply(ctx, change); err != nil {
		s.history.Undo()
		return core.ChargeChange{}, false, fmt.Errorf("apply redo: %w", err)
	}
	s.afterMutation(ctx, audit.ActionRedo, change.Charge)

	fields := log.NewFields().WithOperation(log.OpRedo)
	fields[log.FieldChargeID] = change.ChargeID()
	s.logger.InfoContext(ctx, "Change redone", fields.ToSlice()...)
	return change, true, nil
}

// CanUndo reports whether an undo would do anything.
func (s *ChargeService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo would do anything.
func (s *ChargeService) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// ClearHistory discards the undo/redo log, e.g. at the end of a session.
func (s *ChargeService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

// AddExpense appends an expense record. Expenses are outside the undo
// history but still audited.
func (s *ChargeService) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.InsertExpense(ctx, e); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	s.sink.Record(ctx, audit.NewEvent(s.actor, audit.ActionAdd, audit.EntityExpense, e.ID.String(),
		fmt.Sprintf("%s %s", e.Category, e.Amount)))
	if s.invalidate != nil {
		s.invalidate()
	}

	s.logger.InfoContext(ctx, "Expense added",
		log.FieldExpenseID, e.ID.String(),
		log.FieldCategory, e.Category,
		log.FieldAmountCents, e.Amount.Cents)
	return nil
}

// apply mutates the store according to one change.
func (s *ChargeService) apply(ctx context.Context, ch core.ChargeChange) error {
	switch ch.Kind {
	case core.ChangeAdd:
		return s.store.InsertCharge(ctx, ch.Charge)
	case core.ChangeEdit:
		return s.store.UpdateCharge(ctx, ch.Charge)
	case core.ChangeDelete:
		return s.store.DeleteCharge(ctx, ch.Charge.ID.String())
	default:
		return fmt.Errorf("unknown change kind %q", ch.Kind)
	}
}

func (s *ChargeService) afterMutation(ctx context.Context, action string, c core.Charge) {
	s.sink.Record(ctx, audit.NewEvent(s.actor, action, audit.EntityCharge, c.ID.String(),
		fmt.Sprintf("%s %s", c.Type, c.Amount)))
	if s.invalidate != nil {
		s.invalidate()
	}
}
