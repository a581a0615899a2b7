package core

// ChangeHistory is a linear undo/redo log of charge mutations. It only
// tracks changes and computes inverses; applying the returned change to the
// backing store is the caller's job.
//
// The history is scoped to a single owning session and is not internally
// synchronized. Callers that share one across goroutines must serialize
// access themselves.
type ChangeHistory struct {
	undoStack []ChargeChange
	redoStack []ChargeChange
}

// NewChangeHistory returns an empty history.
func NewChangeHistory() *ChangeHistory {
	return &ChangeHistory{}
}

// RecordAdd logs the insertion of c. Any pending redo entries are discarded:
// a fresh edit invalidates the undone future.
func (h *ChangeHistory) RecordAdd(c Charge) {
	h.record(AddChange(c))
}

// RecordEdit logs a mutation of old into new.
func (h *ChangeHistory) RecordEdit(old, new Charge) {
	h.record(EditChange(old, new))
}

// RecordDelete logs the removal of c.
func (h *ChangeHistory) RecordDelete(c Charge) {
	h.record(DeleteChange(c))
}

func (h *ChangeHistory) record(ch ChargeChange) {
	h.undoStack = append(h.undoStack, ch)
	h.redoStack = h.redoStack[:0]
}

// Undo pops the most recent change, moves it to the redo stack and returns
// its inverse for the caller to apply. ok is false when there is nothing to
// undo; that is a normal outcome, not an error.
func (h *ChangeHistory) Undo() (inverse ChargeChange, ok bool) {
	if len(h.undoStack) == 0 {
		return ChargeChange{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, last)
	return last.Inverse(), true
}

// Redo pops the most recently undone change, pushes it back onto the undo
// stack and returns it unchanged for the caller to reapply. ok is false when
// there is nothing to redo.
func (h *ChangeHistory) Redo() (change ChargeChange, ok bool) {
	if len(h.redoStack) == 0 {
		return ChargeChange{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, last)
	return last, true
}

// CanUndo reports whether at least one change can be undone.
func (h *ChangeHistory) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether at least one undone change can be reapplied.
func (h *ChangeHistory) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear discards both stacks.
func (h *ChangeHistory) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// Depth returns the number of undoable changes.
func (h *ChangeHistory) Depth() int {
	return len(h.undoStack)
}
