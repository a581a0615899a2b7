package core

import (
	"testing"
	"time"
)

func TestChangeInverse(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	a := testCharge("Full Package", 7500, now)
	b := a
	b.Amount = Money{Cents: 8500}

	add := AddChange(a)
	if inv := add.Inverse(); inv.Kind != ChangeDelete || inv.Charge.ID != a.ID {
		t.Fatalf("inverse of add should be delete of same charge, got %+v", inv)
	}

	del := DeleteChange(a)
	if inv := del.Inverse(); inv.Kind != ChangeAdd || inv.Charge.ID != a.ID {
		t.Fatalf("inverse of delete should be add of same charge, got %+v", inv)
	}

	edit := EditChange(a, b)
	inv := edit.Inverse()
	if inv.Kind != ChangeEdit || inv.Old.Amount != b.Amount || inv.Charge.Amount != a.Amount {
		t.Fatalf("inverse of edit should swap images, got %+v", inv)
	}

	// Double inverse is the identity for every variant
	for _, ch := range []ChargeChange{add, del, edit} {
		if got := ch.Inverse().Inverse(); got != ch {
			t.Fatalf("double inverse changed %v", ch.Kind)
		}
	}
}

func TestHistoryUndoRedoOrder(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	chargeA := testCharge("Bath Only", 2500, now)
	chargeB := testCharge("Nail Trim", 1500, now)

	h := NewChangeHistory()
	h.RecordAdd(chargeA)
	h.RecordDelete(chargeB)

	// First undo reverses the delete of B
	inv, ok := h.Undo()
	if !ok || inv.Kind != ChangeAdd || inv.Charge.ID != chargeB.ID {
		t.Fatalf("expected Add(chargeB), got %+v ok=%v", inv, ok)
	}

	// Second undo reverses the add of A
	inv, ok = h.Undo()
	if !ok || inv.Kind != ChangeDelete || inv.Charge.ID != chargeA.ID {
		t.Fatalf("expected Delete(chargeA), got %+v ok=%v", inv, ok)
	}

	// Third undo finds nothing
	if _, ok := h.Undo(); ok {
		t.Fatalf("expected nothing to undo")
	}

	// Redo replays the original changes oldest-first
	ch, ok := h.Redo()
	if !ok || ch.Kind != ChangeAdd || ch.Charge.ID != chargeA.ID {
		t.Fatalf("expected redo of Add(chargeA), got %+v ok=%v", ch, ok)
	}
	ch, ok = h.Redo()
	if !ok || ch.Kind != ChangeDelete || ch.Charge.ID != chargeB.ID {
		t.Fatalf("expected redo of Delete(chargeB), got %+v ok=%v", ch, ok)
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("expected nothing to redo")
	}
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	h := NewChangeHistory()

	h.RecordAdd(testCharge("Bath Only", 2500, now))
	if _, ok := h.Undo(); !ok {
		t.Fatalf("expected undo to succeed")
	}
	if !h.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}

	// A fresh record invalidates the undone future
	h.RecordAdd(testCharge("Full Package", 7500, now))
	if h.CanRedo() {
		t.Fatalf("record should clear the redo stack")
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo should return absent after a record")
	}
}

func TestHistoryEmptyUndoLeavesRedoIntact(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	h := NewChangeHistory()
	h.RecordAdd(testCharge("Bath Only", 2500, now))
	if _, ok := h.Undo(); !ok {
		t.Fatalf("expected undo to succeed")
	}

	// Undo on an empty stack must not disturb the redo stack
	if _, ok := h.Undo(); ok {
		t.Fatalf("expected empty undo")
	}
	if !h.CanRedo() {
		t.Fatalf("empty undo must leave the redo stack intact")
	}
}

func TestHistoryClear(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	h := NewChangeHistory()
	h.RecordAdd(testCharge("Bath Only", 2500, now))
	h.RecordAdd(testCharge("Full Package", 7500, now))
	h.Undo()

	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.Depth() != 0 {
		t.Fatalf("clear should empty both stacks")
	}
}

// applyChange mirrors what a store-owning caller does with the change
// returned by the history: mutate a map of charges keyed by ID.
func applyChange(data map[string]Charge, ch ChargeChange) {
	switch ch.Kind {
	case ChangeAdd:
		data[ch.ChargeID()] = ch.Charge
	case ChangeEdit:
		data[ch.ChargeID()] = ch.Charge
	case ChangeDelete:
		delete(data, ch.ChargeID())
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	orig := testCharge("Full Package", 7500, now)
	edited := orig
	edited.Amount = Money{Cents: 8500}
	edited.Notes = "matting surcharge"

	changes := []ChargeChange{
		AddChange(orig),
		EditChange(orig, edited),
		DeleteChange(edited),
	}

	data := map[string]Charge{}
	h := NewChangeHistory()

	for _, ch := range changes {
		applyChange(data, ch)
		switch ch.Kind {
		case ChangeAdd:
			h.RecordAdd(ch.Charge)
		case ChangeEdit:
			h.RecordEdit(ch.Old, ch.Charge)
		case ChangeDelete:
			h.RecordDelete(ch.Charge)
		}

		snapshot := snapshotCharges(data)

		inv, ok := h.Undo()
		if !ok {
			t.Fatalf("%v: expected undo", ch.Kind)
		}
		applyChange(data, inv)

		redo, ok := h.Redo()
		if !ok {
			t.Fatalf("%v: expected redo", ch.Kind)
		}
		applyChange(data, redo)

		if !sameCharges(data, snapshot) {
			t.Fatalf("%v: undo+redo did not restore state", ch.Kind)
		}
	}
}

func snapshotCharges(data map[string]Charge) map[string]Charge {
	out := make(map[string]Charge, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func sameCharges(a, b map[string]Charge) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
