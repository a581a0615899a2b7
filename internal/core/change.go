package core

const (
	ChangeAdd    ChangeKind = "add"
	ChangeEdit   ChangeKind = "edit"
	ChangeDelete ChangeKind = "delete"
)

type (
	// ChangeKind discriminates the variants of a ChargeChange.
	ChangeKind string

	// ChargeChange is one reversible mutation of the charge ledger. It is a
	// closed tagged union: Add and Delete carry the affected charge in
	// Charge, Edit carries the before image in Old and the after image in
	// Charge.
	ChargeChange struct {
		Kind   ChangeKind
		Charge Charge
		Old    Charge // set only for Kind == ChangeEdit
	}
)

// AddChange records the insertion of c.
func AddChange(c Charge) ChargeChange {
	return ChargeChange{Kind: ChangeAdd, Charge: c}
}

// EditChange records a mutation of old into new. Both images carry the
// same ID.
func EditChange(old, new Charge) ChargeChange {
	return ChargeChange{Kind: ChangeEdit, Charge: new, Old: old}
}

// DeleteChange records the removal of c.
func DeleteChange(c Charge) ChargeChange {
	return ChargeChange{Kind: ChangeDelete, Charge: c}
}

// Inverse returns the change that undoes this one: add and delete are exact
// inverses of each other, the inverse of an edit swaps the two images. The
// inverse of any valid change is itself a valid change.
func (ch ChargeChange) Inverse() ChargeChange {
	switch ch.Kind {
	case ChangeAdd:
		return DeleteChange(ch.Charge)
	case ChangeDelete:
		return AddChange(ch.Charge)
	case ChangeEdit:
		return EditChange(ch.Charge, ch.Old)
	default:
		return ch
	}
}

// ChargeID returns the identifier of the charge this change touches.
func (ch ChargeChange) ChargeID() string {
	return ch.Charge.ID.String()
}
