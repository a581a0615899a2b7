package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldChargeID    = "charge_id"
	FieldExpenseID   = "expense_id"
	FieldServiceType = "service_type"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldPayment     = "payment_method"
	FieldPeriod      = "period"
	FieldRangeStart  = "range_start"
	FieldRangeEnd    = "range_end"
	FieldEventID     = "event_id"
	FieldActor       = "actor"
	FieldEntity      = "entity"
	FieldUndoDepth   = "undo_depth"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCharge  = "charge"
	ComponentReport  = "report"
	ComponentAudit   = "audit"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpAdd    = "add"
	OpEdit   = "edit"
	OpDelete = "delete"
	OpUndo   = "undo"
	OpRedo   = "redo"
	OpReport = "report"
)

// Fields provides a builder for structured log attributes.
type Fields map[string]any

// NewFields creates an empty Fields set.
func NewFields() Fields {
	return make(Fields)
}

// WithOperation adds the operation field.
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field when err is non-nil.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithCharge adds charge-related fields.
func (f Fields) WithCharge(id, serviceType string, amountCents int64, payment string) Fields {
	f[FieldChargeID] = id
	f[FieldServiceType] = serviceType
	f[FieldAmountCents] = amountCents
	f[FieldPayment] = payment
	return f
}

// WithPeriod adds the reporting period field.
func (f Fields) WithPeriod(period string) Fields {
	f[FieldPeriod] = period
	return f
}

// ToSlice converts Fields to a flat key/value slice for slog.
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
