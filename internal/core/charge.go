package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCheck  PaymentMethod = "check"
	PaymentUnpaid PaymentMethod = "unpaid"
	PaymentOther  PaymentMethod = "other"
)

type (
	// PaymentMethod is how a charge was settled. An explicit enumerated tag,
	// never inferred from display state.
	PaymentMethod string

	// Charge is a billable transaction for a grooming service.
	Charge struct {
		ID      uuid.UUID
		Date    time.Time
		Type    string // service type, e.g. "Full Package"
		Amount  Money
		Notes   string
		OwnerID string // opaque reference to the pet owner, may be empty
		DogID   string // opaque reference to the dog, may be empty
		Method  PaymentMethod
	}

	// Expense is an outgoing cost: rent, supplies, utilities.
	Expense struct {
		ID       uuid.UUID
		Date     time.Time
		Category string
		Amount   Money
		Notes    string
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrZeroDate             = errors.New("date cannot be zero")
	ErrEmptyServiceType     = errors.New("empty service type")
	ErrEmptyExpenseCategory = errors.New("empty expense category")
	ErrInvalidPayment       = errors.New("invalid payment method")
)

// Valid reports whether the payment method is one of the known tags.
func (pm PaymentMethod) Valid() bool {
	switch pm {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentCheck, PaymentUnpaid, PaymentOther:
		return true
	default:
		return false
	}
}

// Paid is derived from the payment method: every method except unpaid
// counts as settled.
func (c Charge) Paid() bool {
	return c.Method != PaymentUnpaid
}

func (c Charge) Validate() error {
	if c.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(c.Type) == "" {
		return ErrEmptyServiceType
	}
	if len(c.Type) > 100 {
		return errors.New("service type too long (max 100 characters)")
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	if len(c.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	if !c.Method.Valid() {
		return ErrInvalidPayment
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyExpenseCategory
	}
	if len(e.Category) > 100 {
		return errors.New("expense category too long (max 100 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}
