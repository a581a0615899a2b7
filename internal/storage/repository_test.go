package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"furfolio/internal/audit"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func storedCharge(service string, cents int64, date time.Time) core.Charge {
	return core.Charge{
		ID:      uuid.New(),
		Date:    date,
		Type:    service,
		Amount:  core.Money{Cents: cents},
		Notes:   "regular client",
		OwnerID: "owner-1",
		DogID:   "dog-1",
		Method:  core.PaymentCredit,
	}
}

func TestChargeRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	date := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	c := storedCharge("Full Package", 7500, date)

	if err := repo.InsertCharge(ctx, c); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := repo.FetchAllCharges(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 charge, got %d", len(all))
	}
	got := all[0]
	if got.ID != c.ID || got.Type != c.Type || got.Amount != c.Amount ||
		got.OwnerID != c.OwnerID || got.DogID != c.DogID || got.Method != c.Method ||
		got.Notes != c.Notes {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date mismatch: got %v want %v", got.Date, date)
	}
}

func TestChargeUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	date := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	c := storedCharge("Bath Only", 2500, date)
	if err := repo.InsertCharge(ctx, c); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c.Amount = core.Money{Cents: 3000}
	c.Method = core.PaymentUnpaid
	if err := repo.UpdateCharge(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ := repo.FetchAllCharges(ctx)
	if all[0].Amount.Cents != 3000 || all[0].Paid() {
		t.Fatalf("update not applied: %+v", all[0])
	}

	if err := repo.DeleteCharge(ctx, c.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = repo.FetchAllCharges(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no charges after delete, got %d", len(all))
	}
}

func TestUnknownChargeErrors(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	c := storedCharge("Bath Only", 2500, time.Now().UTC())
	if err := repo.UpdateCharge(ctx, c); !errors.Is(err, ledger.ErrChargeNotFound) {
		t.Fatalf("expected ErrChargeNotFound, got %v", err)
	}
	if err := repo.DeleteCharge(ctx, uuid.NewString()); !errors.Is(err, ledger.ErrChargeNotFound) {
		t.Fatalf("expected ErrChargeNotFound, got %v", err)
	}
}

func TestInsertChargeRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	bad := storedCharge("", 100, time.Now().UTC())
	if err := repo.InsertCharge(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	date := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := core.Expense{
		ID:       uuid.New(),
		Date:     date,
		Category: "Supplies",
		Amount:   core.Money{Cents: 1299},
		Notes:    "shampoo restock",
	}
	if err := repo.InsertExpense(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := repo.FetchAllExpenses(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("fetch: expected 1 expense, got %d (err=%v)", len(all), err)
	}
	if all[0].ID != e.ID || all[0].Category != e.Category || all[0].Amount != e.Amount {
		t.Fatalf("round trip mismatch: %+v", all[0])
	}
}

func TestAuditEventTrail(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i, action := range []string{audit.ActionAdd, audit.ActionEdit, audit.ActionUndo} {
		e := audit.NewEvent("cli", action, audit.EntityCharge, "charge-1", "")
		e.Time = base.Add(time.Duration(i) * time.Minute)
		if err := repo.AppendAuditEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.ListAuditEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first
	if events[0].Action != audit.ActionUndo || events[1].Action != audit.ActionEdit {
		t.Fatalf("wrong order: %+v", events)
	}

	n, err := repo.CountAuditEvents(ctx)
	if err != nil || n != 3 {
		t.Fatalf("expected count 3, got %d (err=%v)", n, err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	// Reopening runs migrations again; ErrNoChange must be swallowed
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	repo.Close()
}
