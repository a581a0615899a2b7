// Package storage is the SQLite-backed ledger store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"furfolio/internal/audit"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
)

// timeLayout is how timestamps are stored; RFC 3339 with sub-second
// precision sorts lexicographically, so date indexes stay usable.
const timeLayout = time.RFC3339Nano

// SQLiteRepository implements the ledger ports over a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchAllCharges implements ledger.ChargeStore.
func (r *SQLiteRepository) FetchAllCharges(ctx context.Context) ([]core.Charge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, service_type, amount_cents, notes, owner_id, dog_id, payment_method
		FROM charges ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query charges: %w", err)
	}
	defer rows.Close()

	var charges []core.Charge
	for rows.Next() {
		var (
			id, dateStr, method string
			c                   core.Charge
		)
		if err := rows.Scan(&id, &dateStr, &c.Type, &c.Amount.Cents, &c.Notes, &c.OwnerID, &c.DogID, &method); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		c.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse charge id %q: %w", id, err)
		}
		c.Date, err = time.Parse(timeLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse charge date %q: %w", dateStr, err)
		}
		c.Method = core.PaymentMethod(method)
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

// InsertCharge implements ledger.ChargeStore.
func (r *SQLiteRepository) InsertCharge(ctx context.Context, c core.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO charges (id, date, service_type, amount_cents, notes, owner_id, dog_id, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Date.UTC().Format(timeLayout), c.Type, c.Amount.Cents,
		c.Notes, c.OwnerID, c.DogID, string(c.Method))
	if err != nil {
		return fmt.Errorf("insert charge: %w", err)
	}

	slog.DebugContext(ctx, "Charge saved to SQLite",
		"id", c.ID.String(),
		"service_type", c.Type,
		"amount_cents", c.Amount.Cents)
	return nil
}

// UpdateCharge implements ledger.ChargeStore.
func (r *SQLiteRepository) UpdateCharge(ctx context.Context, c core.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE charges
		SET date = ?, service_type = ?, amount_cents = ?, notes = ?, owner_id = ?, dog_id = ?, payment_method = ?
		WHERE id = ?`,
		c.Date.UTC().Format(timeLayout), c.Type, c.Amount.Cents, c.Notes,
		c.OwnerID, c.DogID, string(c.Method), c.ID.String())
	if err != nil {
		return fmt.Errorf("update charge: %w", err)
	}
	return affectedOrNotFound(res)
}

// DeleteCharge implements ledger.ChargeStore.
func (r *SQLiteRepository) DeleteCharge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete charge: %w", err)
	}
	return affectedOrNotFound(res)
}

// FetchAllExpenses implements ledger.ExpenseStore.
func (r *SQLiteRepository) FetchAllExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, category, amount_cents, notes FROM expenses ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			id, dateStr string
			e           core.Expense
		)
		if err := rows.Scan(&id, &dateStr, &e.Category, &e.Amount.Cents, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse expense id %q: %w", id, err)
		}
		e.Date, err = time.Parse(timeLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// InsertExpense implements ledger.ExpenseStore.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, date, category, amount_cents, notes)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.Date.UTC().Format(timeLayout), e.Category, e.Amount.Cents, e.Notes)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// AppendAuditEvent implements ledger.AuditStore.
func (r *SQLiteRepository) AppendAuditEvent(ctx context.Context, e audit.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, time, actor, action, entity, entity_id, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Time.UTC().Format(timeLayout), e.Actor, e.Action, e.Entity, e.EntityID, e.Detail)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents implements ledger.AuditStore. Events come back newest
// first; limit <= 0 means all.
func (r *SQLiteRepository) ListAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `SELECT id, time, actor, action, entity, entity_id, detail
		FROM audit_events ORDER BY time DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			id, timeStr string
			e           audit.Event
		)
		if err := rows.Scan(&id, &timeStr, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", id, err)
		}
		e.Time, err = time.Parse(timeLayout, timeStr)
		if err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", timeStr, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountAuditEvents returns the size of the durable trail; used by the
// worker for its periodic summary.
func (r *SQLiteRepository) CountAuditEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrChargeNotFound
	}
	return nil
}

// Interface guards
var (
	_ ledger.Store      = (*SQLiteRepository)(nil)
	_ ledger.AuditStore = (*SQLiteRepository)(nil)
)
