// Package backend assembles a ready-to-use application from configuration:
// the ledger store, the audit sinks, and the charge and report services
// wired together.
package backend

import (
	"context"

	"furfolio/internal/audit"
	"furfolio/internal/ledger"
	"furfolio/internal/services"
)

// App is a fully wired application instance.
type App struct {
	Charges *services.ChargeService
	Reports *services.ReportService

	// Store gives read access to the underlying ledger.
	Store ledger.Store

	// Ring holds the recent audit tail for in-process inspection.
	Ring *audit.RingSink

	// Trail is the durable audit store backing the worker.
	Trail ledger.AuditStore
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Result bundles the app with its cleanup.
type Result struct {
	App     *App
	Cleanup CleanupFunc
}

// Factory creates application backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// BackendType selects the storage implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
