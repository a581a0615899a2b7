package backend

import (
	"context"
	"fmt"

	"furfolio/internal/amqp"
	"furfolio/internal/audit"
	"furfolio/internal/cache"
	"furfolio/internal/core"
	"furfolio/internal/ledger"
	"furfolio/internal/ledger/memory"
	"furfolio/internal/log"
	"furfolio/internal/services"
	"furfolio/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it the durable trail is written by the
	// worker consuming from another instance, or not at all.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without audit publishing",
				log.FieldError, err)
			amqpClient = nil
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	app := f.wire(config, repo, amqpClient)

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				f.logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		return repo.Close()
	}

	return &Result{App: app, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*Result, error) {
	store := memory.New()
	app := f.wire(config, store, nil)

	f.logger.InfoContext(ctx, "Initialized memory backend")

	return &Result{App: app, Cleanup: nil}, nil
}

// storeWithTrail is what both backends provide: the ledger plus the
// durable audit trail.
type storeWithTrail interface {
	ledger.Store
	ledger.AuditStore
}

// wire builds the service graph shared by every backend: audit sinks fan
// out to the in-process ring, the structured log, and (when configured)
// AMQP; report cache invalidation hangs off every charge mutation.
func (f *DefaultFactory) wire(config Config, store storeWithTrail, amqpClient *amqp.Client) *App {
	ring := audit.NewRingSink(config.AuditRingCapacity)
	sink := audit.MultiSink{ring, audit.NewLogSink(f.logger)}
	if amqpClient != nil {
		sink = append(sink, amqp.NewAuditSink(amqpClient))
	}

	engine := core.NewReportEngine(config.WeekStart)
	var reportCache *cache.LRU[core.FinancialReport]
	if config.ReportCacheSize > 0 {
		reportCache = cache.NewLRU[core.FinancialReport](config.ReportCacheSize, config.ReportCacheTTL)
	}
	reports := services.NewReportService(store, store, engine, reportCache, f.logger)
	charges := services.NewChargeService(store, sink, f.logger, config.Actor, reports.Invalidate)

	return &App{
		Charges: charges,
		Reports: reports,
		Store:   store,
		Ring:    ring,
		Trail:   store,
	}
}
