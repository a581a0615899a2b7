// Command furfolio-worker consumes audit events from AMQP and persists
// them into the durable SQLite audit trail.
package main

import (
	"context"
	"os"
	"time"

	"furfolio/internal/amqp"
	"furfolio/internal/cli"
	"furfolio/internal/log"
	"furfolio/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting furfolio-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditWorker := worker.NewAuditWorker(repo, logger)

	if err := auditWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup check failed", log.FieldError, err)
		// Keep running; consumption can still make progress
	}

	go auditWorker.RunPeriodicSummary(ctx, time.Hour)

	consumeErrs := make(chan error, 1)
	go func() {
		consumeErrs <- amqpClient.ConsumeAuditEvents(ctx, auditWorker.HandleAuditMessage)
	}()

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cancel()
	})

	// A dead consumer must take the process down, not leave it idling
	if err := cli.WaitForShutdownOrError(shutdownCtx, done, consumeErrs); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		amqpClient.Close()
		repo.Close()
		os.Exit(1)
	}

	logger.Info("furfolio-worker stopped")
}
