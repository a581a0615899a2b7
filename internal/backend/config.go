package backend

import (
	"fmt"
	"time"

	"furfolio/internal/config"
	"furfolio/internal/core"
)

// Config holds everything the factory needs to build an App.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP audit pipeline; empty URL disables publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Audit
	AuditRingCapacity int

	// Reporting
	ReportCacheSize int
	ReportCacheTTL  time.Duration
	WeekStart       core.WeekStart

	// Actor stamped on audit events produced by this instance
	Actor string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config, actor string) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		AuditRingCapacity: appConfig.AuditRingCapacity,

		ReportCacheSize: appConfig.ReportCacheSize,
		ReportCacheTTL:  appConfig.ReportCacheTTL,
		WeekStart:       core.WeekStart(appConfig.WeekStart),

		Actor: actor,
	}, nil
}

// Validate checks the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional

	case MemoryBackend:
		// Nothing backend-specific to validate
	}

	return nil
}
