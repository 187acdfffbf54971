// Package bootstrap wires process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/middleware"
	"warbler/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipSchema leaves the schema untouched; cmd/migrate manages it itself.
	SkipSchema bool
	// Tracing installs the OpenTelemetry provider described by the config.
	Tracing bool
}

// Runtime holds the long-lived handles a command needs.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime configures logging, connects to the database and Redis, applies
// the schema and starts tracing. Redis is optional and may come back nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.ConfigureLogger(cfg.Env)

	rt := &Runtime{shutdownTracing: func(context.Context) error { return nil }}

	if opts.Tracing {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "warbler-api",
			ServiceVersion: "1.0.0",
			Environment:    cfg.Env,
			Enabled:        cfg.TracingEnabled,
			Exporter:       cfg.TracingExporter,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			SamplerRatio:   cfg.TracingSampleRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db

	if !opts.SkipSchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("schema setup failed: %w", err)
		}
	}

	rt.Redis = cache.InitRedis(cfg.RedisURL)
	return rt, nil
}

// Close releases the database, Redis and tracing resources.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.shutdownTracing != nil {
		errs = append(errs, r.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
