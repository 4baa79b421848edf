package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/Alijeyrad/klinik_backend/config"
)

// NewPool creates a pgx connection pool from central config.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	return NewPoolFromConfig(ctx, FromCentralConfig(cfg))
}

// NewPoolFromConfig creates a pgx connection pool from package Config and pings it.
func NewPoolFromConfig(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	pcfg.MaxConnLifetime = cfg.ConnMaxLifetime()

	if cfg.EnableLogging {
		pcfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   slowQueryLogger(time.Duration(cfg.SlowQueryThresholdMs) * time.Millisecond),
			LogLevel: tracelog.LogLevelInfo,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// slowQueryLogger forwards pgx query traces to slog, keeping only queries
// slower than threshold (all queries when threshold is zero).
func slowQueryLogger(threshold time.Duration) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		if d, ok := data["time"].(time.Duration); ok && d < threshold {
			return
		}
		attrs := make([]any, 0, len(data)*2)
		for k, v := range data {
			if k == "args" {
				continue
			}
			attrs = append(attrs, k, v)
		}
		if level <= tracelog.LogLevelWarn {
			slog.WarnContext(ctx, "db: "+msg, attrs...)
			return
		}
		slog.DebugContext(ctx, "db: "+msg, attrs...)
	})
}
