package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
	"github.com/Alijeyrad/klinik_backend/pkg/cache"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/crypto"
	"github.com/Alijeyrad/klinik_backend/pkg/database"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
	"github.com/Alijeyrad/klinik_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/klinik_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRepoClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideCache),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
	fx.Provide(ProvideSealer),
)

func ProvideRepoClient(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	pool, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	client := repo.NewClientFromPool(pool)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database pool")
			return client.Close()
		},
	})
	return client, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideCache(rdb *redis.Client) *cache.Cache {
	return cache.New(rdb, constants.AppName)
}

func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	acfg := authorize.FromCentralConfig(cfg.Authorization)
	enforcer, cleanup, err := authorize.NewEnforcer(acfg, database.NewDSN(cfg.CasbinDatabase))
	if err != nil {
		return nil, err
	}
	auth, err := authorize.NewAuthorization(enforcer, acfg.SuperadminBypass)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}
	if acfg.EnableAudit {
		auth = authorize.NewAuditedAuthorization(auth, slog.Default())
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	name := cfg.Nats.Name
	if name == "" {
		name = constants.AppName
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(name))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn) events.Publisher {
	return events.NewNatsPublisher(nc)
}

// ProvideSealer returns nil when no encryption key is configured; patient
// national ids are then rejected.
func ProvideSealer(cfg *config.Config) (*crypto.Sealer, error) {
	if cfg.Authentication.EncryptionKey == "" {
		slog.Warn("authentication.encryption_key not set, national ids disabled")
		return nil, nil
	}
	return crypto.NewSealer(cfg.Authentication.EncryptionKey)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.Environment,
		TracingEnabled: cfg.Observability.Tracing.Enabled,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
