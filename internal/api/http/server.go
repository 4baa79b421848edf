package http

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/router"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/observability"
)

var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

// accessLogFormat carries both correlation ids so a log line can be matched
// to its trace.
const accessLogFormat = "${ip} [${time}] rid=${respHeader:X-Request-Id} tid=${respHeader:X-Trace-Id} ${method} ${path} ${status} ${latency}\n"

func NewServer(p Params) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      constants.AppName,
		ReadTimeout:  p.Cfg.Server.Timeout(),
		WriteTimeout: p.Cfg.Server.Timeout(),
		ErrorHandler: handler.ErrorHandler,
	})

	for _, h := range globalMiddleware(p.Cfg, p.Redis, p.OTel != nil) {
		app.Use(h)
	}
	p.Router.Register(app)

	addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				slog.Info("http: listening", "addr", addr, "env", p.Cfg.Server.Environment)
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					slog.Error("http: listener stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// globalMiddleware is ordered outermost first. Helmet, CORS and the shared
// limiter only run in production.
func globalMiddleware(cfg *config.Config, rdb *redis.Client, telemetry bool) []fiber.Handler {
	var chain []fiber.Handler
	if telemetry && cfg.Observability.Tracing.Enabled {
		chain = append(chain, observability.FiberMiddleware(cfg.Observability.ServiceName))
	}
	chain = append(chain,
		middleware.RequestID(),
		logger.New(logger.Config{Format: accessLogFormat}),
		recoverer.New(),
	)

	if cfg.Server.Environment != "production" {
		return chain
	}

	chain = append(chain, helmet.New())
	if c := cfg.Server.CORS; c.Enabled {
		chain = append(chain, cors.New(cors.Config{
			AllowOrigins:     c.AllowOrigins,
			AllowMethods:     c.AllowMethods,
			AllowHeaders:     c.AllowHeaders,
			ExposeHeaders:    c.ExposeHeaders,
			AllowCredentials: c.AllowCredentials,
			MaxAge:           c.MaxAgeSeconds,
		}))
	}
	if cfg.RateLimit.Enabled {
		chain = append(chain, middleware.NewLimiterWithRedis(rdb, cfg.RateLimit))
	}
	return chain
}
