package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/router"
	"github.com/Alijeyrad/klinik_backend/internal/app"
)

// Start builds the application graph and blocks until SIGINT or SIGTERM.
func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// Requesting *fiber.App forces NewServer to run and register its hooks.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	).Run()
}
