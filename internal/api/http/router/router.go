package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/handler"
	"github.com/Alijeyrad/klinik_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/appointment"
	"github.com/Alijeyrad/klinik_backend/internal/service/clinic"
	"github.com/Alijeyrad/klinik_backend/internal/service/control"
	"github.com/Alijeyrad/klinik_backend/internal/service/patient"
	"github.com/Alijeyrad/klinik_backend/internal/service/payment"
	"github.com/Alijeyrad/klinik_backend/internal/service/scheduling"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
	"github.com/Alijeyrad/klinik_backend/internal/service/user"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Redis          *redis.Client
	Auth           authorize.IAuthorization
	DB             *repo.Client
	UserSvc        user.Service
	ClinicSvc      clinic.Service
	PatientSvc     patient.Service
	SchedulingSvc  scheduling.Service
	AppointmentSvc appointment.Service
	PaymentSvc     payment.Service
	TaskSvc        task.Service
	ControlSvc     control.Service
	PasetoMgr      *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis, r.p.Cfg.Authentication.SessionCheck)
	clinicHeader := middleware.ClinicHeader(r.p.DB)

	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	userH := handler.NewUserHandler(r.p.UserSvc)
	clinicH := handler.NewClinicHandler(r.p.ClinicSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	scheduleH := handler.NewScheduleHandler(r.p.SchedulingSvc)
	controlH := handler.NewControlHandler(r.p.ControlSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	paymentH := handler.NewPaymentHandler(r.p.PaymentSvc)
	taskH := handler.NewTaskHandler(r.p.TaskSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerUserRoutes(api, userH, authRequired, clinicHeader, requirePerm)
	r.registerClinicRoutes(api, clinicH, authRequired, clinicHeader, requirePerm)
	r.registerPatientRoutes(api, patientH, authRequired, clinicHeader, requirePerm)
	r.registerScheduleRoutes(api, scheduleH, controlH, authRequired, clinicHeader, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, clinicHeader, requirePerm)
	r.registerPaymentRoutes(api, paymentH, authRequired, clinicHeader, requirePerm)
	r.registerTaskRoutes(api, taskH, authRequired, clinicHeader, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: r.ready,
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready reports whether policy, database and cache are all usable.
func (r *Router) ready(c fiber.Ctx) bool {
	if r.p.Cfg.Authorization.HealthCheckEnabled && !authorize.IsPolicyHealthy() {
		return false
	}
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := r.p.DB.Ping(ctx); err != nil {
		return false
	}
	return r.p.Redis.Ping(ctx).Err() == nil
}
