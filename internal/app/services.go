package app

import (
	"go.uber.org/fx"

	"github.com/Alijeyrad/klinik_backend/config"
	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/appointment"
	"github.com/Alijeyrad/klinik_backend/internal/service/clinic"
	"github.com/Alijeyrad/klinik_backend/internal/service/control"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
	"github.com/Alijeyrad/klinik_backend/internal/service/patient"
	"github.com/Alijeyrad/klinik_backend/internal/service/payment"
	"github.com/Alijeyrad/klinik_backend/internal/service/scheduling"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
	"github.com/Alijeyrad/klinik_backend/internal/service/user"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
	"github.com/Alijeyrad/klinik_backend/pkg/cache"
	"github.com/Alijeyrad/klinik_backend/pkg/crypto"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideDaybookService,
		ProvideSchedulingService,
		ProvideTaskService,
		ProvideControlService,
		ProvideClinicService,
		ProvideAppointmentService,
		ProvidePaymentService,
		ProvidePatientService,
		ProvideUserService,
		ProvidePasetoManager,
	),
)

func ProvideDaybookService(db *repo.Client, c *cache.Cache, cfg *config.Config) daybook.Service {
	return daybook.New(db, c, cfg.Scheduling)
}

func ProvideSchedulingService(db *repo.Client, days daybook.Service) scheduling.Service {
	return scheduling.New(db, days)
}

func ProvideTaskService(db *repo.Client) task.Service {
	return task.New(db)
}

func ProvideControlService(days daybook.Service, tasks task.Service) control.Service {
	return control.New(days, tasks)
}

func ProvideClinicService(db *repo.Client, pub events.Publisher) clinic.Service {
	return clinic.New(db, pub)
}

func ProvideAppointmentService(
	db *repo.Client,
	sched scheduling.Service,
	days daybook.Service,
	pub events.Publisher,
	cfg *config.Config,
) appointment.Service {
	return appointment.New(db, sched, days, pub, cfg.Scheduling)
}

func ProvidePaymentService(db *repo.Client, pub events.Publisher) payment.Service {
	return payment.New(db, pub)
}

func ProvidePatientService(db *repo.Client, sealer *crypto.Sealer, pub events.Publisher, cfg *config.Config) patient.Service {
	return patient.New(db, sealer, cfg.Patients.DefaultPhoneRegion, pub)
}

func ProvideUserService(db *repo.Client, authz authorize.IAuthorization) user.Service {
	return user.New(db, authz)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
