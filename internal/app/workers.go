package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
	"github.com/Alijeyrad/klinik_backend/pkg/events"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc   fx.Lifecycle
	NC   *nats.Conn
	Days daybook.Service
}

var invalidatedSubjects = []string{
	constants.SubjectAppointmentChanged,
	constants.SubjectPaymentChanged,
	constants.SubjectScheduleChanged,
}

func RegisterWorkers(p WorkerParams) {
	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			subs, err = startDaybookInvalidator(p.NC, p.Days)
			return err
		},
		OnStop: func(ctx context.Context) error {
			for _, sub := range subs {
				if err := sub.Unsubscribe(); err != nil {
					slog.Warn("daybook_invalidator: unsubscribe failed", "subject", sub.Subject, "err", err)
				}
			}
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// daybook_invalidator
// ---------------------------------------------------------------------------

func startDaybookInvalidator(nc *nats.Conn, days daybook.Service) ([]*nats.Subscription, error) {
	subs := make([]*nats.Subscription, 0, len(invalidatedSubjects))
	for _, base := range invalidatedSubjects {
		sub, err := nc.Subscribe(events.Wildcard(base), func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			handleDaybookEvent(ctx, days, msg)
		})
		if err != nil {
			slog.Error("daybook_invalidator: subscribe failed", "subject", base, "err", err)
			return subs, err
		}
		subs = append(subs, sub)
	}
	slog.Info("daybook_invalidator: started", "subjects", len(subs))
	return subs, nil
}

// handleDaybookEvent drops the cached days an event touches. An event
// without dates, or with a date that does not parse, drops the whole clinic.
func handleDaybookEvent(ctx context.Context, days daybook.Service, msg *nats.Msg) {
	ev, err := events.Decode(msg)
	if err != nil {
		slog.Warn("daybook_invalidator: bad event", "subject", msg.Subject, "err", err)
		return
	}

	dates := make([]repo.Date, 0, len(ev.Dates))
	for _, raw := range ev.Dates {
		d, err := repo.ParseDate(raw)
		if err != nil {
			slog.Warn("daybook_invalidator: bad date", "subject", msg.Subject, "date", raw, "err", err)
			dates = nil
			break
		}
		dates = append(dates, d)
	}

	if len(dates) == 0 {
		err = days.InvalidateClinic(ctx, ev.ClinicID)
	} else {
		err = days.Invalidate(ctx, ev.ClinicID, dates...)
	}
	if err != nil {
		slog.Warn("daybook_invalidator: invalidate failed", "clinic_id", ev.ClinicID, "kind", ev.Kind, "err", err)
		return
	}
	slog.Debug("daybook_invalidator: invalidated", "clinic_id", ev.ClinicID, "dates", ev.Dates)
}
