// Package control builds the per-viewer attention list for a clinic day.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/daybook"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

type List struct {
	Date        string       `json:"date"`
	GeneratedAt time.Time    `json:"generated_at"`
	Items       []Item       `json:"items"`
	Counts      map[Tone]int `json:"counts"`
}

type Service interface {
	List(ctx context.Context, viewer task.Viewer, date repo.Date) (*List, error)
}

type controlService struct {
	days  daybook.Service
	tasks task.Service
	now   func() time.Time

	items    metric.Int64Counter
	duration metric.Float64Histogram
}

func New(days daybook.Service, tasks task.Service) Service {
	return newService(days, tasks, time.Now)
}

func newService(days daybook.Service, tasks task.Service, now func() time.Time) *controlService {
	meter := otel.Meter("klinik/control")
	items, err := meter.Int64Counter("klinik.control.items",
		metric.WithDescription("Attention-list items produced, by type and tone"))
	if err != nil {
		slog.Warn("control: items counter unavailable", "error", err)
	}
	duration, err := meter.Float64Histogram("klinik.control.build.duration",
		metric.WithDescription("Time spent building one attention list"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("control: duration histogram unavailable", "error", err)
	}
	return &controlService{days: days, tasks: tasks, now: now, items: items, duration: duration}
}

func (s *controlService) List(ctx context.Context, viewer task.Viewer, date repo.Date) (*List, error) {
	ctx, span := otel.Tracer("klinik/control").Start(ctx, "control.List")
	defer span.End()

	snap, err := s.days.Load(ctx, viewer.ClinicID, date)
	if err != nil {
		if errors.Is(err, daybook.ErrClinicNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("control list: %w", err)
	}
	gate, err := s.tasks.Gate(ctx, viewer.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("control list: %w", err)
	}

	now := s.now()
	started := time.Now()
	b := &Builder{
		Gate:         gate,
		Location:     snap.Location(),
		PatientNames: snap.PatientNames,
		Logger:       slog.Default().With(reqctx.LogAttrs(ctx)...),
	}
	items := b.Build(snap.Appointments, snap.Payments, viewer, now)

	counts := make(map[Tone]int, 4)
	for _, it := range items {
		counts[it.Tone]++
		if s.items != nil {
			s.items.Add(ctx, 1, metric.WithAttributes(
				attribute.String("type", string(it.Type)),
				attribute.String("tone", string(it.Tone)),
			))
		}
	}
	if s.duration != nil {
		s.duration.Record(ctx, time.Since(started).Seconds(),
			metric.WithAttributes(attribute.String("role", string(viewer.Role))))
	}

	return &List{
		Date:        date.String(),
		GeneratedAt: now,
		Items:       items,
		Counts:      counts,
	}, nil
}
