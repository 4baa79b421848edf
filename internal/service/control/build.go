package control

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/task"
)

// Item is one entry of the attention list. Items are derived on every
// request and never stored.
type Item struct {
	ID             string        `json:"id"`
	Type           ItemType      `json:"type"`
	Tone           Tone          `json:"tone"`
	Code           repo.TaskCode `json:"code"`
	AppointmentID  uuid.UUID     `json:"appointment_id"`
	PatientName    string        `json:"patient_name"`
	TimeLabel      string        `json:"time_label"`
	TreatmentLabel string        `json:"treatment_label"`
	ActionLabel    string        `json:"action_label"`
	SortTime       time.Time     `json:"sort_time"`
}

const noTreatment = "No treatment type"

var errInvalidAppointment = errors.New("invalid appointment")

// Builder evaluates a rule set against a day of appointments.
type Builder struct {
	Rules        []Rule
	Gate         task.Gate
	Location     *time.Location
	PatientNames map[uuid.UUID]string
	Logger       *slog.Logger
}

// Build runs the default rules with UTC labels.
func Build(appts []*repo.Appointment, payments map[uuid.UUID]bool, configs []*repo.TaskConfig, defs []*repo.TaskDefinition, viewer task.Viewer, now time.Time) []Item {
	b := &Builder{Gate: task.NewGate(defs, configs)}
	return b.Build(appts, payments, viewer, now)
}

// Build returns the viewer's items, most recently relevant first. now is
// used for every rule of the pass. An appointment that cannot be evaluated
// is logged and skipped.
func (b *Builder) Build(appts []*repo.Appointment, payments map[uuid.UUID]bool, viewer task.Viewer, now time.Time) []Item {
	rules := b.Rules
	if rules == nil {
		rules = DefaultRules
	}
	items := make([]Item, 0)
	for _, a := range appts {
		got, err := b.evaluate(rules, a, payments, viewer, now)
		if err != nil {
			b.logger().Warn("control: skipping appointment", "appointment_id", appointmentID(a), "error", err)
			continue
		}
		items = append(items, got...)
	}
	Sort(items)
	return items
}

func (b *Builder) evaluate(rules []Rule, a *repo.Appointment, payments map[uuid.UUID]bool, viewer task.Viewer, now time.Time) (items []Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("rule panic: %v", r)
		}
	}()
	if a == nil {
		return nil, errInvalidAppointment
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidAppointment, err)
	}

	facts := Facts{Now: now, HasPayment: payments[a.ID]}
	for _, r := range rules {
		if !r.Fires(a, facts) {
			continue
		}
		if !b.Gate.Visible(r.Code, viewer, a.DoctorID) {
			continue
		}
		items = append(items, b.item(r, a))
	}
	return items, nil
}

func (b *Builder) item(r Rule, a *repo.Appointment) Item {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}
	treatment := noTreatment
	if a.TreatmentType != nil && strings.TrimSpace(*a.TreatmentType) != "" {
		treatment = *a.TreatmentType
	}
	return Item{
		ID:             ItemID(a.ID, r.Type),
		Type:           r.Type,
		Tone:           r.Tone,
		Code:           r.Code,
		AppointmentID:  a.ID,
		PatientName:    b.PatientNames[a.PatientID],
		TimeLabel:      a.StartsAt.In(loc).Format("15:04") + "-" + a.EndsAt.In(loc).Format("15:04"),
		TreatmentLabel: treatment,
		ActionLabel:    r.Action,
		SortTime:       r.Anchor(a),
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func ItemID(appointmentID uuid.UUID, t ItemType) string {
	return appointmentID.String() + "-" + string(t)
}

// Sort orders items by sort time descending, then by tone, then by id.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.SortTime.Equal(b.SortTime) {
			return a.SortTime.After(b.SortTime)
		}
		if a.Tone.Weight() != b.Tone.Weight() {
			return a.Tone.Weight() > b.Tone.Weight()
		}
		return a.ID < b.ID
	})
}

func appointmentID(a *repo.Appointment) string {
	if a == nil {
		return ""
	}
	return a.ID.String()
}
