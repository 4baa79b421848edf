package control

import (
	"time"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
)

type Tone string

const (
	ToneCritical Tone = "critical"
	ToneHigh     Tone = "high"
	ToneMedium   Tone = "medium"
	ToneLow      Tone = "low"
)

// Weight orders tones from most to least urgent.
func (t Tone) Weight() int {
	switch t {
	case ToneCritical:
		return 4
	case ToneHigh:
		return 3
	case ToneMedium:
		return 2
	case ToneLow:
		return 1
	}
	return 0
}

// ItemType is the short suffix used in item ids.
type ItemType string

const (
	TypeStatus  ItemType = "status"
	TypeDoctor  ItemType = "doctor"
	TypePayment ItemType = "payment"
	TypeNote    ItemType = "note"
)

// Facts is what a rule may consult besides the appointment itself.
type Facts struct {
	Now        time.Time
	HasPayment bool
}

// Rule is one attention-list check. Adding a check means adding a Rule.
type Rule struct {
	Code   repo.TaskCode
	Type   ItemType
	Tone   Tone
	Action string
	Fires  func(a *repo.Appointment, f Facts) bool
	Anchor func(a *repo.Appointment) time.Time
}

func startsAt(a *repo.Appointment) time.Time { return a.StartsAt }
func endsAt(a *repo.Appointment) time.Time   { return a.EndsAt }

// DefaultRules is the built-in rule set.
var DefaultRules = []Rule{
	{
		Code:   repo.TaskStatusUpdate,
		Type:   TypeStatus,
		Tone:   ToneCritical,
		Action: "Update appointment status",
		Fires: func(a *repo.Appointment, f Facts) bool {
			return a.EndsAt.Before(f.Now) && !a.Status.Closed()
		},
		Anchor: endsAt,
	},
	{
		Code:   repo.TaskMissingDoctor,
		Type:   TypeDoctor,
		Tone:   ToneLow,
		Action: "Assign a doctor",
		Fires: func(a *repo.Appointment, _ Facts) bool {
			return !a.HasDoctor()
		},
		Anchor: startsAt,
	},
	{
		Code:   repo.TaskMissingPayment,
		Type:   TypePayment,
		Tone:   ToneHigh,
		Action: "Record payment",
		Fires: func(a *repo.Appointment, f Facts) bool {
			return a.Status == repo.StatusCompleted && !f.HasPayment
		},
		Anchor: endsAt,
	},
	{
		Code:   repo.TaskMissingTreatmentNote,
		Type:   TypeNote,
		Tone:   ToneMedium,
		Action: "Add treatment note",
		Fires: func(a *repo.Appointment, _ Facts) bool {
			return a.Status == repo.StatusCompleted && a.Note() == ""
		},
		Anchor: endsAt,
	},
}
