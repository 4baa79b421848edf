package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/pkg/util/override"
)

// Window is the effective opening hours of a single date.
type Window = repo.DaySchedule

// Resolve returns the opening hours in effect on date. An override for the
// exact date wins over the weekday schedule; a closed override yields a
// disabled window.
func Resolve(weekly repo.WeeklyHours, overrides []repo.DateOverride, date repo.Date) (Window, error) {
	base, ok := weekly[date.Weekday()]
	if !ok {
		return Window{}, fmt.Errorf("%w: no hours for %s", ErrMalformedSchedule, date.Weekday())
	}

	match := override.Find(overrides, func(o repo.DateOverride) bool { return o.Date == date })
	return override.Resolve(base, override.Map(match, overrideWindow)), nil
}

func overrideWindow(o repo.DateOverride) Window {
	if o.IsClosed {
		return Window{Enabled: false}
	}
	return Window{Open: o.Open, Close: o.Close, Enabled: true}
}

// BuildSlots lists the hour rows a day view shows: every hour from open to
// close inclusive when the window is enabled, plus the clinic-local start
// hour of every appointment so nothing booked outside hours is hidden.
// The result is ascending and free of duplicates.
func BuildSlots(w Window, appts []*repo.Appointment, loc *time.Location) []int {
	if loc == nil {
		loc = time.UTC
	}
	var hours []int
	if w.Enabled {
		for h := w.Open.Hour; h <= w.Close.Hour; h++ {
			hours = append(hours, h)
		}
	}
	for _, a := range appts {
		if a == nil {
			continue
		}
		hours = append(hours, a.StartsAt.In(loc).Hour())
	}
	hours = lo.Uniq(hours)
	sort.Ints(hours)
	return hours
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Conflicts returns the appointments of doctorID that block [start, end).
// Cancelled and no-show appointments never block, and excludeID (the
// appointment being edited) is ignored.
func Conflicts(doctorID uuid.UUID, start, end time.Time, existing []*repo.Appointment, excludeID *uuid.UUID) []*repo.Appointment {
	return lo.Filter(existing, func(a *repo.Appointment, _ int) bool {
		if a == nil || !a.HasDoctor() || *a.DoctorID != doctorID {
			return false
		}
		if excludeID != nil && a.ID == *excludeID {
			return false
		}
		return a.Status.Blocking() && Overlaps(start, end, a.StartsAt, a.EndsAt)
	})
}

func HasConflict(doctorID uuid.UUID, start, end time.Time, existing []*repo.Appointment, excludeID *uuid.UUID) bool {
	return len(Conflicts(doctorID, start, end, existing, excludeID)) > 0
}
