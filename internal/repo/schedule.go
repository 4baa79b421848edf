package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Alijeyrad/klinik_backend/pkg/constants"
)

// ErrMalformedSchedule marks stored or submitted opening hours that cannot
// be interpreted. It is a data defect and never defaulted away.
var ErrMalformedSchedule = errors.New("malformed schedule")

// TimeOfDay is a wall-clock "HH:MM" in the clinic's timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(constants.TimeOfDayLayout, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q", ErrMalformedSchedule, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Minutes() < o.Minutes() }

// On places the time of day on date in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: time of day must be a string", ErrMalformedSchedule)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar day without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// Start is local midnight of d in loc.
func (d Date) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End is local midnight of the following day in loc.
func (d Date) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaySchedule is one weekday's regular opening hours.
type DaySchedule struct {
	Open    TimeOfDay `json:"open"`
	Close   TimeOfDay `json:"close"`
	Enabled bool      `json:"enabled"`
}

func (d *DaySchedule) UnmarshalJSON(b []byte) error {
	var raw struct {
		Open    string `json:"open"`
		Close   string `json:"close"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	opens, closes, err := parseRange(raw.Open, raw.Close, raw.Enabled)
	if err != nil {
		return err
	}
	*d = DaySchedule{Open: opens, Close: closes, Enabled: raw.Enabled}
	return nil
}

// WeeklyHours maps each weekday to its regular schedule. A stored value must
// carry all seven days.
type WeeklyHours map[time.Weekday]DaySchedule

var weekdayKeys = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func weekdayKey(d time.Weekday) string { return strings.ToLower(d.String()) }

func (w WeeklyHours) MarshalJSON() ([]byte, error) {
	out := make(map[string]DaySchedule, len(w))
	for day, s := range w {
		out[weekdayKey(day)] = s
	}
	return json.Marshal(out)
}

func (w *WeeklyHours) UnmarshalJSON(b []byte) error {
	var raw map[string]DaySchedule
	if err := json.Unmarshal(b, &raw); err != nil {
		if errors.Is(err, ErrMalformedSchedule) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	out := make(WeeklyHours, len(raw))
	for k, s := range raw {
		day, ok := weekdayKeys[strings.ToLower(k)]
		if !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrMalformedSchedule, k)
		}
		out[day] = s
	}
	*w = out
	return nil
}

// Validate checks the map is total.
func (w WeeklyHours) Validate() error {
	var missing []string
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if _, ok := w[day]; !ok {
			missing = append(missing, weekdayKey(day))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedSchedule, strings.Join(missing, ", "))
	}
	return nil
}

// DateOverride replaces the weekly schedule for one calendar date.
type DateOverride struct {
	Date     Date      `json:"date"`
	Open     TimeOfDay `json:"open"`
	Close    TimeOfDay `json:"close"`
	IsClosed bool      `json:"is_closed"`
	Note     string    `json:"note,omitempty"`
}

func (o *DateOverride) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date     string `json:"date"`
		Open     string `json:"open"`
		Close    string `json:"close"`
		IsClosed bool   `json:"is_closed"`
		Note     string `json:"note"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	opens, closes, err := parseRange(raw.Open, raw.Close, !raw.IsClosed)
	if err != nil {
		return err
	}
	*o = DateOverride{Date: date, Open: opens, Close: closes, IsClosed: raw.IsClosed, Note: raw.Note}
	return nil
}

// SortOverrides orders overrides by date in place.
func SortOverrides(items []DateOverride) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.String() < items[j].Date.String()
	})
}

// parseRange reads an open/close pair. Both are required when the range is
// in effect; otherwise they may be left empty.
func parseRange(openRaw, closeRaw string, required bool) (TimeOfDay, TimeOfDay, error) {
	var opens, closes TimeOfDay
	if openRaw == "" && closeRaw == "" && !required {
		return opens, closes, nil
	}
	opens, err := ParseTimeOfDay(openRaw)
	if err != nil {
		return opens, closes, err
	}
	closes, err = ParseTimeOfDay(closeRaw)
	if err != nil {
		return opens, closes, err
	}
	if required && !opens.Before(closes) {
		return opens, closes, fmt.Errorf("%w: close %s is not after open %s", ErrMalformedSchedule, closes, opens)
	}
	return opens, closes, nil
}
