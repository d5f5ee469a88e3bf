package domain

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultSlotMinutes = 15

	day = 24 * time.Hour
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock offset from midnight with no date attached.
// 24:00:00 is accepted so that a window can run to the end of the day.
type TimeOfDay time.Duration

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS, optionally followed by a
// fractional second part which is truncated.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrInvalidTimeOfDay
	}

	var fields [3]int
	for i, p := range parts {
		if len(p) != 2 {
			return 0, ErrInvalidTimeOfDay
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, ErrInvalidTimeOfDay
		}
		fields[i] = n
	}

	h, m, sec := fields[0], fields[1], fields[2]
	if m > 59 || sec > 59 || h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(h, m, sec), nil
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

func (t TimeOfDay) String() string {
	total := int(time.Duration(t) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// On anchors the time of day to the UTC calendar date of date.
func (t TimeOfDay) On(date time.Time) time.Time {
	return StartOfDay(date).Add(time.Duration(t))
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute(), v.Second())
		return nil
	case nil:
		*t = 0
		return nil
	default:
		return fmt.Errorf("domain: cannot scan %T into TimeOfDay", src)
	}
}

// Schedule is one recurring weekly window of a practitioner. Several
// schedules may share a weekday; they are never merged.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid"`
	PractitionerID      uuid.UUID `bun:"practitioner_id,type:uuid,notnull"`
	DayOfWeek           int       `bun:"day_of_week,notnull"`
	StartTime           TimeOfDay `bun:"start_time,type:time,notnull"`
	EndTime             TimeOfDay `bun:"end_time,type:time,notnull"`
	SlotDurationMinutes int       `bun:"slot_duration_minutes,notnull"`
	CreatedAt           time.Time `bun:"created_at,notnull"`
	UpdatedAt           time.Time `bun:"updated_at,notnull"`
}

func (s *Schedule) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampInsertOrUpdate(query, &s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ValidDayOfWeek reports whether d is 0 (Sunday) through 6 (Saturday).
func ValidDayOfWeek(d int) bool {
	return d >= 0 && d <= 6
}

func (s Schedule) Validate() error {
	if !ValidDayOfWeek(s.DayOfWeek) {
		return errors.New("day_of_week must be between 0 and 6")
	}
	if s.StartTime >= s.EndTime {
		return errors.New("start_time must be before end_time")
	}
	if s.SlotDurationMinutes <= 0 {
		return errors.New("slot_duration_minutes must be positive")
	}
	return nil
}

// Window returns the schedule's [start, end) interval on the UTC date of date.
func (s Schedule) Window(date time.Time) (time.Time, time.Time) {
	return s.StartTime.On(date), s.EndTime.On(date)
}

// SlotLength resolves the slot size: an explicit positive override wins,
// then the schedule's own duration, then DefaultSlotMinutes.
func (s Schedule) SlotLength(overrideMinutes int) time.Duration {
	minutes := overrideMinutes
	if minutes <= 0 {
		minutes = s.SlotDurationMinutes
	}
	if minutes <= 0 {
		minutes = DefaultSlotMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// StartOfDay truncates t to 00:00:00 UTC of its UTC calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Weekday returns 0 (Sunday) through 6 (Saturday) for the UTC date of t.
func Weekday(t time.Time) int {
	return int(t.UTC().Weekday())
}

// DayBounds returns [00:00Z, next 00:00Z) for the UTC date of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.Add(day)
}
