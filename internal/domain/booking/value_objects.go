package booking

import (
	"errors"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidTimeOfDay = errors.New("time of day out of range")
	ErrInvalidSlot      = errors.New("slot start must be before end")
)

// TimeOfDay is a branch-local wall clock time, stored as minutes from
// midnight. 1440 is allowed as an exclusive end bound (close at 24:00).
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: minutes}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(h*60 + m)
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

// Slot is a half-open interval [start, end) on a single calendar date.
// The date is normalized to midnight UTC and carries no wall-clock meaning;
// absolute instants come from StartAt/EndAt with the branch timezone.
type Slot struct {
	date  time.Time
	start TimeOfDay
	end   TimeOfDay
}

func NewSlot(date time.Time, start, end TimeOfDay) (Slot, error) {
	if !start.Before(end) {
		return Slot{}, ErrInvalidSlot
	}
	y, m, d := date.Date()
	return Slot{
		date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		start: start,
		end:   end,
	}, nil
}

func (s Slot) Date() time.Time  { return s.date }
func (s Slot) Start() TimeOfDay { return s.start }
func (s Slot) End() TimeOfDay   { return s.end }

// Overlaps reports whether the two slots contend for the same table time.
// Touching slots (a.end == b.start) do not overlap, so back-to-back
// bookings are allowed.
func (s Slot) Overlaps(other Slot) bool {
	if !s.date.Equal(other.date) {
		return false
	}
	return s.start.Minutes() < other.end.Minutes() && other.start.Minutes() < s.end.Minutes()
}

// StartAt resolves the slot's opening instant in the branch's timezone.
func (s Slot) StartAt(loc *time.Location) time.Time {
	y, m, d := s.date.Date()
	return time.Date(y, m, d, 0, s.start.Minutes(), 0, 0, loc)
}

func (s Slot) EndAt(loc *time.Location) time.Time {
	y, m, d := s.date.Date()
	return time.Date(y, m, d, 0, s.end.Minutes(), 0, 0, loc)
}

func (s Slot) Duration() time.Duration {
	return time.Duration(s.end.Minutes()-s.start.Minutes()) * time.Minute
}

func (s Slot) Weekday() time.Weekday {
	return s.date.Weekday()
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", s.date.Format("2006-01-02"), s.start, s.end)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub floors at zero; booking amounts never go negative.
func (m Money) Sub(other Money) Money {
	remaining := m.cents - other.cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

type SpecialRequests struct {
	value string
}

func NewSpecialRequests(value string) SpecialRequests {
	return SpecialRequests{value: value}
}

func (r SpecialRequests) String() string {
	return r.value
}

func (r SpecialRequests) IsEmpty() bool {
	return r.value == ""
}
