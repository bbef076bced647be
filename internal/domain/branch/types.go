package branch

import "errors"

var (
	ErrInvalidTheme       = errors.New("invalid table theme")
	ErrInvalidDaySchedule = errors.New("invalid day schedule")
)

// Theme is a categorical seating tag. It drives search filtering and
// display ordering only, never availability.
type Theme string

const (
	ThemeStandard Theme = "standard"
	ThemeFamily   Theme = "family"
	ThemePremium  Theme = "premium"
	ThemeOutdoor  Theme = "outdoor"
	ThemePrivate  Theme = "private"
)

func (t Theme) String() string {
	return string(t)
}

func (t Theme) IsValid() bool {
	switch t {
	case ThemeStandard, ThemeFamily, ThemePremium, ThemeOutdoor, ThemePrivate:
		return true
	default:
		return false
	}
}

func NewTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.IsValid() {
		return "", ErrInvalidTheme
	}
	return t, nil
}

const minutesPerDay = 24 * 60

// DaySchedule holds one weekday's opening window as minutes from
// midnight in the branch's local timezone. CloseMin may be 1440 for a
// branch that closes at midnight.
type DaySchedule struct {
	IsOpen   bool `json:"is_open"`
	OpenMin  int  `json:"open_min"`
	CloseMin int  `json:"close_min"`
}

func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if d.OpenMin < 0 || d.OpenMin >= minutesPerDay {
		return ErrInvalidDaySchedule
	}
	if d.CloseMin <= d.OpenMin || d.CloseMin > minutesPerDay {
		return ErrInvalidDaySchedule
	}
	return nil
}

// WeekSchedule is indexed by time.Weekday (Sunday = 0).
type WeekSchedule [7]DaySchedule

func (w WeekSchedule) Validate() error {
	for _, d := range w {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CancellationPolicy controls refund math on cancellation: cancelling
// at least FreeCancelHours before the slot start refunds the full
// amount, later cancellations forfeit CancelFeeCents.
type CancellationPolicy struct {
	FreeCancelHours int
	CancelFeeCents  int64
}

// BookingRules bound how far ahead a slot may be booked. A table may
// override either field; zero MaxAdvanceDays means no upper bound.
type BookingRules struct {
	MinAdvanceMin  int
	MaxAdvanceDays int
}
