//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/branch"

	"github.com/google/uuid"
)

type BranchBuilder struct {
	ID           uuid.UUID
	Name         string
	Timezone     string
	Schedule     branch.WeekSchedule
	Policy       branch.CancellationPolicy
	Rules        branch.BookingRules
	MaxPartySize int
	IsActive     bool
}

func NewBranchBuilder() *BranchBuilder {
	return &BranchBuilder{
		ID:       uuid.New(),
		Name:     "Downtown Kitchen",
		Timezone: "UTC",
		Schedule: OpenAllWeek(10*60, 23*60),
		Policy: branch.CancellationPolicy{
			FreeCancelHours: 24,
			CancelFeeCents:  500,
		},
		Rules: branch.BookingRules{
			MinAdvanceMin:  60,
			MaxAdvanceDays: 30,
		},
		MaxPartySize: 12,
		IsActive:     true,
	}
}

// OpenAllWeek builds a schedule with the same window every day.
func OpenAllWeek(openMin, closeMin int) branch.WeekSchedule {
	var w branch.WeekSchedule
	for i := range w {
		w[i] = branch.DaySchedule{IsOpen: true, OpenMin: openMin, CloseMin: closeMin}
	}
	return w
}

func (b *BranchBuilder) With(mutate func(*BranchBuilder)) *BranchBuilder {
	mutate(b)
	return b
}

func (b *BranchBuilder) BuildDomain() (*branch.Branch, error) {
	built, err := branch.NewBranch(b.ID, b.Name, b.Timezone, b.Schedule, b.Policy, b.Rules, b.MaxPartySize)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return branch.ReconstructBranch(
			b.ID, b.Name, b.Timezone, b.Schedule, b.Policy, b.Rules, b.MaxPartySize,
			false, time.Now(), time.Now(),
		)
	}
	return built, nil
}

func (b *BranchBuilder) WithName(name string) *BranchBuilder {
	b.Name = name
	return b
}

func (b *BranchBuilder) WithTimezone(tz string) *BranchBuilder {
	b.Timezone = tz
	return b
}

func (b *BranchBuilder) WithClosedDay(day time.Weekday) *BranchBuilder {
	b.Schedule[day] = branch.DaySchedule{}
	return b
}

func (b *BranchBuilder) WithDayWindow(day time.Weekday, openMin, closeMin int) *BranchBuilder {
	b.Schedule[day] = branch.DaySchedule{IsOpen: true, OpenMin: openMin, CloseMin: closeMin}
	return b
}

func (b *BranchBuilder) WithPolicy(freeCancelHours int, cancelFeeCents int64) *BranchBuilder {
	b.Policy = branch.CancellationPolicy{FreeCancelHours: freeCancelHours, CancelFeeCents: cancelFeeCents}
	return b
}

func (b *BranchBuilder) WithRules(minAdvanceMin, maxAdvanceDays int) *BranchBuilder {
	b.Rules = branch.BookingRules{MinAdvanceMin: minAdvanceMin, MaxAdvanceDays: maxAdvanceDays}
	return b
}

func (b *BranchBuilder) WithMaxPartySize(limit int) *BranchBuilder {
	b.MaxPartySize = limit
	return b
}

func (b *BranchBuilder) AsInactive() *BranchBuilder {
	b.IsActive = false
	return b
}
