package branch

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyBranchName        = errors.New("branch name cannot be empty")
	ErrBranchNameTooLong      = errors.New("branch name is too long (max 255 characters)")
	ErrInvalidTimezone        = errors.New("branch timezone is not a valid IANA name")
	ErrInvalidPartySizeLimit  = errors.New("max party size must be positive")
	ErrInvalidBookingRules    = errors.New("booking rules cannot be negative")
	ErrNegativeCancelFee      = errors.New("cancellation fee cannot be negative")
	ErrInvalidSeatCount       = errors.New("table seat count must be positive")
	ErrInvalidTableNumber     = errors.New("table number must be positive")
	ErrInvalidPriceMultiplier = errors.New("price multiplier must be between 0.5 and 3.0")
)

const (
	MaxBranchNameLength = 255

	MinPriceMultiplier = 0.5
	MaxPriceMultiplier = 3.0
)

// Branch is read-mostly reference data for the booking engine: it is
// created and edited by the admin surface, never by the core.
type Branch struct {
	id           uuid.UUID
	name         string
	timezoneName string
	timezone     *time.Location
	schedule     WeekSchedule
	policy       CancellationPolicy
	rules        BookingRules
	maxPartySize int
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBranch(
	id uuid.UUID,
	name string,
	timezoneName string,
	schedule WeekSchedule,
	policy CancellationPolicy,
	rules BookingRules,
	maxPartySize int,
) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyBranchName
	}
	if len(name) > MaxBranchNameLength {
		return nil, ErrBranchNameTooLong
	}
	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if policy.FreeCancelHours < 0 || policy.CancelFeeCents < 0 {
		return nil, ErrNegativeCancelFee
	}
	if rules.MinAdvanceMin < 0 || rules.MaxAdvanceDays < 0 {
		return nil, ErrInvalidBookingRules
	}
	if maxPartySize <= 0 {
		return nil, ErrInvalidPartySizeLimit
	}

	return &Branch{
		id:           id,
		name:         name,
		timezoneName: timezoneName,
		timezone:     loc,
		schedule:     schedule,
		policy:       policy,
		rules:        rules,
		maxPartySize: maxPartySize,
		isActive:     true,
	}, nil
}

func ReconstructBranch(
	id uuid.UUID,
	name string,
	timezoneName string,
	schedule WeekSchedule,
	policy CancellationPolicy,
	rules BookingRules,
	maxPartySize int,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Branch, error) {
	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return &Branch{
		id:           id,
		name:         name,
		timezoneName: timezoneName,
		timezone:     loc,
		schedule:     schedule,
		policy:       policy,
		rules:        rules,
		maxPartySize: maxPartySize,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// ScheduleFor returns the opening window for the given weekday.
func (b *Branch) ScheduleFor(day time.Weekday) DaySchedule {
	return b.schedule[day]
}

func (b *Branch) ID() uuid.UUID              { return b.id }
func (b *Branch) Name() string               { return b.name }
func (b *Branch) TimezoneName() string       { return b.timezoneName }
func (b *Branch) Timezone() *time.Location   { return b.timezone }
func (b *Branch) Schedule() WeekSchedule     { return b.schedule }
func (b *Branch) Policy() CancellationPolicy { return b.policy }
func (b *Branch) Rules() BookingRules        { return b.rules }
func (b *Branch) MaxPartySize() int          { return b.maxPartySize }
func (b *Branch) IsActive() bool             { return b.isActive }
func (b *Branch) CreatedAt() time.Time       { return b.createdAt }
func (b *Branch) UpdatedAt() time.Time       { return b.updatedAt }

// Table belongs to exactly one branch. isAvailable is a manual
// override flipped by staff; it is independent of slot occupancy.
type Table struct {
	id              uuid.UUID
	branchID        uuid.UUID
	number          int
	seats           int
	theme           Theme
	priceMultiplier float64
	isActive        bool
	isAvailable     bool
	minAdvanceMin   *int
	maxAdvanceDays  *int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewTable(
	id uuid.UUID,
	branchID uuid.UUID,
	number int,
	seats int,
	theme Theme,
	priceMultiplier float64,
) (*Table, error) {
	if number <= 0 {
		return nil, ErrInvalidTableNumber
	}
	if seats <= 0 {
		return nil, ErrInvalidSeatCount
	}
	if !theme.IsValid() {
		return nil, ErrInvalidTheme
	}
	if priceMultiplier < MinPriceMultiplier || priceMultiplier > MaxPriceMultiplier {
		return nil, ErrInvalidPriceMultiplier
	}

	return &Table{
		id:              id,
		branchID:        branchID,
		number:          number,
		seats:           seats,
		theme:           theme,
		priceMultiplier: priceMultiplier,
		isActive:        true,
		isAvailable:     true,
	}, nil
}

func ReconstructTable(
	id uuid.UUID,
	branchID uuid.UUID,
	number int,
	seats int,
	theme Theme,
	priceMultiplier float64,
	isActive bool,
	isAvailable bool,
	minAdvanceMin *int,
	maxAdvanceDays *int,
	createdAt time.Time,
	updatedAt time.Time,
) *Table {
	return &Table{
		id:              id,
		branchID:        branchID,
		number:          number,
		seats:           seats,
		theme:           theme,
		priceMultiplier: priceMultiplier,
		isActive:        isActive,
		isAvailable:     isAvailable,
		minAdvanceMin:   minAdvanceMin,
		maxAdvanceDays:  maxAdvanceDays,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// EffectiveRules resolves the table's advance-booking bounds, falling
// back to the branch defaults where the table has no override.
func (t *Table) EffectiveRules(b *Branch) BookingRules {
	rules := b.Rules()
	if t.minAdvanceMin != nil {
		rules.MinAdvanceMin = *t.minAdvanceMin
	}
	if t.maxAdvanceDays != nil {
		rules.MaxAdvanceDays = *t.maxAdvanceDays
	}
	return rules
}

// Bookable reports whether the table accepts new bookings at all,
// before any slot conflict check.
func (t *Table) Bookable() bool {
	return t.isActive && t.isAvailable
}

func (t *Table) ID() uuid.UUID            { return t.id }
func (t *Table) BranchID() uuid.UUID      { return t.branchID }
func (t *Table) Number() int              { return t.number }
func (t *Table) Seats() int               { return t.seats }
func (t *Table) Theme() Theme             { return t.theme }
func (t *Table) PriceMultiplier() float64 { return t.priceMultiplier }
func (t *Table) IsActive() bool           { return t.isActive }
func (t *Table) IsAvailable() bool        { return t.isAvailable }
func (t *Table) MinAdvanceMin() *int      { return t.minAdvanceMin }
func (t *Table) MaxAdvanceDays() *int     { return t.maxAdvanceDays }
func (t *Table) CreatedAt() time.Time     { return t.createdAt }
func (t *Table) UpdatedAt() time.Time     { return t.updatedAt }
