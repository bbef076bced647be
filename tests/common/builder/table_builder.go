//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/branch"

	"github.com/google/uuid"
)

type TableBuilder struct {
	ID              uuid.UUID
	BranchID        uuid.UUID
	Number          int
	Seats           int
	Theme           string
	PriceMultiplier float64
	IsActive        bool
	IsAvailable     bool
	MinAdvanceMin   *int
	MaxAdvanceDays  *int
}

func NewTableBuilder(branchID uuid.UUID) *TableBuilder {
	return &TableBuilder{
		ID:              uuid.New(),
		BranchID:        branchID,
		Number:          1,
		Seats:           4,
		Theme:           "family",
		PriceMultiplier: 1.0,
		IsActive:        true,
		IsAvailable:     true,
	}
}

func (t *TableBuilder) With(mutate func(*TableBuilder)) *TableBuilder {
	mutate(t)
	return t
}

func (t *TableBuilder) BuildDomain() (*branch.Table, error) {
	theme, err := branch.NewTheme(t.Theme)
	if err != nil {
		return nil, err
	}
	built, err := branch.NewTable(t.ID, t.BranchID, t.Number, t.Seats, theme, t.PriceMultiplier)
	if err != nil {
		return nil, err
	}
	if !t.IsActive || !t.IsAvailable || t.MinAdvanceMin != nil || t.MaxAdvanceDays != nil {
		return branch.ReconstructTable(
			t.ID, t.BranchID, t.Number, t.Seats, theme, t.PriceMultiplier,
			t.IsActive, t.IsAvailable, t.MinAdvanceMin, t.MaxAdvanceDays,
			time.Now(), time.Now(),
		), nil
	}
	return built, nil
}

func (t *TableBuilder) WithNumber(number int) *TableBuilder {
	t.Number = number
	return t
}

func (t *TableBuilder) WithSeats(seats int) *TableBuilder {
	t.Seats = seats
	return t
}

func (t *TableBuilder) WithTheme(theme string) *TableBuilder {
	t.Theme = theme
	return t
}

func (t *TableBuilder) WithPriceMultiplier(m float64) *TableBuilder {
	t.PriceMultiplier = m
	return t
}

func (t *TableBuilder) WithAdvanceOverride(minAdvanceMin, maxAdvanceDays *int) *TableBuilder {
	t.MinAdvanceMin = minAdvanceMin
	t.MaxAdvanceDays = maxAdvanceDays
	return t
}

func (t *TableBuilder) AsInactive() *TableBuilder {
	t.IsActive = false
	return t
}

func (t *TableBuilder) AsUnavailable() *TableBuilder {
	t.IsAvailable = false
	return t
}
