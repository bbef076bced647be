package queries

import (
	"context"
	"fmt"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBranchNotFound = errs.New("branch not found")
	ErrTableNotFound  = errs.New("table not found")
)

type AvailabilityRequest struct {
	BranchID  uuid.UUID
	Date      time.Time
	StartMin  int
	EndMin    int
	PartySize int
	Theme     *string
}

type AvailabilityQueries interface {
	// FindAvailableTables enumerates bookable tables for the requested
	// slot. A closed day or out-of-hours slot yields an empty result
	// with a reason, not an error.
	FindAvailableTables(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error)
	// IsTableFree decides slot conflict for one table against bookings
	// that still hold their slot.
	IsTableFree(ctx context.Context, tableID uuid.UUID, slot booking.Slot, excludeBookingID *uuid.UUID) (bool, error)
}

type AvailabilityViewRepo interface {
	BranchByID(ctx context.Context, id uuid.UUID) (*shared.BranchSnapshot, error)
	// Candidates returns active, available tables seating at least
	// partySize, ordered by theme, then seats ascending, then number.
	Candidates(ctx context.Context, branchID uuid.UUID, partySize int, theme *string) ([]*AvailableTableView, error)
	HeldSlots(ctx context.Context, tableID uuid.UUID, date time.Time, excludeBookingID *uuid.UUID) ([]shared.HeldSlot, error)
}

type availabilityQueriesImpl struct {
	repo AvailabilityViewRepo
}

func NewAvailabilityQueries(repo AvailabilityViewRepo) AvailabilityQueries {
	return &availabilityQueriesImpl{repo: repo}
}

func (q *availabilityQueriesImpl) FindAvailableTables(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error) {
	br, err := q.repo.BranchByID(ctx, req.BranchID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	if !br.IsActive {
		return nil, ErrBranchNotFound
	}

	slot, err := buildSlot(req.Date, req.StartMin, req.EndMin)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		BranchID:  req.BranchID,
		Date:      slot.Date().Format("2006-01-02"),
		Start:     slot.Start().String(),
		End:       slot.End().String(),
		PartySize: req.PartySize,
		Tables:    []*AvailableTableView{},
	}

	day := br.Schedule[slot.Weekday()]
	if !day.IsOpen {
		reason := fmt.Sprintf("branch is closed on %s", slot.Weekday())
		view.Reason = &reason
		return view, nil
	}
	if !booking.WithinOperatingHours(slot, day) {
		reason := fmt.Sprintf("slot is outside operating hours (%s-%s)", clock(day.OpenMin), clock(day.CloseMin))
		view.Reason = &reason
		return view, nil
	}

	candidates, err := q.repo.Candidates(ctx, req.BranchID, req.PartySize, req.Theme)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		held, err := q.repo.HeldSlots(ctx, candidate.ID, slot.Date(), nil)
		if err != nil {
			return nil, err
		}
		if !shared.Overlapping(slot.Start().Minutes(), slot.End().Minutes(), held) {
			view.Tables = append(view.Tables, candidate)
		}
	}

	return view, nil
}

func (q *availabilityQueriesImpl) IsTableFree(ctx context.Context, tableID uuid.UUID, slot booking.Slot, excludeBookingID *uuid.UUID) (bool, error) {
	held, err := q.repo.HeldSlots(ctx, tableID, slot.Date(), excludeBookingID)
	if err != nil {
		return false, err
	}
	return !shared.Overlapping(slot.Start().Minutes(), slot.End().Minutes(), held), nil
}

func buildSlot(date time.Time, startMin, endMin int) (booking.Slot, error) {
	start, err := booking.NewTimeOfDay(startMin)
	if err != nil {
		return booking.Slot{}, err
	}
	end, err := booking.NewTimeOfDay(endMin)
	if err != nil {
		return booking.Slot{}, err
	}
	return booking.NewSlot(date, start, end)
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
