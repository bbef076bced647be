package booking

import (
	"time"

	"tablebook/internal/domain/branch"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/ids"

	"github.com/google/uuid"
)

// WithinOperatingHours reports whether the slot fits entirely inside
// the day's opening window.
func WithinOperatingHours(s Slot, day branch.DaySchedule) bool {
	if !day.IsOpen {
		return false
	}
	return s.Start().Minutes() >= day.OpenMin && s.End().Minutes() <= day.CloseMin
}

// RefundAmount computes what a cancellation returns to the customer.
// Cancelling at least policy.FreeCancelHours before the slot start
// refunds everything; later cancellations forfeit the flat fee.
func RefundAmount(total Money, policy branch.CancellationPolicy, untilStart time.Duration) Money {
	free := time.Duration(policy.FreeCancelHours) * time.Hour
	if untilStart >= free {
		return total
	}
	return total.Sub(NewMoney(policy.CancelFeeCents))
}

type Factory struct {
	Clock clock.Clock
	Refs  ids.Generator
}

func NewFactory(clock clock.Clock, refs ids.Generator) *Factory {
	return &Factory{
		Clock: clock,
		Refs:  refs,
	}
}

// CreateBooking runs every precondition that can be decided from the
// loaded branch, table, and request alone. Slot occupancy is not
// checked here; callers must hold the availability guard around
// persistence.
func (f *Factory) CreateBooking(
	branchEntity *branch.Branch,
	tableEntity *branch.Table,
	userID uuid.UUID,
	slot Slot,
	partySize int,
	items []PreOrderItem,
	discount Money,
	offerID *uuid.UUID,
	specialRequests SpecialRequests,
) (*Booking, error) {
	if !branchEntity.IsActive() {
		return nil, ErrBranchInactive
	}
	if tableEntity.BranchID() != branchEntity.ID() {
		return nil, ErrTableNotInBranch
	}
	if !tableEntity.Bookable() {
		return nil, ErrTableNotBookable
	}

	if partySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	if partySize > tableEntity.Seats() {
		return nil, ErrPartySizeExceedsSeats
	}
	if partySize > branchEntity.MaxPartySize() {
		return nil, ErrPartySizeExceedsBranchLimit
	}

	if !WithinOperatingHours(slot, branchEntity.ScheduleFor(slot.Weekday())) {
		return nil, ErrOutsideOperatingHours
	}

	rules := tableEntity.EffectiveRules(branchEntity)
	now := f.Clock.Now()
	startAt := slot.StartAt(branchEntity.Timezone())
	if startAt.Sub(now) < time.Duration(rules.MinAdvanceMin)*time.Minute {
		return nil, ErrTooSoonToBook
	}
	if rules.MaxAdvanceDays > 0 && startAt.After(now.AddDate(0, 0, rules.MaxAdvanceDays)) {
		return nil, ErrTooFarAhead
	}

	if len(items) > maxPreOrderItems {
		return nil, ErrTooManyPreOrderItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	total := ItemsTotal(items, tableEntity.PriceMultiplier()).Sub(discount)

	return NewBooking(
		f.Refs.BookingRef(now),
		userID,
		branchEntity.ID(),
		tableEntity.ID(),
		slot,
		partySize,
		items,
		total,
		discount,
		offerID,
		specialRequests,
	)
}
