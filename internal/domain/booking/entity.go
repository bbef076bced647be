package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyReference              = errors.New("booking reference cannot be empty")
	ErrInvalidPartySize            = errors.New("party size must be positive")
	ErrPartySizeExceedsSeats       = errors.New("party size exceeds table seats")
	ErrPartySizeExceedsBranchLimit = errors.New("party size exceeds branch limit")
	ErrBranchInactive              = errors.New("branch is not active")
	ErrTableNotInBranch            = errors.New("table does not belong to branch")
	ErrTableNotBookable            = errors.New("table is not accepting bookings")
	ErrOutsideOperatingHours       = errors.New("slot is outside operating hours")
	ErrTooSoonToBook               = errors.New("slot starts before the minimum advance time")
	ErrTooFarAhead                 = errors.New("slot starts beyond the maximum advance window")
	ErrTooManyPreOrderItems        = errors.New("too many pre-order items")
)

// Cancellation records who ended the booking and what was owed back.
type Cancellation struct {
	Actor        CancelActor
	Reason       string
	At           time.Time
	RefundAmount Money
}

type Booking struct {
	id              uuid.UUID
	reference       string
	userID          uuid.UUID
	branchID        uuid.UUID
	tableID         uuid.UUID
	slot            Slot
	partySize       int
	status          Status
	items           []PreOrderItem
	total           Money
	discount        Money
	offerID         *uuid.UUID
	specialRequests SpecialRequests
	paymentID       *uuid.UUID
	checkedInAt     *time.Time
	rating          *Rating
	cancellation    *Cancellation
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBooking(
	reference string,
	userID, branchID, tableID uuid.UUID,
	slot Slot,
	partySize int,
	items []PreOrderItem,
	total Money,
	discount Money,
	offerID *uuid.UUID,
	specialRequests SpecialRequests,
) (*Booking, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if partySize <= 0 {
		return nil, ErrInvalidPartySize
	}

	return &Booking{
		id:              uuid.New(),
		reference:       reference,
		userID:          userID,
		branchID:        branchID,
		tableID:         tableID,
		slot:            slot,
		partySize:       partySize,
		status:          StatusPending,
		items:           items,
		total:           total,
		discount:        discount,
		offerID:         offerID,
		specialRequests: specialRequests,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	reference string,
	userID, branchID, tableID uuid.UUID,
	slot Slot,
	partySize int,
	status Status,
	items []PreOrderItem,
	total Money,
	discount Money,
	offerID *uuid.UUID,
	specialRequests SpecialRequests,
	paymentID *uuid.UUID,
	checkedInAt *time.Time,
	rating *Rating,
	cancellation *Cancellation,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		reference:       reference,
		userID:          userID,
		branchID:        branchID,
		tableID:         tableID,
		slot:            slot,
		partySize:       partySize,
		status:          status,
		items:           items,
		total:           total,
		discount:        discount,
		offerID:         offerID,
		specialRequests: specialRequests,
		paymentID:       paymentID,
		checkedInAt:     checkedInAt,
		rating:          rating,
		cancellation:    cancellation,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// HoldsSlot reports whether this booking still blocks its table slot.
func (b *Booking) HoldsSlot() bool {
	return b.status.HoldsSlot()
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) CheckedIn() bool {
	return b.checkedInAt != nil
}

func (b *Booking) Rated() bool {
	return b.rating != nil
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) Reference() string                { return b.reference }
func (b *Booking) UserID() uuid.UUID                { return b.userID }
func (b *Booking) BranchID() uuid.UUID              { return b.branchID }
func (b *Booking) TableID() uuid.UUID               { return b.tableID }
func (b *Booking) Slot() Slot                       { return b.slot }
func (b *Booking) PartySize() int                   { return b.partySize }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) Items() []PreOrderItem            { return b.items }
func (b *Booking) Total() Money                     { return b.total }
func (b *Booking) Discount() Money                  { return b.discount }
func (b *Booking) OfferID() *uuid.UUID              { return b.offerID }
func (b *Booking) SpecialRequests() SpecialRequests { return b.specialRequests }
func (b *Booking) PaymentID() *uuid.UUID            { return b.paymentID }
func (b *Booking) CheckedInAt() *time.Time          { return b.checkedInAt }
func (b *Booking) Rating() *Rating                  { return b.rating }
func (b *Booking) Cancellation() *Cancellation      { return b.cancellation }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
