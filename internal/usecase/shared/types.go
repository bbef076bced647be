package shared

import (
	"time"

	"tablebook/internal/domain/branch"

	"github.com/google/uuid"
)

// Snapshots are plain read models for command-side validation. Commands
// rebuild domain entities from them before applying any rules.

type BranchSnapshot struct {
	ID              uuid.UUID
	Name            string
	Timezone        string
	Schedule        branch.WeekSchedule
	FreeCancelHours int
	CancelFeeCents  int64
	MinAdvanceMin   int
	MaxAdvanceDays  int
	MaxPartySize    int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TableSnapshot struct {
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BookingSnapshot struct {
	ID            uuid.UUID
	Reference     string
	UserID        uuid.UUID
	BranchID      uuid.UUID
	TableID       uuid.UUID
	Date          time.Time
	StartMin      int
	EndMin        int
	PartySize     int
	Status        string
	TotalCents    int64
	DiscountCents int64
	OfferID       *uuid.UUID
	PaymentID     *uuid.UUID
	CheckedInAt   *time.Time
	HasRating     bool
	CreatedAt     time.Time
}

type PaymentSnapshot struct {
	ID               uuid.UUID
	Reference        string
	BookingID        uuid.UUID
	UserID           uuid.UUID
	AmountCents      int64
	Currency         string
	Method           string
	Status           string
	GatewayOrderID   string
	GatewayPaymentID *string
	GatewayFeeCents  *int64
	CapturedAt       *time.Time
	FailureReason    *string
	Refund           *RefundSnapshot
	CreatedAt        time.Time
}

type RefundSnapshot struct {
	Reference       string
	AmountCents     int64
	Reason          string
	Status          string
	GatewayRefundID *string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
}

type OfferSnapshot struct {
	ID               uuid.UUID
	BranchID         uuid.UUID
	Code             string
	Title            string
	Type             string
	DiscountValue    int64
	MaxDiscountCents *int64
	MinOrderCents    int64
	MinPartySize     *int
	MaxPartySize     *int
	Tiers            []string
	Weekdays         uint8
	DailyStartMin    *int
	DailyEndMin      *int
	StartDate        time.Time
	EndDate          time.Time
	GlobalCap        *int64
	PerUserCap       *int64
	UsedCount        int64
	RevenueCents     int64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type UserSnapshot struct {
	ID            uuid.UUID
	Email         string
	Role          string
	Tier          string
	LoyaltyPoints int64
	IsActive      bool
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

// HeldSlot is one interval still blocking a table on a given date. Only
// pending and confirmed bookings hold slots.
type HeldSlot struct {
	BookingID uuid.UUID
	StartMin  int
	EndMin    int
}

// Overlapping reports whether the half-open request [startMin, endMin)
// collides with any held slot. Touching intervals do not collide.
func Overlapping(startMin, endMin int, held []HeldSlot) bool {
	for _, h := range held {
		if startMin < h.EndMin && h.StartMin < endMin {
			return true
		}
	}
	return false
}
