package shared

import (
	"context"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/payment"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Offers() OfferRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	RatingStats() RatingStatsRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	BranchByID(ctx context.Context, id uuid.UUID) (*BranchSnapshot, error)
	TableByID(ctx context.Context, id uuid.UUID) (*TableSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	PaymentByID(ctx context.Context, id uuid.UUID) (*PaymentSnapshot, error)
	PaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*PaymentSnapshot, error)
	PaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentSnapshot, error)
	OfferByCode(ctx context.Context, branchID uuid.UUID, code string) (*OfferSnapshot, error)
	OfferUserUses(ctx context.Context, offerID, userID uuid.UUID) (int64, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	HeldSlots(ctx context.Context, tableID uuid.UUID, date time.Time, excludeBookingID *uuid.UUID) ([]HeldSlot, error)
}

// BookingRepository mutates bookings with compare-and-set updates: every
// transition names the statuses it may leave from and reports how many
// rows actually moved. Zero means the booking was in another state and
// the caller decides whether that is a conflict or an idempotent no-op.
type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, from []booking.Status, to booking.Status) (int64, error)
	SetCancelled(ctx context.Context, tx db.DBTX, id uuid.UUID, c booking.Cancellation, from []booking.Status) (int64, error)
	SetCheckedIn(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) (int64, error)
	SetRating(ctx context.Context, tx db.DBTX, id uuid.UUID, r booking.Rating) (int64, error)
	LinkPayment(ctx context.Context, tx db.DBTX, bookingID, paymentID uuid.UUID) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, id uuid.UUID, gatewayPaymentID, signature string, feeCents *int64, capturedAt time.Time) (int64, error)
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, reason string) (int64, error)
	InsertRefund(ctx context.Context, tx db.DBTX, paymentID uuid.UUID, r *payment.Refund) error
	MarkRefunded(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error)
}

// OfferRepository records a redemption. RecordUse must stay a single
// guarded statement per counter so concurrent applications cannot
// exceed the global cap.
type OfferRepository interface {
	RecordUse(ctx context.Context, tx db.DBTX, offerID, userID uuid.UUID, orderCents int64, at time.Time) (int64, error)
}

type UserRepository interface {
	AddLoyaltyPoints(ctx context.Context, tx db.DBTX, userID uuid.UUID, points int64) error
}

type RatingStatsRepository interface {
	RecalcBranchRatingStats(ctx context.Context, tx db.DBTX, branchID uuid.UUID) error
}

// IdempotencyRepository claims request keys. TryInsert reports how many
// rows it created: one means the caller owns the key, zero means a prior
// request holds it and its record decides replay versus rejection.
type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (int64, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
	ClaimExpired(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}
