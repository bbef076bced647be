package repository

import (
	"context"
	"encoding/json"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// BookingRepository mutates the bookings table with plain SQL. Every
// status transition is compare-and-set: the WHERE clause names the
// statuses the transition may leave from and the caller reads the row
// count to learn whether it won the race.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	const q = `
		INSERT INTO bookings (
			id, reference, user_id, branch_id, table_id,
			booking_date, start_min, end_min, party_size, status,
			items, total_cents, discount_cents, offer_id, special_requests,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17
		)
		RETURNING id`

	items, err := json.Marshal(b.Items())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to encode pre-order items", err)
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, q,
		b.ID(), b.Reference(), b.UserID(), b.BranchID(), b.TableID(),
		pgconv.DateToPgtype(b.Slot().Date()), b.Slot().Start().Minutes(), b.Slot().End().Minutes(), b.PartySize(), b.Status().String(),
		items, b.Total().Cents(), b.Discount().Cents(), pgconv.UUIDPtrToPgtype(b.OfferID()), b.SpecialRequests().String(),
		b.CreatedAt(), b.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, from []booking.Status, to booking.Status) (int64, error) {
	const q = `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)`

	tag, err := tx.Exec(ctx, q, id, to.String(), statusStrings(from))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to update booking status", err)
	}

	return tag.RowsAffected(), nil
}

func (r *BookingRepository) SetCancelled(ctx context.Context, tx db.DBTX, id uuid.UUID, c booking.Cancellation, from []booking.Status) (int64, error) {
	const q = `
		UPDATE bookings
		SET status = 'cancelled',
		    cancelled_actor = $2,
		    cancelled_reason = $3,
		    cancelled_at = $4,
		    refund_amount_cents = $5,
		    updated_at = now()
		WHERE id = $1 AND status = ANY($6)`

	tag, err := tx.Exec(ctx, q, id, string(c.Actor), c.Reason, c.At, c.RefundAmount.Cents(), statusStrings(from))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel booking", err)
	}

	return tag.RowsAffected(), nil
}

func (r *BookingRepository) SetCheckedIn(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) (int64, error) {
	const q = `
		UPDATE bookings
		SET checked_in_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'confirmed' AND checked_in_at IS NULL`

	tag, err := tx.Exec(ctx, q, id, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to check in booking", err)
	}

	return tag.RowsAffected(), nil
}

func (r *BookingRepository) SetRating(ctx context.Context, tx db.DBTX, id uuid.UUID, rating booking.Rating) (int64, error) {
	const q = `
		UPDATE bookings
		SET rating = $2, updated_at = now()
		WHERE id = $1 AND status = 'completed' AND rating IS NULL`

	payload, err := json.Marshal(rating)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to encode rating", err)
	}

	tag, err := tx.Exec(ctx, q, id, payload)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to rate booking", err)
	}

	return tag.RowsAffected(), nil
}

func (r *BookingRepository) LinkPayment(ctx context.Context, tx db.DBTX, bookingID, paymentID uuid.UUID) (int64, error) {
	// A booking may be re-linked after a failed or cancelled attempt;
	// an active payment keeps the slot claimed.
	const q = `
		UPDATE bookings b
		SET payment_id = $2, updated_at = now()
		WHERE b.id = $1
		  AND (b.payment_id IS NULL OR EXISTS (
		      SELECT 1 FROM payments p
		      WHERE p.id = b.payment_id AND p.status IN ('failed', 'cancelled')))`

	tag, err := tx.Exec(ctx, q, bookingID, paymentID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to link payment to booking", err)
	}

	return tag.RowsAffected(), nil
}

func statusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
