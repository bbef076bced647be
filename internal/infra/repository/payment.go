package repository

import (
	"context"
	"time"

	"tablebook/internal/domain/payment"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// PaymentRepository writes payments and their refund rows. Terminal
// transitions are compare-and-set so the verify callback and the
// captured webhook can race safely: exactly one caller moves the row.
type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	const q = `
		INSERT INTO payments (
			id, reference, booking_id, user_id, amount_cents,
			currency, method, status, gateway_order_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q,
		p.ID(), p.Reference(), p.BookingID(), p.UserID(), p.AmountCents(),
		p.Currency(), p.Method().String(), p.Status().String(), p.GatewayOrderID(), p.CreatedAt(), p.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create payment", err)
	}

	return id, nil
}

func (r *PaymentRepository) MarkCompleted(ctx context.Context, tx db.DBTX, id uuid.UUID, gatewayPaymentID, signature string, feeCents *int64, capturedAt time.Time) (int64, error) {
	const q = `
		UPDATE payments
		SET status = 'completed',
		    gateway_payment_id = $2,
		    gateway_signature = NULLIF($3, ''),
		    gateway_fee_cents = $4,
		    captured_at = $5,
		    updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	tag, err := tx.Exec(ctx, q, id, gatewayPaymentID, signature, pgconv.Int64PtrToPgtype(feeCents), capturedAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark payment completed", err)
	}

	return tag.RowsAffected(), nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, reason string) (int64, error) {
	const q = `
		UPDATE payments
		SET status = 'failed', failure_reason = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	tag, err := tx.Exec(ctx, q, id, reason)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark payment failed", err)
	}

	return tag.RowsAffected(), nil
}

func (r *PaymentRepository) InsertRefund(ctx context.Context, tx db.DBTX, paymentID uuid.UUID, rf *payment.Refund) error {
	const q = `
		INSERT INTO payment_refunds (
			payment_id, reference, amount_cents, reason, status,
			gateway_refund_id, processed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, q,
		paymentID, rf.Reference, rf.AmountCents, rf.Reason, string(rf.Status),
		pgconv.StringPtrToPgtype(rf.GatewayRefundID), pgconv.TimePtrToPgtype(rf.ProcessedAt), rf.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert refund", err)
	}

	return nil
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error) {
	const q = `
		UPDATE payments
		SET status = 'refunded', updated_at = now()
		WHERE id = $1 AND status = 'completed'`

	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark payment refunded", err)
	}

	return tag.RowsAffected(), nil
}
