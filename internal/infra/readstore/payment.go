package readstore

import (
	"context"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

const paymentViewColumns = `
	p.id, p.reference, p.booking_id, p.user_id, p.amount_cents,
	p.currency, p.method, p.status, p.gateway_order_id, p.gateway_payment_id,
	p.gateway_fee_cents, p.captured_at, p.failure_reason,
	r.reference, r.amount_cents, r.reason, r.status, r.gateway_refund_id, r.processed_at,
	p.created_at, p.updated_at`

func (s *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	const q = `
		SELECT ` + paymentViewColumns + `
		FROM payments p
		LEFT JOIN payment_refunds r ON r.payment_id = p.id
		WHERE p.id = $1`

	return scanPaymentView(s.db.QueryRow(ctx, q, id), "failed to find payment by ID")
}

// FindByBookingID returns the booking's most recent payment; earlier
// failed attempts stay reachable only through their own IDs.
func (s *PaymentReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	const q = `
		SELECT ` + paymentViewColumns + `
		FROM payments p
		LEFT JOIN payment_refunds r ON r.payment_id = p.id
		WHERE p.booking_id = $1
		ORDER BY p.created_at DESC
		LIMIT 1`

	return scanPaymentView(s.db.QueryRow(ctx, q, bookingID), "failed to find payment by booking ID")
}

func scanPaymentView(row pgx.Row, failMsg string) (*queries.PaymentView, error) {
	var (
		view             queries.PaymentView
		gatewayPaymentID pgtype.Text
		gatewayFeeCents  pgtype.Int8
		capturedAt       pgtype.Timestamptz
		failureReason    pgtype.Text
		refReference     pgtype.Text
		refAmountCents   pgtype.Int8
		refReason        pgtype.Text
		refStatus        pgtype.Text
		refGatewayID     pgtype.Text
		refProcessedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Reference, &view.BookingID, &view.UserID, &view.AmountCents,
		&view.Currency, &view.Method, &view.Status, &view.GatewayOrderID, &gatewayPaymentID,
		&gatewayFeeCents, &capturedAt, &failureReason,
		&refReference, &refAmountCents, &refReason, &refStatus, &refGatewayID, &refProcessedAt,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(failMsg, err)
	}

	view.GatewayPaymentID = pgconv.StringPtrFromPgtype(gatewayPaymentID)
	view.GatewayFeeCents = pgconv.Int64PtrFromPgtype(gatewayFeeCents)
	view.CapturedAt = pgconv.TimePtrFromPgtype(capturedAt)
	view.FailureReason = pgconv.StringPtrFromPgtype(failureReason)

	if refReference.Valid {
		view.Refund = &queries.RefundView{
			Reference:       refReference.String,
			AmountCents:     refAmountCents.Int64,
			Reason:          refReason.String,
			Status:          refStatus.String,
			GatewayRefundID: pgconv.StringPtrFromPgtype(refGatewayID),
			ProcessedAt:     pgconv.TimePtrFromPgtype(refProcessedAt),
		}
	}

	return &view, nil
}
