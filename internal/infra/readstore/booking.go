package readstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT b.id, b.reference, b.user_id, u.email,
		       b.branch_id, br.name,
		       b.table_id, t.number, t.theme,
		       b.booking_date, b.start_min, b.end_min, b.party_size, b.status,
		       b.items, b.total_cents, b.discount_cents,
		       o.code,
		       NULLIF(b.special_requests, ''), b.payment_id, p.status,
		       b.checked_in_at, b.rating,
		       b.cancelled_actor, b.cancelled_reason, b.cancelled_at, b.refund_amount_cents,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN branches br ON br.id = b.branch_id
		JOIN tables t ON t.id = b.table_id
		LEFT JOIN offers o ON o.id = b.offer_id
		LEFT JOIN payments p ON p.id = b.payment_id
		WHERE b.id = $1`

	var (
		view             queries.BookingView
		date             pgtype.Date
		startMin, endMin int
		items            []byte
		offerCode        pgtype.Text
		specialRequests  pgtype.Text
		paymentID        pgtype.UUID
		paymentStatus    pgtype.Text
		checkedInAt      pgtype.Timestamptz
		rating           []byte
		cancelledActor   pgtype.Text
		cancelledReason  pgtype.Text
		cancelledAt      pgtype.Timestamptz
		refundCents      pgtype.Int8
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.Reference, &view.UserID, &view.UserEmail,
		&view.BranchID, &view.BranchName,
		&view.TableID, &view.TableNumber, &view.TableTheme,
		&date, &startMin, &endMin, &view.PartySize, &view.Status,
		&items, &view.TotalCents, &view.DiscountCents,
		&offerCode,
		&specialRequests, &paymentID, &paymentStatus,
		&checkedInAt, &rating,
		&cancelledActor, &cancelledReason, &cancelledAt, &refundCents,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.Date = date.Time.Format("2006-01-02")
	view.Start = clockString(startMin)
	view.End = clockString(endMin)
	view.OfferCode = pgconv.StringPtrFromPgtype(offerCode)
	view.SpecialRequests = pgconv.StringPtrFromPgtype(specialRequests)
	view.PaymentID = pgconv.UUIDPtrFromPgtype(paymentID)
	view.PaymentStatus = pgconv.StringPtrFromPgtype(paymentStatus)
	view.CheckedInAt = pgconv.TimePtrFromPgtype(checkedInAt)

	if len(items) > 0 {
		if err := json.Unmarshal(items, &view.Items); err != nil {
			return nil, infra.WrapRepoErr("failed to decode booking items", err)
		}
	}
	if rating != nil {
		var rv queries.RatingView
		if err := json.Unmarshal(rating, &rv); err != nil {
			return nil, infra.WrapRepoErr("failed to decode booking rating", err)
		}
		view.Rating = &rv
	}
	if cancelledAt.Valid {
		view.Cancellation = &queries.CancellationView{
			Actor:       cancelledActor.String,
			Reason:      cancelledReason.String,
			At:          cancelledAt.Time,
			RefundCents: refundCents.Int64,
		}
	}

	return &view, nil
}

const bookingListColumns = `
	b.id, b.reference, br.name, t.number,
	b.booking_date, b.start_min, b.end_min, b.party_size, b.status,
	b.total_cents, b.created_at`

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	const q = `
		SELECT ` + bookingListColumns + `
		FROM bookings b
		JOIN branches br ON br.id = b.branch_id
		JOIN tables t ON t.id = b.table_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings first page", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

func (r *BookingReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	const q = `
		SELECT ` + bookingListColumns + `
		FROM bookings b
		JOIN branches br ON br.id = b.branch_id
		JOIN tables t ON t.id = b.table_id
		WHERE b.user_id = $1 AND (b.created_at, b.id) < ($2, $3)
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $4`

	rows, err := r.db.Query(ctx, q, userID, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings keyset", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

func scanBookingListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	result := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var (
			item             queries.BookingListItem
			date             pgtype.Date
			startMin, endMin int
		)
		err := rows.Scan(
			&item.ID, &item.Reference, &item.BranchName, &item.TableNumber,
			&date, &startMin, &endMin, &item.PartySize, &item.Status,
			&item.TotalCents, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.Date = date.Time.Format("2006-01-02")
		item.Start = clockString(startMin)
		item.End = clockString(endMin)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list", err)
	}

	return result, nil
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
