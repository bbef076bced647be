package readstore

import (
	"context"
	"encoding/json"
	"time"

	"tablebook/internal/domain/branch"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReadStore loads the snapshots command handlers validate
// against. It runs over whatever DBTX it was given, so the same store
// serves in-transaction reads and the pre-transaction checks.
type CommandReadStore struct {
	db db.DBTX
}

func NewCommandReadStore(dbtx db.DBTX) *CommandReadStore {
	return &CommandReadStore{db: dbtx}
}

func (s *CommandReadStore) BranchByID(ctx context.Context, id uuid.UUID) (*shared.BranchSnapshot, error) {
	return branchSnapshotByID(ctx, s.db, id)
}

// branchSnapshotByID is shared with the availability readstore.
func branchSnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BranchSnapshot, error) {
	const q = `
		SELECT id, name, timezone, schedule, free_cancel_hours, cancel_fee_cents,
		       min_advance_min, max_advance_days, max_party_size, is_active,
		       created_at, updated_at
		FROM branches
		WHERE id = $1`

	var (
		snap     shared.BranchSnapshot
		schedule []byte
	)
	err := dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Name, &snap.Timezone, &schedule, &snap.FreeCancelHours, &snap.CancelFeeCents,
		&snap.MinAdvanceMin, &snap.MaxAdvanceDays, &snap.MaxPartySize, &snap.IsActive,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("branch not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find branch by ID", err)
	}

	var week branch.WeekSchedule
	if err := json.Unmarshal(schedule, &week); err != nil {
		return nil, infra.WrapRepoErr("failed to decode branch schedule", err)
	}
	snap.Schedule = week

	return &snap, nil
}

func (s *CommandReadStore) TableByID(ctx context.Context, id uuid.UUID) (*shared.TableSnapshot, error) {
	const q = `
		SELECT id, branch_id, number, seats, theme, price_multiplier,
		       is_active, is_available, min_advance_min, max_advance_days,
		       created_at, updated_at
		FROM tables
		WHERE id = $1`

	var (
		snap           shared.TableSnapshot
		minAdvanceMin  pgtype.Int4
		maxAdvanceDays pgtype.Int4
	)
	err := s.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.BranchID, &snap.Number, &snap.Seats, &snap.Theme, &snap.PriceMultiplier,
		&snap.IsActive, &snap.IsAvailable, &minAdvanceMin, &maxAdvanceDays,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table by ID", err)
	}

	snap.MinAdvanceMin = intPtrFromInt4(minAdvanceMin)
	snap.MaxAdvanceDays = intPtrFromInt4(maxAdvanceDays)

	return &snap, nil
}

func (s *CommandReadStore) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const q = `
		SELECT id, reference, user_id, branch_id, table_id,
		       booking_date, start_min, end_min, party_size, status,
		       total_cents, discount_cents, offer_id, payment_id,
		       checked_in_at, rating IS NOT NULL, created_at
		FROM bookings
		WHERE id = $1`

	var (
		snap        shared.BookingSnapshot
		date        pgtype.Date
		offerID     pgtype.UUID
		paymentID   pgtype.UUID
		checkedInAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Reference, &snap.UserID, &snap.BranchID, &snap.TableID,
		&date, &snap.StartMin, &snap.EndMin, &snap.PartySize, &snap.Status,
		&snap.TotalCents, &snap.DiscountCents, &offerID, &paymentID,
		&checkedInAt, &snap.HasRating, &snap.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	snap.Date = pgconv.DateFromPgtype(date)
	snap.OfferID = pgconv.UUIDPtrFromPgtype(offerID)
	snap.PaymentID = pgconv.UUIDPtrFromPgtype(paymentID)
	snap.CheckedInAt = pgconv.TimePtrFromPgtype(checkedInAt)

	return &snap, nil
}

const paymentSnapshotColumns = `
	p.id, p.reference, p.booking_id, p.user_id, p.amount_cents,
	p.currency, p.method, p.status, p.gateway_order_id, p.gateway_payment_id,
	p.gateway_fee_cents, p.captured_at, p.failure_reason, p.created_at,
	r.reference, r.amount_cents, r.reason, r.status, r.gateway_refund_id, r.processed_at, r.created_at`

func (s *CommandReadStore) PaymentByID(ctx context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	const q = `
		SELECT ` + paymentSnapshotColumns + `
		FROM payments p
		LEFT JOIN payment_refunds r ON r.payment_id = p.id
		WHERE p.id = $1`

	return s.scanPaymentSnapshot(s.db.QueryRow(ctx, q, id), "failed to find payment by ID")
}

func (s *CommandReadStore) PaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*shared.PaymentSnapshot, error) {
	const q = `
		SELECT ` + paymentSnapshotColumns + `
		FROM payments p
		LEFT JOIN payment_refunds r ON r.payment_id = p.id
		WHERE p.gateway_order_id = $1`

	return s.scanPaymentSnapshot(s.db.QueryRow(ctx, q, gatewayOrderID), "failed to find payment by gateway order ID")
}

// PaymentByBookingID returns the booking's most recent payment. The
// partial unique index keeps at most one non-terminal payment per
// booking, and failed attempts always predate it, so newest wins.
func (s *CommandReadStore) PaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*shared.PaymentSnapshot, error) {
	const q = `
		SELECT ` + paymentSnapshotColumns + `
		FROM payments p
		LEFT JOIN payment_refunds r ON r.payment_id = p.id
		WHERE p.booking_id = $1
		ORDER BY p.created_at DESC
		LIMIT 1`

	return s.scanPaymentSnapshot(s.db.QueryRow(ctx, q, bookingID), "failed to find payment by booking ID")
}

func (s *CommandReadStore) scanPaymentSnapshot(row pgx.Row, failMsg string) (*shared.PaymentSnapshot, error) {
	var (
		snap             shared.PaymentSnapshot
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
		refCreatedAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&snap.ID, &snap.Reference, &snap.BookingID, &snap.UserID, &snap.AmountCents,
		&snap.Currency, &snap.Method, &snap.Status, &snap.GatewayOrderID, &gatewayPaymentID,
		&gatewayFeeCents, &capturedAt, &failureReason, &snap.CreatedAt,
		&refReference, &refAmountCents, &refReason, &refStatus, &refGatewayID, &refProcessedAt, &refCreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(failMsg, err)
	}

	snap.GatewayPaymentID = pgconv.StringPtrFromPgtype(gatewayPaymentID)
	snap.GatewayFeeCents = pgconv.Int64PtrFromPgtype(gatewayFeeCents)
	snap.CapturedAt = pgconv.TimePtrFromPgtype(capturedAt)
	snap.FailureReason = pgconv.StringPtrFromPgtype(failureReason)

	if refReference.Valid {
		snap.Refund = &shared.RefundSnapshot{
			Reference:       refReference.String,
			AmountCents:     refAmountCents.Int64,
			Reason:          refReason.String,
			Status:          refStatus.String,
			GatewayRefundID: pgconv.StringPtrFromPgtype(refGatewayID),
			ProcessedAt:     pgconv.TimePtrFromPgtype(refProcessedAt),
			CreatedAt:       pgconv.TimeFromPgtype(refCreatedAt),
		}
	}

	return &snap, nil
}

func (s *CommandReadStore) OfferByCode(ctx context.Context, branchID uuid.UUID, code string) (*shared.OfferSnapshot, error) {
	const q = `
		SELECT id, branch_id, code, title, type, discount_value, max_discount_cents,
		       min_order_cents, min_party_size, max_party_size, tiers, weekdays,
		       daily_start_min, daily_end_min, start_date, end_date,
		       global_cap, per_user_cap, used_count, revenue_cents, is_active,
		       created_at, updated_at
		FROM offers
		WHERE branch_id = $1 AND code = $2`

	var (
		snap             shared.OfferSnapshot
		maxDiscountCents pgtype.Int8
		minPartySize     pgtype.Int4
		maxPartySize     pgtype.Int4
		weekdays         int16
		dailyStartMin    pgtype.Int4
		dailyEndMin      pgtype.Int4
		startDate        pgtype.Date
		endDate          pgtype.Date
		globalCap        pgtype.Int8
		perUserCap       pgtype.Int8
	)
	err := s.db.QueryRow(ctx, q, branchID, code).Scan(
		&snap.ID, &snap.BranchID, &snap.Code, &snap.Title, &snap.Type, &snap.DiscountValue, &maxDiscountCents,
		&snap.MinOrderCents, &minPartySize, &maxPartySize, &snap.Tiers, &weekdays,
		&dailyStartMin, &dailyEndMin, &startDate, &endDate,
		&globalCap, &perUserCap, &snap.UsedCount, &snap.RevenueCents, &snap.IsActive,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offer by code", err)
	}

	snap.MaxDiscountCents = pgconv.Int64PtrFromPgtype(maxDiscountCents)
	snap.MinPartySize = intPtrFromInt4(minPartySize)
	snap.MaxPartySize = intPtrFromInt4(maxPartySize)
	snap.Weekdays = uint8(weekdays)
	snap.DailyStartMin = intPtrFromInt4(dailyStartMin)
	snap.DailyEndMin = intPtrFromInt4(dailyEndMin)
	snap.StartDate = pgconv.DateFromPgtype(startDate)
	snap.EndDate = pgconv.DateFromPgtype(endDate)
	snap.GlobalCap = pgconv.Int64PtrFromPgtype(globalCap)
	snap.PerUserCap = pgconv.Int64PtrFromPgtype(perUserCap)

	return &snap, nil
}

func (s *CommandReadStore) OfferUserUses(ctx context.Context, offerID, userID uuid.UUID) (int64, error) {
	const q = `
		SELECT COALESCE(use_count, 0)
		FROM offer_usages
		WHERE offer_id = $1 AND user_id = $2`

	var uses int64
	err := s.db.QueryRow(ctx, q, offerID, userID).Scan(&uses)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, nil
		}
		return 0, infra.WrapRepoErr("failed to count offer uses", err)
	}

	return uses, nil
}

func (s *CommandReadStore) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	const q = `
		SELECT id, email, role, tier, loyalty_points, is_active
		FROM users
		WHERE id = $1`

	var snap shared.UserSnapshot
	err := s.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Email, &snap.Role, &snap.Tier, &snap.LoyaltyPoints, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return &snap, nil
}

func (s *CommandReadStore) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	const q = `
		SELECT key, user_id, status, request_hash, result_booking_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`

	var (
		record   shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := s.db.QueryRow(ctx, q, key, userID).Scan(
		&record.Key, &record.UserID, &record.Status, &record.RequestHash, &resultID, &record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}

	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultID)

	return &record, nil
}

func (s *CommandReadStore) HeldSlots(ctx context.Context, tableID uuid.UUID, date time.Time, excludeBookingID *uuid.UUID) ([]shared.HeldSlot, error) {
	return heldSlots(ctx, s.db, tableID, date, excludeBookingID)
}

// heldSlots is shared with the availability readstore: one definition
// of "still blocking the table" for both sides.
func heldSlots(ctx context.Context, dbtx db.DBTX, tableID uuid.UUID, date time.Time, excludeBookingID *uuid.UUID) ([]shared.HeldSlot, error) {
	const q = `
		SELECT id, start_min, end_min
		FROM bookings
		WHERE table_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND ($3::uuid IS NULL OR id <> $3)`

	rows, err := dbtx.Query(ctx, q, tableID, pgconv.DateToPgtype(date), pgconv.UUIDPtrToPgtype(excludeBookingID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load held slots", err)
	}
	defer rows.Close()

	var held []shared.HeldSlot
	for rows.Next() {
		var h shared.HeldSlot
		if err := rows.Scan(&h.BookingID, &h.StartMin, &h.EndMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan held slot", err)
		}
		held = append(held, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read held slots", err)
	}

	return held, nil
}

func intPtrFromInt4(pi pgtype.Int4) *int {
	if !pi.Valid {
		return nil
	}
	v := int(pi.Int32)
	return &v
}
