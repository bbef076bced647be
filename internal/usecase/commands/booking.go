package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/branch"
	"tablebook/internal/domain/offer"
	"tablebook/internal/domain/payment"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBranchNotFound          = errs.New("branch not found")
	ErrTableNotFound           = errs.New("table not found")
	ErrBookingNotFoundWrite    = errs.New("booking not found")
	ErrOfferNotFound           = errs.New("offer not found")
	ErrOfferNotApplicable      = errs.New("offer not applicable")
	ErrSlotNotAvailable        = errs.New("slot not available")
	ErrBookingInProgress       = errs.New("another booking for this table is in progress")
	ErrBookingNotOwned         = errs.New("booking not owned by user")
	ErrBookingStateConflict    = errs.New("booking state does not allow this operation")
	ErrAlreadyCheckedIn        = errs.New("booking already checked in")
	ErrOutsideCheckInWindow    = errs.New("outside check-in window")
	ErrSlotNotElapsed          = errs.New("slot has not ended yet")
	ErrAlreadyRated            = errs.New("booking already rated")
	ErrDuplicateRequest        = errs.New("duplicate request with different payload")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrIntegrityViolation      = errs.New("data integrity violation")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	bookingEndpoint   = "POST /api/bookings"
	idempotencyKeyTTL = 24 * time.Hour
	slotLeaseTTL      = 5 * time.Second

	eventBookingCreated   = "booking.created"
	eventBookingConfirmed = "booking.confirmed"
	eventBookingCancelled = "booking.cancelled"
)

type CreateBookingRequest struct {
	BranchID        uuid.UUID
	TableID         uuid.UUID
	Date            time.Time
	StartMin        int
	EndMin          int
	PartySize       int
	Items           []PreOrderItemInput
	OfferCode       *string
	SpecialRequests *string
}

type PreOrderItemInput struct {
	Name           string
	UnitPriceCents int64
	Quantity       int
}

type RateBookingRequest struct {
	Food     int
	Service  int
	Ambiance int
	Overall  int
	Review   string
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type CancelBookingResult struct {
	RefundAmountCents int64
	RefundTriggered   bool
}

type BookingCommands interface {
	Create(ctx context.Context, req CreateBookingRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole string, reason string) (*CancelBookingResult, error)
	Confirm(ctx context.Context, bookingID uuid.UUID) error
	CheckIn(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole string) error
	Complete(ctx context.Context, bookingID uuid.UUID) error
	Rate(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, req RateBookingRequest) error
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	factory        *booking.Factory
	payments       PaymentCommands
	locker         SlotLocker
	publisher      EventPublisher
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	payments PaymentCommands,
	locker SlotLocker,
	publisher EventPublisher,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		factory:        factory,
		payments:       payments,
		locker:         locker,
		publisher:      publisher,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

func (uc *bookingUseCaseImpl) Create(
	ctx context.Context,
	req CreateBookingRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	slot, err := buildSlot(req.Date, req.StartMin, req.EndMin)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// Serialize concurrent creates on the same table and date before the
	// transaction opens. Lease loss is a conflict; lease infrastructure
	// failure degrades to the in-transaction check.
	release, acquired, lockErr := uc.locker.TryAcquire(ctx, slotLeaseKey(req.TableID, slot.Date()), slotLeaseTTL)
	switch {
	case lockErr != nil:
		slog.Warn("slot lease unavailable, relying on exclusion constraint", "error", lockErr)
	case !acquired:
		return nil, ErrBookingInProgress
	default:
		defer release()
	}

	requestHash := calculateRequestHash(req)
	now := uc.clock.Now()

	var createdID uuid.UUID
	var replayedID *uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		replayed, derr := uc.claimIdempotencyKey(ctx, tx, idempotencyKey, userID, requestHash, now)
		if derr != nil {
			return derr
		}
		if replayed != nil {
			replayedID = replayed
			return nil
		}

		branchEntity, tableEntity, derr := uc.loadBranchAndTable(ctx, tx, req.BranchID, req.TableID)
		if derr != nil {
			return derr
		}

		items := make([]booking.PreOrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, booking.PreOrderItem{
				Name:           it.Name,
				UnitPriceCents: it.UnitPriceCents,
				Quantity:       it.Quantity,
			})
		}

		discount := booking.NewMoney(0)
		var offerID *uuid.UUID
		orderCents := booking.ItemsTotal(items, tableEntity.PriceMultiplier()).Cents()
		if req.OfferCode != nil {
			applied, derr := uc.evaluateOffer(ctx, tx, branchEntity, *req.OfferCode, userID, orderCents, req.PartySize, now)
			if derr != nil {
				return derr
			}
			discount = booking.NewMoney(applied.discountCents)
			offerID = &applied.offerID
		}

		specialRequests := booking.NewSpecialRequests("")
		if req.SpecialRequests != nil {
			specialRequests = booking.NewSpecialRequests(*req.SpecialRequests)
		}

		bookingEntity, derr := uc.factory.CreateBooking(
			branchEntity,
			tableEntity,
			userID,
			slot,
			req.PartySize,
			items,
			discount,
			offerID,
			specialRequests,
		)
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}

		// Re-check occupancy on the transaction connection; the exclusion
		// constraint backstops anything that slips through.
		held, derr := tx.Reads().HeldSlots(ctx, req.TableID, slot.Date(), nil)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if shared.Overlapping(slot.Start().Minutes(), slot.End().Minutes(), held) {
			return ErrSlotNotAvailable
		}

		id, derr := tx.Bookings().Create(ctx, tx.DB(), bookingEntity)
		if derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrSlotNotAvailable
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = id

		if offerID != nil {
			rows, derr := tx.Offers().RecordUse(ctx, tx.DB(), *offerID, userID, orderCents, now)
			if derr != nil {
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
			if rows == 0 {
				return errs.Mark(offer.ErrUsageCapReached, ErrOfferNotApplicable)
			}
		}

		if derr := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, calculateIDHash(id), id); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayedID != nil {
		view, verr := uc.bookingQueries.GetByIDSystem(ctx, *replayedID)
		if verr != nil {
			return nil, errs.Mark(verr, ErrDatabaseOperationFailed)
		}
		return &CreateBookingResult{Booking: view, IsReplayed: true}, nil
	}

	view, err := uc.bookingQueries.GetByIDSystem(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	uc.publishBookingEvent(ctx, eventBookingCreated, view.BranchID, bookingEventPayload{
		BookingID:  view.ID,
		Reference:  view.Reference,
		BranchID:   view.BranchID,
		TableID:    view.TableID,
		UserID:     view.UserID,
		Status:     view.Status,
		Date:       view.Date,
		Start:      view.Start,
		End:        view.End,
		OccurredAt: now,
	})
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// claimIdempotencyKey owns, replays or rejects the request key inside the
// create transaction. A non-nil UUID means a completed request with the
// same payload already exists and its booking should be returned as-is.
func (uc *bookingUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	requestHash string,
	now time.Time,
) (*uuid.UUID, error) {
	expiresAt := now.Add(idempotencyKeyTTL)

	inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, userID, bookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted > 0 {
		return nil, nil
	}

	record, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch record.Status {
	case "completed":
		if record.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		if record.ResultBookingID == nil {
			return nil, errs.Mark(errs.New("completed idempotency key missing result"), ErrIdempotencyCheckFailed)
		}
		return record.ResultBookingID, nil

	case "processing":
		if now.After(record.ExpiresAt) {
			claimed, cerr := tx.Idempotency().ClaimExpired(ctx, tx.DB(), key, userID, requestHash, expiresAt)
			if cerr != nil {
				return nil, errs.Mark(cerr, ErrIdempotencyCheckFailed)
			}
			if claimed > 0 {
				return nil, nil
			}
		}
		if record.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), ErrIdempotencyCheckFailed)
	}
}

type appliedOffer struct {
	offerID       uuid.UUID
	discountCents int64
}

func (uc *bookingUseCaseImpl) evaluateOffer(
	ctx context.Context,
	tx shared.Tx,
	branchEntity *branch.Branch,
	code string,
	userID uuid.UUID,
	orderCents int64,
	partySize int,
	now time.Time,
) (*appliedOffer, error) {
	offerSnap, err := tx.Reads().OfferByCode(ctx, branchEntity.ID(), code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	userSnap, err := tx.Reads().UserByID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIntegrityViolation)
	}
	uses, err := tx.Reads().OfferUserUses(ctx, offerSnap.ID, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	offerEntity, err := rebuildOffer(offerSnap)
	if err != nil {
		return nil, errs.Mark(err, ErrIntegrityViolation)
	}

	// Offer windows are checked against branch-local wall time.
	input := offer.ApplicabilityInput{
		Tier:       user.MembershipTier(userSnap.Tier),
		OrderCents: orderCents,
		PartySize:  partySize,
		Now:        now.In(branchEntity.Timezone()),
		UserUses:   uses,
	}
	if err := offerEntity.IsApplicable(input); err != nil {
		return nil, errs.Mark(err, ErrOfferNotApplicable)
	}

	return &appliedOffer{
		offerID:       offerSnap.ID,
		discountCents: offerEntity.ComputeDiscount(orderCents),
	}, nil
}

func (uc *bookingUseCaseImpl) Cancel(
	ctx context.Context,
	bookingID uuid.UUID,
	actorID uuid.UUID,
	actorRole string,
	reason string,
) (*CancelBookingResult, error) {
	now := uc.clock.Now()

	var refundPaymentID *uuid.UUID
	var refundAmount int64
	var cancelled *shared.BookingSnapshot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if actorRole != user.RoleAdmin.String() && snap.UserID != actorID {
			return ErrBookingNotOwned
		}
		if !booking.Status(snap.Status).IsCancellable() {
			return ErrBookingStateConflict
		}

		branchSnap, derr := tx.Reads().BranchByID(ctx, snap.BranchID)
		if derr != nil {
			return errs.Mark(derr, ErrIntegrityViolation)
		}
		branchEntity, derr := rebuildBranch(branchSnap)
		if derr != nil {
			return errs.Mark(derr, ErrIntegrityViolation)
		}

		if snap.PaymentID != nil {
			paySnap, perr := tx.Reads().PaymentByID(ctx, *snap.PaymentID)
			if perr != nil {
				return errs.Mark(perr, ErrIntegrityViolation)
			}
			if paySnap.Status == string(payment.StatusCompleted) {
				slot, serr := buildSlot(snap.Date, snap.StartMin, snap.EndMin)
				if serr != nil {
					return errs.Mark(serr, ErrIntegrityViolation)
				}
				startAt := slot.StartAt(branchEntity.Timezone())
				policy := branch.CancellationPolicy{
					FreeCancelHours: branchSnap.FreeCancelHours,
					CancelFeeCents:  branchSnap.CancelFeeCents,
				}
				refundAmount = booking.RefundAmount(booking.NewMoney(snap.TotalCents), policy, startAt.Sub(now)).Cents()
				if refundAmount > 0 {
					refundPaymentID = snap.PaymentID
				}
			}
		}

		cancellation := booking.Cancellation{
			Actor:        cancelActorFromRole(actorRole),
			Reason:       reason,
			At:           now,
			RefundAmount: booking.NewMoney(refundAmount),
		}
		rows, derr := tx.Bookings().SetCancelled(ctx, tx.DB(), bookingID, cancellation, []booking.Status{booking.StatusPending, booking.StatusConfirmed})
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrBookingStateConflict
		}
		cancelled = snap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishBookingEvent(ctx, eventBookingCancelled, cancelled.BranchID, payloadFromSnapshot(cancelled, string(booking.StatusCancelled), now))

	result := &CancelBookingResult{RefundAmountCents: refundAmount}
	if refundPaymentID != nil {
		// The booking stays cancelled even when the refund call fails;
		// operators re-drive the refund through the payment endpoint.
		if _, rerr := uc.payments.Refund(ctx, *refundPaymentID, RefundPaymentRequest{
			AmountCents: &refundAmount,
			Reason:      "booking cancelled",
		}); rerr != nil {
			slog.Warn("refund for cancelled booking failed",
				"booking_id", bookingID, "payment_id", *refundPaymentID, "error", rerr)
		} else {
			result.RefundTriggered = true
		}
	}
	return result, nil
}

func (uc *bookingUseCaseImpl) Confirm(ctx context.Context, bookingID uuid.UUID) error {
	now := uc.clock.Now()

	var confirmed *shared.BookingSnapshot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if snap.Status != string(booking.StatusPending) {
			return ErrBookingStateConflict
		}
		rows, derr := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, []booking.Status{booking.StatusPending}, booking.StatusConfirmed)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrBookingStateConflict
		}
		confirmed = snap
		return nil
	})
	if err != nil {
		return err
	}

	uc.publishBookingEvent(ctx, eventBookingConfirmed, confirmed.BranchID, payloadFromSnapshot(confirmed, string(booking.StatusConfirmed), now))
	return nil
}

func (uc *bookingUseCaseImpl) CheckIn(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if actorRole != user.RoleAdmin.String() && snap.UserID != actorID {
			return ErrBookingNotOwned
		}
		if snap.Status != string(booking.StatusConfirmed) {
			return ErrBookingStateConflict
		}
		if snap.CheckedInAt != nil {
			return ErrAlreadyCheckedIn
		}

		branchEntity, derr := loadBranchEntity(ctx, tx, snap.BranchID)
		if derr != nil {
			return derr
		}
		slot, serr := buildSlot(snap.Date, snap.StartMin, snap.EndMin)
		if serr != nil {
			return errs.Mark(serr, ErrIntegrityViolation)
		}
		if !booking.WithinCheckInWindow(now, slot.StartAt(branchEntity.Timezone())) {
			return ErrOutsideCheckInWindow
		}

		rows, derr := tx.Bookings().SetCheckedIn(ctx, tx.DB(), bookingID, now)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrAlreadyCheckedIn
		}
		return nil
	})
}

func (uc *bookingUseCaseImpl) Complete(ctx context.Context, bookingID uuid.UUID) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if snap.Status != string(booking.StatusConfirmed) {
			return ErrBookingStateConflict
		}

		branchEntity, derr := loadBranchEntity(ctx, tx, snap.BranchID)
		if derr != nil {
			return derr
		}
		slot, serr := buildSlot(snap.Date, snap.StartMin, snap.EndMin)
		if serr != nil {
			return errs.Mark(serr, ErrIntegrityViolation)
		}
		if now.Before(slot.EndAt(branchEntity.Timezone())) {
			return ErrSlotNotElapsed
		}

		rows, derr := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, []booking.Status{booking.StatusConfirmed}, booking.StatusCompleted)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrBookingStateConflict
		}
		return nil
	})
}

func (uc *bookingUseCaseImpl) Rate(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, req RateBookingRequest) error {
	rating, err := booking.NewRating(req.Food, req.Service, req.Ambiance, req.Overall, req.Review)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if snap.UserID != actorID {
			return ErrBookingNotOwned
		}
		if snap.Status != string(booking.StatusCompleted) {
			return ErrBookingStateConflict
		}
		if snap.HasRating {
			return ErrAlreadyRated
		}

		rows, derr := tx.Bookings().SetRating(ctx, tx.DB(), bookingID, rating)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrAlreadyRated
		}
		return tx.RatingStats().RecalcBranchRatingStats(ctx, tx.DB(), snap.BranchID)
	})
}

func (uc *bookingUseCaseImpl) loadBranchAndTable(
	ctx context.Context,
	tx shared.Tx,
	branchID, tableID uuid.UUID,
) (*branch.Branch, *branch.Table, error) {
	branchSnap, err := tx.Reads().BranchByID(ctx, branchID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrBranchNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !branchSnap.IsActive {
		return nil, nil, ErrBranchNotFound
	}
	tableSnap, err := tx.Reads().TableByID(ctx, tableID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrTableNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	branchEntity, err := rebuildBranch(branchSnap)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrIntegrityViolation)
	}
	tableEntity, err := rebuildTable(tableSnap)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrIntegrityViolation)
	}
	return branchEntity, tableEntity, nil
}

func loadBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, err := tx.Reads().BookingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snap, nil
}

func loadBranchEntity(ctx context.Context, tx shared.Tx, branchID uuid.UUID) (*branch.Branch, error) {
	branchSnap, err := tx.Reads().BranchByID(ctx, branchID)
	if err != nil {
		return nil, errs.Mark(err, ErrIntegrityViolation)
	}
	branchEntity, err := rebuildBranch(branchSnap)
	if err != nil {
		return nil, errs.Mark(err, ErrIntegrityViolation)
	}
	return branchEntity, nil
}

func rebuildBranch(snap *shared.BranchSnapshot) (*branch.Branch, error) {
	return branch.ReconstructBranch(
		snap.ID,
		snap.Name,
		snap.Timezone,
		snap.Schedule,
		branch.CancellationPolicy{FreeCancelHours: snap.FreeCancelHours, CancelFeeCents: snap.CancelFeeCents},
		branch.BookingRules{MinAdvanceMin: snap.MinAdvanceMin, MaxAdvanceDays: snap.MaxAdvanceDays},
		snap.MaxPartySize,
		snap.IsActive,
		snap.CreatedAt,
		snap.UpdatedAt,
	)
}

func rebuildTable(snap *shared.TableSnapshot) (*branch.Table, error) {
	theme, err := branch.NewTheme(snap.Theme)
	if err != nil {
		return nil, err
	}
	return branch.ReconstructTable(
		snap.ID,
		snap.BranchID,
		snap.Number,
		snap.Seats,
		theme,
		snap.PriceMultiplier,
		snap.IsActive,
		snap.IsAvailable,
		snap.MinAdvanceMin,
		snap.MaxAdvanceDays,
		snap.CreatedAt,
		snap.UpdatedAt,
	), nil
}

func rebuildOffer(snap *shared.OfferSnapshot) (*offer.Offer, error) {
	offerType, err := offer.NewOfferType(snap.Type)
	if err != nil {
		return nil, err
	}
	tiers := make([]user.MembershipTier, 0, len(snap.Tiers))
	for _, t := range snap.Tiers {
		tier, terr := user.NewMembershipTier(t)
		if terr != nil {
			return nil, terr
		}
		tiers = append(tiers, tier)
	}
	return offer.ReconstructOffer(
		snap.ID,
		snap.BranchID,
		snap.Code,
		snap.Title,
		offerType,
		snap.DiscountValue,
		snap.MaxDiscountCents,
		snap.MinOrderCents,
		snap.MinPartySize,
		snap.MaxPartySize,
		tiers,
		offer.Weekdays(snap.Weekdays),
		snap.DailyStartMin,
		snap.DailyEndMin,
		snap.StartDate,
		snap.EndDate,
		snap.GlobalCap,
		snap.PerUserCap,
		snap.UsedCount,
		snap.RevenueCents,
		snap.IsActive,
		snap.CreatedAt,
		snap.UpdatedAt,
	), nil
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

func cancelActorFromRole(role string) booking.CancelActor {
	if role == user.RoleAdmin.String() {
		return booking.ActorAdmin
	}
	return booking.ActorUser
}

func slotLeaseKey(tableID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("booking:slot:%s:%s", tableID, date.Format("2006-01-02"))
}

type bookingEventPayload struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	BranchID   uuid.UUID `json:"branch_id"`
	TableID    uuid.UUID `json:"table_id"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	Date       string    `json:"date"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

func payloadFromSnapshot(snap *shared.BookingSnapshot, status string, at time.Time) bookingEventPayload {
	payload := bookingEventPayload{
		BookingID:  snap.ID,
		Reference:  snap.Reference,
		BranchID:   snap.BranchID,
		TableID:    snap.TableID,
		UserID:     snap.UserID,
		Status:     status,
		Date:       snap.Date.Format("2006-01-02"),
		OccurredAt: at,
	}
	if start, err := booking.NewTimeOfDay(snap.StartMin); err == nil {
		payload.Start = start.String()
	}
	if end, err := booking.NewTimeOfDay(snap.EndMin); err == nil {
		payload.End = end.String()
	}
	return payload
}

func (uc *bookingUseCaseImpl) publishBookingEvent(ctx context.Context, event string, branchID uuid.UUID, payload bookingEventPayload) {
	routingKey := fmt.Sprintf("%s.%s", event, branchID)
	if err := uc.publisher.Publish(ctx, routingKey, payload); err != nil {
		slog.Warn("failed to publish booking event", "routing_key", routingKey, "error", err)
	}
}

func calculateRequestHash(req CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
