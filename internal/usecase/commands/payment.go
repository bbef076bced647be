package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/payment"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/pkg/signature"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFoundWrite = errs.New("payment not found")
	ErrPaymentExists        = errs.New("booking already has an active payment")
	ErrPaymentInProgress    = errs.New("another payment for this booking is in progress")
	ErrBookingNotPayable    = errs.New("booking is not payable")
	ErrPaymentStateConflict = errs.New("payment state does not allow this operation")
	// ErrInvalidSignature is deliberately generic: callers never learn
	// which part of the signature check mismatched.
	ErrInvalidSignature   = errs.New("invalid signature")
	ErrPaymentNotCaptured = errs.New("payment not captured at gateway")
	ErrPaymentIntegrity   = errs.New("gateway payment does not match local record")
)

const (
	paymentLeaseTTL = 5 * time.Second

	webhookEventCaptured      = "payment.captured"
	webhookEventFailed        = "payment.failed"
	webhookEventRefundCreated = "refund.created"

	eventPaymentCaptured = "payment.captured"
	eventPaymentRefunded = "payment.refunded"
)

type CreateOrderRequest struct {
	BookingID   uuid.UUID
	AmountCents *int64
	Method      string
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type RefundPaymentRequest struct {
	AmountCents *int64
	Reason      string
}

type PaymentCommands interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest, actorID uuid.UUID, actorRole string) (*queries.PaymentView, error)
	Verify(ctx context.Context, req VerifyPaymentRequest) (*queries.PaymentView, error)
	ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error
	Refund(ctx context.Context, paymentID uuid.UUID, req RefundPaymentRequest) (*queries.PaymentView, error)
}

type paymentUseCaseImpl struct {
	uow            shared.UnitOfWork
	factory        *payment.Factory
	gateway        PaymentGateway
	locker         SlotLocker
	publisher      EventPublisher
	paymentQueries queries.PaymentQueries
	clock          clock.Clock
	currency       string
	verifySecret   string
	webhookSecret  string
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	factory *payment.Factory,
	gw PaymentGateway,
	locker SlotLocker,
	publisher EventPublisher,
	paymentQueries queries.PaymentQueries,
	clk clock.Clock,
	currency string,
	verifySecret string,
	webhookSecret string,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:            uow,
		factory:        factory,
		gateway:        gw,
		locker:         locker,
		publisher:      publisher,
		paymentQueries: paymentQueries,
		clock:          clk,
		currency:       currency,
		verifySecret:   verifySecret,
		webhookSecret:  webhookSecret,
	}
}

func (uc *paymentUseCaseImpl) CreateOrder(
	ctx context.Context,
	req CreateOrderRequest,
	actorID uuid.UUID,
	actorRole string,
) (*queries.PaymentView, error) {
	method, err := payment.NewMethod(req.Method)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// One remote order per booking: the lease covers the gateway-call
	// window, the partial unique index on payments(booking_id) is the
	// in-database authority.
	release, acquired, lockErr := uc.locker.TryAcquire(ctx, paymentLeaseKey(req.BookingID), paymentLeaseTTL)
	switch {
	case lockErr != nil:
		slog.Warn("payment lease unavailable, relying on unique index", "error", lockErr)
	case !acquired:
		return nil, ErrPaymentInProgress
	default:
		defer release()
	}

	bookingSnap, err := uc.uow.CommandReads().BookingByID(ctx, req.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if actorRole != user.RoleAdmin.String() && bookingSnap.UserID != actorID {
		return nil, ErrBookingNotOwned
	}
	if bookingSnap.Status != string(booking.StatusPending) {
		return nil, ErrBookingNotPayable
	}
	if err := uc.ensureNoActivePayment(ctx, req.BookingID); err != nil {
		return nil, err
	}

	amount := bookingSnap.TotalCents
	if req.AmountCents != nil {
		amount = *req.AmountCents
	}
	if amount <= 0 {
		return nil, errs.Mark(payment.ErrInvalidAmount, ErrDomainValidation)
	}

	// Remote first: a gateway failure must leave no local record behind.
	order, err := uc.gateway.CreateOrder(ctx, amount, uc.currency, bookingSnap.Reference)
	if err != nil {
		return nil, errs.Wrap(err, "gateway order creation failed")
	}

	paymentEntity, err := uc.factory.CreatePayment(req.BookingID, bookingSnap.UserID, amount, uc.currency, method, order.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().BookingByID(ctx, req.BookingID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if snap.Status != string(booking.StatusPending) {
			return ErrBookingNotPayable
		}

		id, derr := tx.Payments().Create(ctx, tx.DB(), paymentEntity)
		if derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrPaymentExists
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = id

		rows, derr := tx.Bookings().LinkPayment(ctx, tx.DB(), req.BookingID, id)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrPaymentExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.systemPaymentView(ctx, createdID)
}

func (uc *paymentUseCaseImpl) Verify(ctx context.Context, req VerifyPaymentRequest) (*queries.PaymentView, error) {
	payload := req.GatewayOrderID + "|" + req.GatewayPaymentID
	if !signature.Verify(uc.verifySecret, []byte(payload), req.Signature) {
		return nil, ErrInvalidSignature
	}

	paymentSnap, err := uc.uow.CommandReads().PaymentByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Replays of an already settled payment return it unchanged.
	if paymentSnap.Status == string(payment.StatusCompleted) {
		return uc.systemPaymentView(ctx, paymentSnap.ID)
	}

	// The signature authorizes the claim; amounts come from the gateway.
	remote, err := uc.gateway.FetchPayment(ctx, req.GatewayPaymentID)
	if err != nil {
		return nil, errs.Wrap(err, "gateway payment fetch failed")
	}
	if remote.Status != GatewayPaymentCaptured {
		return nil, ErrPaymentNotCaptured
	}
	if remote.OrderID != paymentSnap.GatewayOrderID ||
		remote.AmountCents != paymentSnap.AmountCents ||
		remote.Currency != paymentSnap.Currency {
		return nil, ErrPaymentIntegrity
	}

	capturedAt := uc.clock.Now()
	if remote.CapturedAt != nil {
		capturedAt = *remote.CapturedAt
	}
	if err := uc.completePayment(ctx, paymentSnap, req.GatewayPaymentID, req.Signature, remote.FeeCents, capturedAt); err != nil {
		return nil, err
	}
	return uc.systemPaymentView(ctx, paymentSnap.ID)
}

// webhookEnvelope is the provider's server-to-server notification shape.
type webhookEnvelope struct {
	Event   string         `json:"event"`
	Payment webhookPayment `json:"payment"`
}

type webhookPayment struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	FeeCents    *int64     `json:"fee_cents,omitempty"`
	ErrorReason *string    `json:"error_reason,omitempty"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
}

func (uc *paymentUseCaseImpl) ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error {
	if !signature.Verify(uc.webhookSecret, rawBody, signatureHeader) {
		return ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	switch envelope.Event {
	case webhookEventCaptured:
		return uc.handleWebhookCaptured(ctx, envelope.Payment)

	case webhookEventFailed:
		return uc.handleWebhookFailed(ctx, envelope.Payment)

	case webhookEventRefundCreated:
		slog.Info("gateway refund notification received",
			"gateway_payment_id", envelope.Payment.ID, "order_id", envelope.Payment.OrderID)
		return nil

	default:
		// Unknown events are accepted so the provider can add types
		// without breaking deliveries.
		slog.Debug("ignoring unknown webhook event", "event", envelope.Event)
		return nil
	}
}

func (uc *paymentUseCaseImpl) handleWebhookCaptured(ctx context.Context, hook webhookPayment) error {
	paymentSnap, err := uc.uow.CommandReads().PaymentByGatewayOrderID(ctx, hook.OrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrPaymentNotFoundWrite
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if paymentSnap.Status == string(payment.StatusCompleted) {
		return nil
	}
	if hook.AmountCents != paymentSnap.AmountCents || hook.Currency != paymentSnap.Currency {
		return ErrPaymentIntegrity
	}

	capturedAt := uc.clock.Now()
	if hook.CapturedAt != nil {
		capturedAt = *hook.CapturedAt
	}
	return uc.completePayment(ctx, paymentSnap, hook.ID, "", hook.FeeCents, capturedAt)
}

func (uc *paymentUseCaseImpl) handleWebhookFailed(ctx context.Context, hook webhookPayment) error {
	paymentSnap, err := uc.uow.CommandReads().PaymentByGatewayOrderID(ctx, hook.OrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrPaymentNotFoundWrite
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	reason := "payment failed at gateway"
	if hook.ErrorReason != nil {
		reason = *hook.ErrorReason
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, derr := tx.Payments().MarkFailed(ctx, tx.DB(), paymentSnap.ID, reason)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		// Zero rows means a verify or an earlier webhook settled the
		// payment first; failure notifications lose that race silently.
		if rows == 0 {
			slog.Info("ignoring failed webhook for settled payment", "payment_id", paymentSnap.ID)
		}
		return nil
	})
}

// completePayment is the single terminal-convergence path shared by the
// verify callback and the captured webhook. Exactly one caller wins the
// compare-and-swap; everyone else observes a completed payment and does
// nothing, so loyalty points are credited once.
func (uc *paymentUseCaseImpl) completePayment(
	ctx context.Context,
	paymentSnap *shared.PaymentSnapshot,
	gatewayPaymentID string,
	verifySignature string,
	feeCents *int64,
	capturedAt time.Time,
) error {
	var confirmedBooking *shared.BookingSnapshot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, derr := tx.Payments().MarkCompleted(ctx, tx.DB(), paymentSnap.ID, gatewayPaymentID, verifySignature, feeCents, capturedAt)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			current, rerr := tx.Reads().PaymentByID(ctx, paymentSnap.ID)
			if rerr != nil {
				return errs.Mark(rerr, ErrDatabaseOperationFailed)
			}
			if current.Status == string(payment.StatusCompleted) {
				return nil
			}
			return ErrPaymentStateConflict
		}

		bookingSnap, derr := tx.Reads().BookingByID(ctx, paymentSnap.BookingID)
		if derr != nil {
			return errs.Mark(derr, ErrIntegrityViolation)
		}
		moved, derr := tx.Bookings().UpdateStatus(ctx, tx.DB(), paymentSnap.BookingID, []booking.Status{booking.StatusPending}, booking.StatusConfirmed)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if moved > 0 {
			confirmedBooking = bookingSnap
		} else if bookingSnap.Status != string(booking.StatusConfirmed) {
			// Money arrived for a booking that left pending, usually a
			// cancellation racing the capture; the refund flow resolves it.
			slog.Warn("payment captured for non-pending booking",
				"payment_id", paymentSnap.ID, "booking_id", bookingSnap.ID, "booking_status", bookingSnap.Status)
		}

		return tx.Users().AddLoyaltyPoints(ctx, tx.DB(), paymentSnap.UserID, payment.LoyaltyPointsFor(paymentSnap.AmountCents))
	})
	if err != nil {
		return err
	}

	uc.publishPaymentEvent(ctx, eventPaymentCaptured, paymentEventPayload{
		PaymentID:   paymentSnap.ID,
		Reference:   paymentSnap.Reference,
		BookingID:   paymentSnap.BookingID,
		UserID:      paymentSnap.UserID,
		AmountCents: paymentSnap.AmountCents,
		Currency:    paymentSnap.Currency,
		Status:      string(payment.StatusCompleted),
		OccurredAt:  capturedAt,
	})
	if confirmedBooking != nil {
		uc.publishBookingConfirmed(ctx, confirmedBooking, capturedAt)
	}
	return nil
}

func (uc *paymentUseCaseImpl) Refund(ctx context.Context, paymentID uuid.UUID, req RefundPaymentRequest) (*queries.PaymentView, error) {
	now := uc.clock.Now()

	paymentSnap, err := uc.uow.CommandReads().PaymentByID(ctx, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFoundWrite
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	paymentEntity, err := rebuildPayment(paymentSnap)
	if err != nil {
		return nil, errs.Mark(err, ErrIntegrityViolation)
	}

	requested := int64(0)
	if req.AmountCents != nil {
		requested = *req.AmountCents
	}
	refundEntity, err := uc.factory.CreateRefund(paymentEntity, requested, req.Reason)
	if err != nil {
		if errors.Is(err, payment.ErrNotRefundable) {
			return nil, errs.Mark(err, ErrPaymentStateConflict)
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if paymentSnap.GatewayPaymentID == nil {
		return nil, errs.Mark(errs.New("completed payment missing gateway payment id"), ErrIntegrityViolation)
	}

	// Remote first: a rejected refund leaves local state untouched.
	remote, err := uc.gateway.CreateRefund(ctx, *paymentSnap.GatewayPaymentID, refundEntity.AmountCents, map[string]string{
		"reference": refundEntity.Reference,
		"reason":    req.Reason,
	})
	if err != nil {
		return nil, errs.Wrap(err, "gateway refund failed")
	}

	refundEntity.Status = payment.RefundProcessed
	refundEntity.GatewayRefundID = &remote.ID
	refundEntity.ProcessedAt = &now

	fullRefund := refundEntity.AmountCents == paymentSnap.AmountCents
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, derr := tx.Payments().MarkRefunded(ctx, tx.DB(), paymentID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrPaymentStateConflict
		}
		if derr := tx.Payments().InsertRefund(ctx, tx.DB(), paymentID, refundEntity); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if fullRefund {
			cancellation := booking.Cancellation{
				Actor:        booking.ActorSystem,
				Reason:       "payment refunded",
				At:           now,
				RefundAmount: booking.NewMoney(refundEntity.AmountCents),
			}
			// Zero rows is fine here: cancelling a booking is what
			// usually triggered this refund in the first place.
			if _, derr := tx.Bookings().SetCancelled(ctx, tx.DB(), paymentSnap.BookingID, cancellation, []booking.Status{booking.StatusPending, booking.StatusConfirmed}); derr != nil {
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishPaymentEvent(ctx, eventPaymentRefunded, paymentEventPayload{
		PaymentID:   paymentSnap.ID,
		Reference:   paymentSnap.Reference,
		BookingID:   paymentSnap.BookingID,
		UserID:      paymentSnap.UserID,
		AmountCents: refundEntity.AmountCents,
		Currency:    paymentSnap.Currency,
		Status:      string(payment.StatusRefunded),
		OccurredAt:  now,
	})
	return uc.systemPaymentView(ctx, paymentID)
}

func (uc *paymentUseCaseImpl) ensureNoActivePayment(ctx context.Context, bookingID uuid.UUID) error {
	existing, err := uc.uow.CommandReads().PaymentByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if payment.Status(existing.Status).IsActive() {
		return ErrPaymentExists
	}
	return nil
}

func (uc *paymentUseCaseImpl) systemPaymentView(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	view, err := uc.paymentQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func rebuildPayment(snap *shared.PaymentSnapshot) (*payment.Payment, error) {
	method, err := payment.NewMethod(snap.Method)
	if err != nil {
		return nil, err
	}
	status := payment.Status(snap.Status)
	if !status.IsValid() {
		return nil, errs.New("invalid payment status " + snap.Status)
	}
	var refund *payment.Refund
	if snap.Refund != nil {
		refund = &payment.Refund{
			Reference:       snap.Refund.Reference,
			AmountCents:     snap.Refund.AmountCents,
			Reason:          snap.Refund.Reason,
			Status:          payment.RefundStatus(snap.Refund.Status),
			GatewayRefundID: snap.Refund.GatewayRefundID,
			ProcessedAt:     snap.Refund.ProcessedAt,
			CreatedAt:       snap.Refund.CreatedAt,
		}
	}
	return payment.ReconstructPayment(
		snap.ID,
		snap.Reference,
		snap.BookingID,
		snap.UserID,
		snap.AmountCents,
		snap.Currency,
		method,
		status,
		snap.GatewayOrderID,
		snap.GatewayPaymentID,
		nil,
		snap.GatewayFeeCents,
		snap.CapturedAt,
		snap.FailureReason,
		refund,
		snap.CreatedAt,
		snap.CreatedAt,
	), nil
}

func paymentLeaseKey(bookingID uuid.UUID) string {
	return fmt.Sprintf("payment:booking:%s", bookingID)
}

type paymentEventPayload struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	Reference   string    `json:"reference"`
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (uc *paymentUseCaseImpl) publishPaymentEvent(ctx context.Context, routingKey string, payload paymentEventPayload) {
	if err := uc.publisher.Publish(ctx, routingKey, payload); err != nil {
		slog.Warn("failed to publish payment event", "routing_key", routingKey, "error", err)
	}
}

func (uc *paymentUseCaseImpl) publishBookingConfirmed(ctx context.Context, snap *shared.BookingSnapshot, at time.Time) {
	routingKey := fmt.Sprintf("%s.%s", eventBookingConfirmed, snap.BranchID)
	if err := uc.publisher.Publish(ctx, routingKey, payloadFromSnapshot(snap, string(booking.StatusConfirmed), at)); err != nil {
		slog.Warn("failed to publish booking event", "routing_key", routingKey, "error", err)
	}
}
