package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrInvalidCurrency     = errors.New("currency must be a 3-letter ISO code")
	ErrEmptyGatewayOrderID = errors.New("gateway order id cannot be empty")
	ErrEmptyReference      = errors.New("payment reference cannot be empty")
	ErrNotRefundable       = errors.New("only completed payments can be refunded")
	ErrRefundExceedsAmount = errors.New("refund exceeds captured amount")
	ErrRefundAmountInvalid = errors.New("refund amount must be positive")
)

// Refund is the single refund sub-record a payment may carry. It is
// created pending and flipped to processed together with the payment's
// move to refunded.
type Refund struct {
	Reference       string
	AmountCents     int64
	Reason          string
	Status          RefundStatus
	GatewayRefundID *string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
}

type Payment struct {
	id               uuid.UUID
	reference        string
	bookingID        uuid.UUID
	userID           uuid.UUID
	amountCents      int64
	currency         string
	method           Method
	status           Status
	gatewayOrderID   string
	gatewayPaymentID *string
	gatewaySignature *string
	gatewayFeeCents  *int64
	capturedAt       *time.Time
	failureReason    *string
	refund           *Refund
	createdAt        time.Time
	updatedAt        time.Time
}

func NewPayment(
	reference string,
	bookingID, userID uuid.UUID,
	amountCents int64,
	currency string,
	method Method,
	gatewayOrderID string,
) (*Payment, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}
	if gatewayOrderID == "" {
		return nil, ErrEmptyGatewayOrderID
	}

	return &Payment{
		id:             uuid.New(),
		reference:      reference,
		bookingID:      bookingID,
		userID:         userID,
		amountCents:    amountCents,
		currency:       currency,
		method:         method,
		status:         StatusPending,
		gatewayOrderID: gatewayOrderID,
	}, nil
}

func ReconstructPayment(
	id uuid.UUID,
	reference string,
	bookingID, userID uuid.UUID,
	amountCents int64,
	currency string,
	method Method,
	status Status,
	gatewayOrderID string,
	gatewayPaymentID *string,
	gatewaySignature *string,
	gatewayFeeCents *int64,
	capturedAt *time.Time,
	failureReason *string,
	refund *Refund,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:               id,
		reference:        reference,
		bookingID:        bookingID,
		userID:           userID,
		amountCents:      amountCents,
		currency:         currency,
		method:           method,
		status:           status,
		gatewayOrderID:   gatewayOrderID,
		gatewayPaymentID: gatewayPaymentID,
		gatewaySignature: gatewaySignature,
		gatewayFeeCents:  gatewayFeeCents,
		capturedAt:       capturedAt,
		failureReason:    failureReason,
		refund:           refund,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (p *Payment) IsCompleted() bool {
	return p.status == StatusCompleted
}

func (p *Payment) IsRefunded() bool {
	return p.status == StatusRefunded
}

// ValidateRefund checks a refund request against the captured state
// without mutating anything. amountCents of zero means a full refund.
func (p *Payment) ValidateRefund(amountCents int64) (int64, error) {
	if p.status != StatusCompleted {
		return 0, ErrNotRefundable
	}
	if amountCents == 0 {
		return p.amountCents, nil
	}
	if amountCents < 0 {
		return 0, ErrRefundAmountInvalid
	}
	if amountCents > p.amountCents {
		return 0, ErrRefundExceedsAmount
	}
	return amountCents, nil
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) Reference() string         { return p.reference }
func (p *Payment) BookingID() uuid.UUID      { return p.bookingID }
func (p *Payment) UserID() uuid.UUID         { return p.userID }
func (p *Payment) AmountCents() int64        { return p.amountCents }
func (p *Payment) Currency() string          { return p.currency }
func (p *Payment) Method() Method            { return p.method }
func (p *Payment) Status() Status            { return p.status }
func (p *Payment) GatewayOrderID() string    { return p.gatewayOrderID }
func (p *Payment) GatewayPaymentID() *string { return p.gatewayPaymentID }
func (p *Payment) GatewaySignature() *string { return p.gatewaySignature }
func (p *Payment) GatewayFeeCents() *int64   { return p.gatewayFeeCents }
func (p *Payment) CapturedAt() *time.Time    { return p.capturedAt }
func (p *Payment) FailureReason() *string    { return p.failureReason }
func (p *Payment) Refund() *Refund           { return p.refund }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time      { return p.updatedAt }
