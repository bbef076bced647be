package commands

import (
	"context"
	"time"

	"tablebook/internal/pkg/errs"
)

var ErrGatewayUnavailable = errs.New("payment gateway unavailable")

// GatewayError wraps a failure returned by the external payment provider.
// Retryable is true when no local or remote state was mutated, so the
// caller may safely repeat the call.
type GatewayError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *GatewayError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// GatewayOrder is the provider-side order a payment attaches to.
type GatewayOrder struct {
	ID          string
	AmountCents int64
	Currency    string
	Status      string
}

// GatewayPayment is the provider's authoritative view of a payment.
// Verify never trusts the client-relayed signature alone; amount and
// currency are always re-checked against this record.
type GatewayPayment struct {
	ID          string
	OrderID     string
	Status      string
	AmountCents int64
	Currency    string
	Method      string
	FeeCents    *int64
	CapturedAt  *time.Time
	ErrorReason *string
}

const GatewayPaymentCaptured = "captured"

type GatewayRefund struct {
	ID          string
	PaymentID   string
	AmountCents int64
	Status      string
}

// PaymentGateway is the external provider port. Calls carry a bounded
// timeout via ctx; the engine itself never retries.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, gatewayPaymentID string) (*GatewayPayment, error)
	CreateRefund(ctx context.Context, gatewayPaymentID string, amountCents int64, notes map[string]string) (*GatewayRefund, error)
}

// EventPublisher fans events out after the owning transaction commits.
// Callers treat failures as log-only; a lost event never fails a command.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// SlotLocker serializes booking attempts on one (table, date) so races
// resolve before a transaction opens. The exclusion constraint stays the
// authority: a lease failure degrades to the in-transaction check.
type SlotLocker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
