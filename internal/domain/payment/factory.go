package payment

import (
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/ids"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
	Refs  ids.Generator
}

func NewFactory(clock clock.Clock, refs ids.Generator) *Factory {
	return &Factory{
		Clock: clock,
		Refs:  refs,
	}
}

// CreatePayment builds the local record for a gateway order that was
// already created remotely. Callers guarantee the one-payment-per-booking
// rule at the persistence layer.
func (f *Factory) CreatePayment(
	bookingID, userID uuid.UUID,
	amountCents int64,
	currency string,
	method Method,
	gatewayOrderID string,
) (*Payment, error) {
	return NewPayment(
		f.Refs.PaymentRef(f.Clock.Now()),
		bookingID,
		userID,
		amountCents,
		currency,
		method,
		gatewayOrderID,
	)
}

// CreateRefund validates the request against the payment and returns a
// pending refund sub-record carrying a fresh reference.
func (f *Factory) CreateRefund(p *Payment, amountCents int64, reason string) (*Refund, error) {
	amount, err := p.ValidateRefund(amountCents)
	if err != nil {
		return nil, err
	}
	now := f.Clock.Now()
	return &Refund{
		Reference:   f.Refs.RefundRef(now),
		AmountCents: amount,
		Reason:      reason,
		Status:      RefundPending,
		CreatedAt:   now,
	}, nil
}
