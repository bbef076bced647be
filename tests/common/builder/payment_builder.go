//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/payment"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	ID               uuid.UUID
	Reference        string
	BookingID        uuid.UUID
	UserID           uuid.UUID
	AmountCents      int64
	Currency         string
	Method           string
	Status           string
	GatewayOrderID   string
	GatewayPaymentID *string
	Signature        string
	CapturedAt       *time.Time
	Refund           *queries.RefundView
	Now              time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		ID:             uuid.New(),
		Reference:      "PAY-20250310-TEST01",
		BookingID:      uuid.New(),
		UserID:         uuid.New(),
		AmountCents:    4500,
		Currency:       "INR",
		Method:         payment.MethodCard.String(),
		Status:         payment.StatusPending.String(),
		GatewayOrderID: "order_test_0001",
		Signature:      "deadbeef",
		Now:            time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

// Build methods
func (p *PaymentBuilder) BuildCreateOrderRequestDTO() reqdto.CreateOrderRequest {
	return reqdto.CreateOrderRequest{
		BookingID: p.BookingID,
		Method:    p.Method,
	}
}

func (p *PaymentBuilder) BuildVerifyRequestDTO() reqdto.VerifyPaymentRequest {
	paymentID := "pay_test_0001"
	if p.GatewayPaymentID != nil {
		paymentID = *p.GatewayPaymentID
	}
	return reqdto.VerifyPaymentRequest{
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: paymentID,
		Signature:        p.Signature,
	}
}

func (p *PaymentBuilder) BuildRefundRequestDTO() reqdto.RefundPaymentRequest {
	return reqdto.RefundPaymentRequest{
		Reason: "plans changed",
	}
}

func (p *PaymentBuilder) BuildView() *queries.PaymentView {
	return &queries.PaymentView{
		ID:               p.ID,
		Reference:        p.Reference,
		BookingID:        p.BookingID,
		UserID:           p.UserID,
		AmountCents:      p.AmountCents,
		Currency:         p.Currency,
		Method:           p.Method,
		Status:           p.Status,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		CapturedAt:       p.CapturedAt,
		Refund:           p.Refund,
		CreatedAt:        p.Now,
		UpdatedAt:        p.Now,
	}
}

// Fluent builder methods
func (p *PaymentBuilder) WithBookingID(bookingID uuid.UUID) *PaymentBuilder {
	p.BookingID = bookingID
	return p
}

func (p *PaymentBuilder) WithUserID(userID uuid.UUID) *PaymentBuilder {
	p.UserID = userID
	return p
}

func (p *PaymentBuilder) WithAmount(cents int64) *PaymentBuilder {
	p.AmountCents = cents
	return p
}

func (p *PaymentBuilder) WithMethod(method string) *PaymentBuilder {
	p.Method = method
	return p
}

func (p *PaymentBuilder) WithStatus(status string) *PaymentBuilder {
	p.Status = status
	return p
}

func (p *PaymentBuilder) WithSignature(sig string) *PaymentBuilder {
	p.Signature = sig
	return p
}

func (p *PaymentBuilder) AsCompleted() *PaymentBuilder {
	gatewayPaymentID := "pay_test_0001"
	capturedAt := p.Now
	p.Status = payment.StatusCompleted.String()
	p.GatewayPaymentID = &gatewayPaymentID
	p.CapturedAt = &capturedAt
	return p
}

func (p *PaymentBuilder) AsRefunded() *PaymentBuilder {
	p.AsCompleted()
	p.Status = payment.StatusRefunded.String()
	processedAt := p.Now.Add(time.Hour)
	p.Refund = &queries.RefundView{
		Reference:   "RF-20250310-TEST01",
		AmountCents: p.AmountCents,
		Reason:      "plans changed",
		Status:      payment.RefundProcessed.String(),
		ProcessedAt: &processedAt,
	}
	return p
}
