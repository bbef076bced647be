package request

import (
	"strings"

	"tablebook/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	BookingID   uuid.UUID `json:"booking_id" binding:"required"`
	Method      string    `json:"method" binding:"required"`
	AmountCents *int64    `json:"amount_cents,omitempty"`
}

func (r CreateOrderRequest) ToCommand() commands.CreateOrderRequest {
	return commands.CreateOrderRequest{
		BookingID:   r.BookingID,
		AmountCents: r.AmountCents,
		Method:      strings.ToLower(strings.TrimSpace(r.Method)),
	}
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

func (r VerifyPaymentRequest) ToCommand() commands.VerifyPaymentRequest {
	return commands.VerifyPaymentRequest{
		GatewayOrderID:   r.GatewayOrderID,
		GatewayPaymentID: r.GatewayPaymentID,
		Signature:        r.Signature,
	}
}

type RefundPaymentRequest struct {
	AmountCents *int64 `json:"amount_cents,omitempty"`
	Reason      string `json:"reason" binding:"required"`
}

func (r RefundPaymentRequest) ToCommand() commands.RefundPaymentRequest {
	return commands.RefundPaymentRequest{
		AmountCents: r.AmountCents,
		Reason:      strings.TrimSpace(r.Reason),
	}
}
