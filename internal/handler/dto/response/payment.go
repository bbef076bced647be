package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	Reference        string          `json:"reference"`
	BookingID        uuid.UUID       `json:"bookingId"`
	UserID           uuid.UUID       `json:"userId"`
	AmountCents      int64           `json:"amountCents"`
	Currency         string          `json:"currency"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	GatewayOrderID   string          `json:"gatewayOrderId"`
	GatewayPaymentID *string         `json:"gatewayPaymentId,omitempty"`
	GatewayFeeCents  *int64          `json:"gatewayFeeCents,omitempty"`
	CapturedAt       *time.Time      `json:"capturedAt,omitempty"`
	FailureReason    *string         `json:"failureReason,omitempty"`
	Refund           *RefundResponse `json:"refund,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type RefundResponse struct {
	Reference       string     `json:"reference"`
	AmountCents     int64      `json:"amountCents"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	GatewayRefundID *string    `json:"gatewayRefundId,omitempty"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	resp := &PaymentResponse{
		ID:               v.ID,
		Reference:        v.Reference,
		BookingID:        v.BookingID,
		UserID:           v.UserID,
		AmountCents:      v.AmountCents,
		Currency:         v.Currency,
		Method:           v.Method,
		Status:           v.Status,
		GatewayOrderID:   v.GatewayOrderID,
		GatewayPaymentID: v.GatewayPaymentID,
		GatewayFeeCents:  v.GatewayFeeCents,
		CapturedAt:       v.CapturedAt,
		FailureReason:    v.FailureReason,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
	if v.Refund != nil {
		resp.Refund = &RefundResponse{
			Reference:       v.Refund.Reference,
			AmountCents:     v.Refund.AmountCents,
			Reason:          v.Refund.Reason,
			Status:          v.Refund.Status,
			GatewayRefundID: v.Refund.GatewayRefundID,
			ProcessedAt:     v.Refund.ProcessedAt,
		}
	}
	return resp
}
