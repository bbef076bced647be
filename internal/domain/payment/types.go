package payment

import "errors"

var (
	ErrInvalidStatus       = errors.New("invalid payment status")
	ErrInvalidRefundStatus = errors.New("invalid refund status")
	ErrInvalidMethod       = errors.New("invalid payment method")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the gateway can no longer move this payment.
// completed is not terminal: it may still become refunded.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsActive reports whether this payment still claims its booking. Only
// failed and cancelled payments free the booking for a new order.
func (s Status) IsActive() bool {
	switch s {
	case StatusFailed, StatusCancelled:
		return false
	default:
		return true
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// CanTransition encodes the payment state machine. Completion is
// reachable from pending or processing; refunded only from completed.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCompleted || to == StatusFailed || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed || to == StatusCancelled
	case StatusCompleted:
		return to == StatusRefunded
	default:
		return false
	}
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundPending, RefundProcessed, RefundFailed:
		return true
	default:
		return false
	}
}

func (s RefundStatus) String() string {
	return string(s)
}

type Method string

const (
	MethodCard       Method = "card"
	MethodUPI        Method = "upi"
	MethodNetbanking Method = "netbanking"
	MethodWallet     Method = "wallet"
)

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetbanking, MethodWallet:
		return true
	default:
		return false
	}
}

func NewMethod(s string) (Method, error) {
	m := Method(s)
	if !m.IsValid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}

// LoyaltyPointsFor converts a captured amount into loyalty points: one
// point per 100 minor units, remainder discarded.
func LoyaltyPointsFor(amountCents int64) int64 {
	if amountCents <= 0 {
		return 0
	}
	return amountCents / 100
}
