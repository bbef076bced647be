package booking

import (
	"errors"
	"math"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var ErrInvalidStatus = errors.New("invalid booking status")

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// HoldsSlot reports whether a booking in this status still occupies its
// table time for availability purposes.
func (s Status) HoldsSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsCancellable reports whether the booking may still be cancelled.
// Completed visits and already-cancelled bookings may not.
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// CanTransition encodes the primary lifecycle:
// pending -> confirmed -> completed, with cancellation possible from
// pending or confirmed. Terminal states admit no transitions.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

type CancelActor string

const (
	ActorUser   CancelActor = "user"
	ActorAdmin  CancelActor = "admin"
	ActorSystem CancelActor = "system"
)

func (a CancelActor) IsValid() bool {
	switch a {
	case ActorUser, ActorAdmin, ActorSystem:
		return true
	default:
		return false
	}
}

type PreOrderItem struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

var ErrInvalidPreOrderItem = errors.New("invalid pre-order item")

func (i PreOrderItem) Validate() error {
	if i.Name == "" || i.Quantity < 1 || i.UnitPriceCents < 0 {
		return ErrInvalidPreOrderItem
	}
	return nil
}

// ItemsTotal sums pre-ordered items and applies the table's price
// multiplier, rounding to the nearest minor unit.
func ItemsTotal(items []PreOrderItem, priceMultiplier float64) Money {
	var sum int64
	for _, it := range items {
		sum += it.UnitPriceCents * int64(it.Quantity)
	}
	return NewMoney(int64(math.Round(float64(sum) * priceMultiplier)))
}

// CheckInWindow bounds how far from the slot start a guest may check in,
// in either direction.
const CheckInWindow = 30 * time.Minute

func WithinCheckInWindow(now, startAt time.Time) bool {
	diff := now.Sub(startAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= CheckInWindow
}

const (
	minRatingScore   = 1
	maxRatingScore   = 5
	maxReviewLength  = 1000
	maxPreOrderItems = 50
)

var (
	ErrInvalidRatingScore = errors.New("rating scores must be between 1 and 5")
	ErrReviewTooLong      = errors.New("review must be 1000 characters or less")
)

// Rating is the write-once post-completion feedback attached to a booking.
type Rating struct {
	Food     int    `json:"food"`
	Service  int    `json:"service"`
	Ambiance int    `json:"ambiance"`
	Overall  int    `json:"overall"`
	Review   string `json:"review,omitempty"`
}

func NewRating(food, service, ambiance, overall int, review string) (Rating, error) {
	for _, score := range []int{food, service, ambiance, overall} {
		if score < minRatingScore || score > maxRatingScore {
			return Rating{}, ErrInvalidRatingScore
		}
	}
	if len(review) > maxReviewLength {
		return Rating{}, ErrReviewTooLong
	}
	return Rating{
		Food:     food,
		Service:  service,
		Ambiance: ambiance,
		Overall:  overall,
		Review:   review,
	}, nil
}
