package offer

import (
	"errors"
	"time"
)

var ErrInvalidOfferType = errors.New("invalid offer type")

// Eligibility failures, ordered by the checks in IsApplicable. Each is
// a stable reason the caller can surface to the customer.
var (
	ErrOfferInactive       = errors.New("offer is not active")
	ErrNotYetValid         = errors.New("offer is not yet valid")
	ErrExpired             = errors.New("offer has expired")
	ErrDayNotAllowed       = errors.New("offer does not apply on this day")
	ErrTimeNotAllowed      = errors.New("offer does not apply at this time")
	ErrUsageCapReached     = errors.New("offer usage cap reached")
	ErrMinOrderNotMet      = errors.New("order amount below offer minimum")
	ErrPartySizeNotAllowed = errors.New("party size outside offer range")
	ErrTierNotAllowed      = errors.New("membership tier not eligible")
	ErrUserCapReached      = errors.New("per-user usage cap reached")
)

type OfferType string

const (
	TypePercentage OfferType = "percentage"
	TypeFixed      OfferType = "fixed"
	TypeBogo       OfferType = "bogo"
	TypeCombo      OfferType = "combo"
)

func (t OfferType) String() string {
	return string(t)
}

func (t OfferType) IsValid() bool {
	switch t {
	case TypePercentage, TypeFixed, TypeBogo, TypeCombo:
		return true
	default:
		return false
	}
}

func NewOfferType(s string) (OfferType, error) {
	t := OfferType(s)
	if !t.IsValid() {
		return "", ErrInvalidOfferType
	}
	return t, nil
}

// Weekdays is a bitmask over time.Weekday. The zero value means the
// offer applies every day.
type Weekdays uint8

func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

func (w Weekdays) IsUnrestricted() bool {
	return w == 0
}
