//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/offer"
	"tablebook/internal/domain/user"

	"github.com/google/uuid"
)

type OfferBuilder struct {
	ID               uuid.UUID
	BranchID         uuid.UUID
	Code             string
	Title            string
	Type             string
	DiscountValue    int64
	MaxDiscountCents *int64
	MinOrderCents    int64
	MinPartySize     *int
	MaxPartySize     *int
	Tiers            []user.MembershipTier
	Weekdays         offer.Weekdays
	DailyStartMin    *int
	DailyEndMin      *int
	StartDate        time.Time
	EndDate          time.Time
	GlobalCap        *int64
	PerUserCap       *int64
	UsedCount        int64
	IsActive         bool
}

func NewOfferBuilder() *OfferBuilder {
	return &OfferBuilder{
		ID:            uuid.New(),
		BranchID:      uuid.New(),
		Code:          "WELCOME10",
		Title:         "Welcome discount",
		Type:          "percentage",
		DiscountValue: 10,
		StartDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		IsActive:      true,
	}
}

func (o *OfferBuilder) With(mutate func(*OfferBuilder)) *OfferBuilder {
	mutate(o)
	return o
}

func (o *OfferBuilder) BuildDomain() (*offer.Offer, error) {
	offerType, err := offer.NewOfferType(o.Type)
	if err != nil {
		return nil, err
	}
	built, err := offer.NewOffer(
		o.ID, o.BranchID, o.Code, o.Title, offerType,
		o.DiscountValue, o.MaxDiscountCents, o.MinOrderCents,
		o.MinPartySize, o.MaxPartySize, o.Tiers,
		o.Weekdays, o.DailyStartMin, o.DailyEndMin,
		o.StartDate, o.EndDate, o.GlobalCap, o.PerUserCap,
	)
	if err != nil {
		return nil, err
	}
	if o.UsedCount > 0 || !o.IsActive {
		return offer.ReconstructOffer(
			o.ID, o.BranchID, o.Code, o.Title, offerType,
			o.DiscountValue, o.MaxDiscountCents, o.MinOrderCents,
			o.MinPartySize, o.MaxPartySize, o.Tiers,
			o.Weekdays, o.DailyStartMin, o.DailyEndMin,
			o.StartDate, o.EndDate, o.GlobalCap, o.PerUserCap,
			o.UsedCount, 0, o.IsActive, time.Now(), time.Now(),
		), nil
	}
	return built, nil
}

func (o *OfferBuilder) WithType(offerType string, value int64) *OfferBuilder {
	o.Type = offerType
	o.DiscountValue = value
	return o
}

func (o *OfferBuilder) WithMaxDiscount(cents int64) *OfferBuilder {
	o.MaxDiscountCents = &cents
	return o
}

func (o *OfferBuilder) WithMinOrder(cents int64) *OfferBuilder {
	o.MinOrderCents = cents
	return o
}

func (o *OfferBuilder) WithPartyRange(min, max int) *OfferBuilder {
	o.MinPartySize = &min
	o.MaxPartySize = &max
	return o
}

func (o *OfferBuilder) WithTiers(tiers ...user.MembershipTier) *OfferBuilder {
	o.Tiers = tiers
	return o
}

func (o *OfferBuilder) WithWeekdays(days ...time.Weekday) *OfferBuilder {
	o.Weekdays = offer.WeekdaysOf(days...)
	return o
}

func (o *OfferBuilder) WithDailyWindow(startMin, endMin int) *OfferBuilder {
	o.DailyStartMin = &startMin
	o.DailyEndMin = &endMin
	return o
}

func (o *OfferBuilder) WithValidity(start, end time.Time) *OfferBuilder {
	o.StartDate = start
	o.EndDate = end
	return o
}

func (o *OfferBuilder) WithGlobalCap(cap int64) *OfferBuilder {
	o.GlobalCap = &cap
	return o
}

func (o *OfferBuilder) WithPerUserCap(cap int64) *OfferBuilder {
	o.PerUserCap = &cap
	return o
}

func (o *OfferBuilder) WithUsedCount(count int64) *OfferBuilder {
	o.UsedCount = count
	return o
}

func (o *OfferBuilder) AsInactive() *OfferBuilder {
	o.IsActive = false
	return o
}
