package offer

import (
	"errors"
	"strings"
	"time"

	"tablebook/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrEmptyCode           = errors.New("offer code cannot be empty")
	ErrInvalidPercentage   = errors.New("percentage must be between 1 and 100")
	ErrInvalidDiscount     = errors.New("discount value cannot be negative")
	ErrInvalidDateRange    = errors.New("offer end date is before its start date")
	ErrInvalidDailyWindow  = errors.New("invalid daily time window")
	ErrInvalidPartyRange   = errors.New("invalid party size range")
	ErrInvalidCap          = errors.New("usage caps must be positive")
	ErrNegativeMinOrder    = errors.New("minimum order amount cannot be negative")
	ErrInvalidTierInFilter = errors.New("tier filter contains an unknown tier")
)

const minutesPerDay = 24 * 60

// ApplicabilityInput carries everything eligibility depends on.
// UserUses is the caller-loaded count of this user's prior redemptions.
type ApplicabilityInput struct {
	Tier       user.MembershipTier
	OrderCents int64
	PartySize  int
	Now        time.Time
	UserUses   int64
}

type Offer struct {
	id               uuid.UUID
	branchID         uuid.UUID
	code             string
	title            string
	offerType        OfferType
	discountValue    int64
	maxDiscountCents *int64
	minOrderCents    int64
	minPartySize     *int
	maxPartySize     *int
	tiers            []user.MembershipTier
	weekdays         Weekdays
	dailyStartMin    *int
	dailyEndMin      *int
	startDate        time.Time
	endDate          time.Time
	globalCap        *int64
	perUserCap       *int64
	usedCount        int64
	revenueCents     int64
	isActive         bool
	createdAt        time.Time
	updatedAt        time.Time
}

func NewOffer(
	id uuid.UUID,
	branchID uuid.UUID,
	code string,
	title string,
	offerType OfferType,
	discountValue int64,
	maxDiscountCents *int64,
	minOrderCents int64,
	minPartySize, maxPartySize *int,
	tiers []user.MembershipTier,
	weekdays Weekdays,
	dailyStartMin, dailyEndMin *int,
	startDate, endDate time.Time,
	globalCap, perUserCap *int64,
) (*Offer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if !offerType.IsValid() {
		return nil, ErrInvalidOfferType
	}
	if offerType == TypePercentage {
		if discountValue < 1 || discountValue > 100 {
			return nil, ErrInvalidPercentage
		}
	} else if discountValue < 0 {
		return nil, ErrInvalidDiscount
	}
	if minOrderCents < 0 {
		return nil, ErrNegativeMinOrder
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}
	if err := validateDailyWindow(dailyStartMin, dailyEndMin); err != nil {
		return nil, err
	}
	if minPartySize != nil && maxPartySize != nil && *minPartySize > *maxPartySize {
		return nil, ErrInvalidPartyRange
	}
	if (minPartySize != nil && *minPartySize < 1) || (maxPartySize != nil && *maxPartySize < 1) {
		return nil, ErrInvalidPartyRange
	}
	for _, t := range tiers {
		if !t.IsValid() {
			return nil, ErrInvalidTierInFilter
		}
	}
	if (globalCap != nil && *globalCap <= 0) || (perUserCap != nil && *perUserCap <= 0) {
		return nil, ErrInvalidCap
	}

	return &Offer{
		id:               id,
		branchID:         branchID,
		code:             code,
		title:            title,
		offerType:        offerType,
		discountValue:    discountValue,
		maxDiscountCents: maxDiscountCents,
		minOrderCents:    minOrderCents,
		minPartySize:     minPartySize,
		maxPartySize:     maxPartySize,
		tiers:            tiers,
		weekdays:         weekdays,
		dailyStartMin:    dailyStartMin,
		dailyEndMin:      dailyEndMin,
		startDate:        startDate,
		endDate:          endDate,
		globalCap:        globalCap,
		perUserCap:       perUserCap,
		isActive:         true,
	}, nil
}

func validateDailyWindow(startMin, endMin *int) error {
	if (startMin == nil) != (endMin == nil) {
		return ErrInvalidDailyWindow
	}
	if startMin == nil {
		return nil
	}
	if *startMin < 0 || *endMin > minutesPerDay || *startMin >= *endMin {
		return ErrInvalidDailyWindow
	}
	return nil
}

func ReconstructOffer(
	id uuid.UUID,
	branchID uuid.UUID,
	code string,
	title string,
	offerType OfferType,
	discountValue int64,
	maxDiscountCents *int64,
	minOrderCents int64,
	minPartySize, maxPartySize *int,
	tiers []user.MembershipTier,
	weekdays Weekdays,
	dailyStartMin, dailyEndMin *int,
	startDate, endDate time.Time,
	globalCap, perUserCap *int64,
	usedCount int64,
	revenueCents int64,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Offer {
	return &Offer{
		id:               id,
		branchID:         branchID,
		code:             code,
		title:            title,
		offerType:        offerType,
		discountValue:    discountValue,
		maxDiscountCents: maxDiscountCents,
		minOrderCents:    minOrderCents,
		minPartySize:     minPartySize,
		maxPartySize:     maxPartySize,
		tiers:            tiers,
		weekdays:         weekdays,
		dailyStartMin:    dailyStartMin,
		dailyEndMin:      dailyEndMin,
		startDate:        startDate,
		endDate:          endDate,
		globalCap:        globalCap,
		perUserCap:       perUserCap,
		usedCount:        usedCount,
		revenueCents:     revenueCents,
		isActive:         isActive,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// IsApplicable checks eligibility in a fixed order and returns the
// first failing reason, or nil when the offer applies. All windows are
// evaluated against in.Now, which callers localize to the branch's
// timezone beforehand.
func (o *Offer) IsApplicable(in ApplicabilityInput) error {
	if !o.isActive {
		return ErrOfferInactive
	}
	if in.Now.Before(o.startDate) {
		return ErrNotYetValid
	}
	if in.Now.After(o.endDate) {
		return ErrExpired
	}
	if !o.weekdays.IsUnrestricted() && !o.weekdays.Has(in.Now.Weekday()) {
		return ErrDayNotAllowed
	}
	if o.dailyStartMin != nil {
		minutes := in.Now.Hour()*60 + in.Now.Minute()
		if minutes < *o.dailyStartMin || minutes >= *o.dailyEndMin {
			return ErrTimeNotAllowed
		}
	}
	if o.globalCap != nil && o.usedCount >= *o.globalCap {
		return ErrUsageCapReached
	}
	if in.OrderCents < o.minOrderCents {
		return ErrMinOrderNotMet
	}
	if o.minPartySize != nil && in.PartySize < *o.minPartySize {
		return ErrPartySizeNotAllowed
	}
	if o.maxPartySize != nil && in.PartySize > *o.maxPartySize {
		return ErrPartySizeNotAllowed
	}
	if len(o.tiers) > 0 && !o.tierAllowed(in.Tier) {
		return ErrTierNotAllowed
	}
	if o.perUserCap != nil && in.UserUses >= *o.perUserCap {
		return ErrUserCapReached
	}
	return nil
}

func (o *Offer) tierAllowed(tier user.MembershipTier) bool {
	for _, t := range o.tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ComputeDiscount returns the discount in minor units, always clamped
// to [0, orderCents]. Bogo and combo offers have no item-level math
// here; they grant their flat configured value.
func (o *Offer) ComputeDiscount(orderCents int64) int64 {
	if orderCents <= 0 {
		return 0
	}

	var discount int64
	switch o.offerType {
	case TypePercentage:
		discount = orderCents * o.discountValue / 100
		if o.maxDiscountCents != nil && discount > *o.maxDiscountCents {
			discount = *o.maxDiscountCents
		}
	case TypeFixed, TypeBogo, TypeCombo:
		discount = o.discountValue
	}

	if discount < 0 {
		return 0
	}
	if discount > orderCents {
		return orderCents
	}
	return discount
}

func (o *Offer) ID() uuid.UUID                 { return o.id }
func (o *Offer) BranchID() uuid.UUID           { return o.branchID }
func (o *Offer) Code() string                  { return o.code }
func (o *Offer) Title() string                 { return o.title }
func (o *Offer) Type() OfferType               { return o.offerType }
func (o *Offer) DiscountValue() int64          { return o.discountValue }
func (o *Offer) MaxDiscountCents() *int64      { return o.maxDiscountCents }
func (o *Offer) MinOrderCents() int64          { return o.minOrderCents }
func (o *Offer) MinPartySize() *int            { return o.minPartySize }
func (o *Offer) MaxPartySize() *int            { return o.maxPartySize }
func (o *Offer) Tiers() []user.MembershipTier  { return o.tiers }
func (o *Offer) Weekdays() Weekdays            { return o.weekdays }
func (o *Offer) DailyStartMin() *int           { return o.dailyStartMin }
func (o *Offer) DailyEndMin() *int             { return o.dailyEndMin }
func (o *Offer) StartDate() time.Time          { return o.startDate }
func (o *Offer) EndDate() time.Time            { return o.endDate }
func (o *Offer) GlobalCap() *int64             { return o.globalCap }
func (o *Offer) PerUserCap() *int64            { return o.perUserCap }
func (o *Offer) UsedCount() int64              { return o.usedCount }
func (o *Offer) RevenueCents() int64           { return o.revenueCents }
func (o *Offer) IsActive() bool                { return o.isActive }
func (o *Offer) CreatedAt() time.Time          { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time          { return o.updatedAt }
