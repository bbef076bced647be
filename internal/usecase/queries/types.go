package queries

import (
	"time"

	"github.com/google/uuid"
)

// BranchView represents read-optimized branch data
type BranchView struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Timezone       string     `json:"timezone"`
	Schedule       []DayView  `json:"schedule"`
	Policy         PolicyView `json:"cancellation_policy"`
	MinAdvanceMin  int        `json:"min_advance_min"`
	MaxAdvanceDays int        `json:"max_advance_days"`
	MaxPartySize   int        `json:"max_party_size"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type DayView struct {
	Weekday string `json:"weekday"`
	IsOpen  bool   `json:"is_open"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
}

type PolicyView struct {
	FreeCancelHours int   `json:"free_cancel_hours"`
	CancelFeeCents  int64 `json:"cancel_fee_cents"`
}

// TableView represents read-optimized table data
type TableView struct {
	ID              uuid.UUID `json:"id"`
	BranchID        uuid.UUID `json:"branch_id"`
	Number          int       `json:"number"`
	Seats           int       `json:"seats"`
	Theme           string    `json:"theme"`
	PriceMultiplier float64   `json:"price_multiplier"`
	IsActive        bool      `json:"is_active"`
	IsAvailable     bool      `json:"is_available"`
}

// AvailableTableView is one bookable candidate for a requested slot.
type AvailableTableView struct {
	ID              uuid.UUID `json:"id"`
	Number          int       `json:"number"`
	Seats           int       `json:"seats"`
	Theme           string    `json:"theme"`
	PriceMultiplier float64   `json:"price_multiplier"`
}

// AvailabilityView is the answer to "who can seat this party, then".
// A closed day or an out-of-hours slot is not an error: Tables is empty
// and Reason says why.
type AvailabilityView struct {
	BranchID  uuid.UUID             `json:"branch_id"`
	Date      string                `json:"date"`
	Start     string                `json:"start"`
	End       string                `json:"end"`
	PartySize int                   `json:"party_size"`
	Tables    []*AvailableTableView `json:"tables"`
	Reason    *string               `json:"reason,omitempty"`
}

// BookingView represents read-optimized booking data
type BookingView struct {
	ID              uuid.UUID         `json:"id"`
	Reference       string            `json:"reference"`
	UserID          uuid.UUID         `json:"user_id"`
	UserEmail       string            `json:"user_email"`
	BranchID        uuid.UUID         `json:"branch_id"`
	BranchName      string            `json:"branch_name"`
	TableID         uuid.UUID         `json:"table_id"`
	TableNumber     int               `json:"table_number"`
	TableTheme      string            `json:"table_theme"`
	Date            string            `json:"date"`
	Start           string            `json:"start"`
	End             string            `json:"end"`
	PartySize       int               `json:"party_size"`
	Status          string            `json:"status"`
	Items           []BookingItemView `json:"items,omitempty"`
	TotalCents      int64             `json:"total_cents"`
	DiscountCents   int64             `json:"discount_cents"`
	OfferCode       *string           `json:"offer_code,omitempty"`
	SpecialRequests *string           `json:"special_requests,omitempty"`
	PaymentID       *uuid.UUID        `json:"payment_id,omitempty"`
	PaymentStatus   *string           `json:"payment_status,omitempty"`
	CheckedInAt     *time.Time        `json:"checked_in_at,omitempty"`
	Rating          *RatingView       `json:"rating,omitempty"`
	Cancellation    *CancellationView `json:"cancellation,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type BookingItemView struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type RatingView struct {
	Food     int    `json:"food"`
	Service  int    `json:"service"`
	Ambiance int    `json:"ambiance"`
	Overall  int    `json:"overall"`
	Review   string `json:"review,omitempty"`
}

type CancellationView struct {
	Actor       string    `json:"actor"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
	RefundCents int64     `json:"refund_cents"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	Reference   string    `json:"reference"`
	BranchName  string    `json:"branch_name"`
	TableNumber int       `json:"table_number"`
	Date        string    `json:"date"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	PartySize   int       `json:"party_size"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaymentView represents read-optimized payment data
type PaymentView struct {
	ID               uuid.UUID   `json:"id"`
	Reference        string      `json:"reference"`
	BookingID        uuid.UUID   `json:"booking_id"`
	UserID           uuid.UUID   `json:"user_id"`
	AmountCents      int64       `json:"amount_cents"`
	Currency         string      `json:"currency"`
	Method           string      `json:"method"`
	Status           string      `json:"status"`
	GatewayOrderID   string      `json:"gateway_order_id"`
	GatewayPaymentID *string     `json:"gateway_payment_id,omitempty"`
	GatewayFeeCents  *int64      `json:"gateway_fee_cents,omitempty"`
	CapturedAt       *time.Time  `json:"captured_at,omitempty"`
	FailureReason    *string     `json:"failure_reason,omitempty"`
	Refund           *RefundView `json:"refund,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type RefundView struct {
	Reference       string     `json:"reference"`
	AmountCents     int64      `json:"amount_cents"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	GatewayRefundID *string    `json:"gateway_refund_id,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}

// OfferView represents read-optimized offer data
type OfferView struct {
	ID            uuid.UUID `json:"id"`
	BranchID      uuid.UUID `json:"branch_id"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	DiscountValue int64     `json:"discount_value"`
	MinOrderCents int64     `json:"min_order_cents"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `json:"is_active"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Tier          string    `json:"tier"`
	LoyaltyPoints int64     `json:"loyalty_points"`
	IsActive      bool      `json:"is_active"`
}
