package request

import (
	"fmt"
	"strings"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/usecase/commands"

	"github.com/google/uuid"
)

const wireDateLayout = "2006-01-02"

// ParseDate parses a calendar date in "2006-01-02" form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses a branch-local wall clock like "19:30" into minutes
// from midnight.
func ParseClock(s string) (int, error) {
	t, err := booking.ParseTimeOfDay(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Minutes(), nil
}

type CreateBookingRequest struct {
	BranchID        uuid.UUID           `json:"branch_id" binding:"required"`
	TableID         uuid.UUID           `json:"table_id" binding:"required"`
	Date            string              `json:"date" binding:"required"`
	Start           string              `json:"start" binding:"required"`
	End             string              `json:"end" binding:"required"`
	PartySize       int                 `json:"party_size" binding:"required"`
	Items           []PreOrderItemInput `json:"items,omitempty"`
	OfferCode       *string             `json:"offer_code,omitempty"`
	SpecialRequests *string             `json:"special_requests,omitempty"`
}

type PreOrderItemInput struct {
	Name           string `json:"name" binding:"required"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
}

func (r CreateBookingRequest) GetOfferCode() *string {
	if r.OfferCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.OfferCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ToCommand() (commands.CreateBookingRequest, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}
	startMin, err := ParseClock(r.Start)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}
	endMin, err := ParseClock(r.End)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}

	items := make([]commands.PreOrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, commands.PreOrderItemInput{
			Name:           strings.TrimSpace(it.Name),
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}

	return commands.CreateBookingRequest{
		BranchID:        r.BranchID,
		TableID:         r.TableID,
		Date:            date,
		StartMin:        startMin,
		EndMin:          endMin,
		PartySize:       r.PartySize,
		Items:           items,
		OfferCode:       r.GetOfferCode(),
		SpecialRequests: r.SpecialRequests,
	}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type RateBookingRequest struct {
	Food     int    `json:"food" binding:"required"`
	Service  int    `json:"service" binding:"required"`
	Ambiance int    `json:"ambiance" binding:"required"`
	Overall  int    `json:"overall" binding:"required"`
	Review   string `json:"review,omitempty"`
}

func (r RateBookingRequest) ToCommand() commands.RateBookingRequest {
	return commands.RateBookingRequest{
		Food:     r.Food,
		Service:  r.Service,
		Ambiance: r.Ambiance,
		Overall:  r.Overall,
		Review:   strings.TrimSpace(r.Review),
	}
}
