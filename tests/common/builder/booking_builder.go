//go:build unit || e2e

package builder

import (
	"fmt"
	"time"

	"tablebook/internal/domain/booking"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/ids"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingBuilder drives the booking factory with a controllable branch,
// table, and clock. Defaults describe a Monday dinner a week from "now".
type BookingBuilder struct {
	Branch          *BranchBuilder
	Table           *TableBuilder
	UserID          uuid.UUID
	UserEmail       string
	Date            time.Time
	StartMin        int
	EndMin          int
	PartySize       int
	Items           []booking.PreOrderItem
	DiscountCents   int64
	OfferID         *uuid.UUID
	OfferCode       *string
	SpecialRequests string
	Status          string
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	br := NewBranchBuilder()
	return &BookingBuilder{
		Branch:    br,
		Table:     NewTableBuilder(br.ID),
		UserID:    uuid.New(),
		UserEmail: "diner@example.com",
		Date:      time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), // Monday
		StartMin:  18 * 60,
		EndMin:    20 * 60,
		PartySize: 3,
		Status:    booking.StatusPending.String(),
		Now:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	branchEntity, err := b.Branch.BuildDomain()
	if err != nil {
		return nil, err
	}
	tableEntity, err := b.Table.BuildDomain()
	if err != nil {
		return nil, err
	}
	slot, err := b.BuildSlot()
	if err != nil {
		return nil, err
	}

	factory := booking.NewFactory(clock.NewMockClock(b.Now), ids.NewGenerator())
	return factory.CreateBooking(
		branchEntity,
		tableEntity,
		b.UserID,
		slot,
		b.PartySize,
		b.Items,
		booking.NewMoney(b.DiscountCents),
		b.OfferID,
		booking.NewSpecialRequests(b.SpecialRequests),
	)
}

func (b *BookingBuilder) BuildSlot() (booking.Slot, error) {
	start, err := booking.NewTimeOfDay(b.StartMin)
	if err != nil {
		return booking.Slot{}, err
	}
	end, err := booking.NewTimeOfDay(b.EndMin)
	if err != nil {
		return booking.Slot{}, err
	}
	return booking.NewSlot(b.Date, start, end)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	items := make([]reqdto.PreOrderItemInput, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, reqdto.PreOrderItemInput{
			Name:           it.Name,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	var special *string
	if b.SpecialRequests != "" {
		special = &b.SpecialRequests
	}
	return reqdto.CreateBookingRequest{
		BranchID:        b.Branch.ID,
		TableID:         b.Table.ID,
		Date:            b.Date.Format("2006-01-02"),
		Start:           clockString(b.StartMin),
		End:             clockString(b.EndMin),
		PartySize:       b.PartySize,
		Items:           items,
		OfferCode:       b.OfferCode,
		SpecialRequests: special,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	items := make([]queries.BookingItemView, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, queries.BookingItemView{
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	var special *string
	if b.SpecialRequests != "" {
		special = &b.SpecialRequests
	}
	total := booking.ItemsTotal(b.Items, b.Table.PriceMultiplier).Sub(booking.NewMoney(b.DiscountCents))
	return &queries.BookingView{
		ID:              uuid.New(),
		Reference:       "BK-20250317-TEST01",
		UserID:          b.UserID,
		UserEmail:       b.UserEmail,
		BranchID:        b.Branch.ID,
		BranchName:      b.Branch.Name,
		TableID:         b.Table.ID,
		TableNumber:     b.Table.Number,
		TableTheme:      b.Table.Theme,
		Date:            b.Date.Format("2006-01-02"),
		Start:           clockString(b.StartMin),
		End:             clockString(b.EndMin),
		PartySize:       b.PartySize,
		Status:          b.Status,
		Items:           items,
		TotalCents:      total.Cents(),
		DiscountCents:   b.DiscountCents,
		OfferCode:       b.OfferCode,
		SpecialRequests: special,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	total := booking.ItemsTotal(b.Items, b.Table.PriceMultiplier).Sub(booking.NewMoney(b.DiscountCents))
	return &queries.BookingListItem{
		ID:          uuid.New(),
		Reference:   "BK-20250317-TEST01",
		BranchName:  b.Branch.Name,
		TableNumber: b.Table.Number,
		Date:        b.Date.Format("2006-01-02"),
		Start:       clockString(b.StartMin),
		End:         clockString(b.EndMin),
		PartySize:   b.PartySize,
		Status:      b.Status,
		TotalCents:  total.Cents(),
		CreatedAt:   b.Now,
	}
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (b *BookingBuilder) WithSlot(startMin, endMin int) *BookingBuilder {
	b.StartMin = startMin
	b.EndMin = endMin
	return b
}

func (b *BookingBuilder) WithDate(date time.Time) *BookingBuilder {
	b.Date = date
	return b
}

func (b *BookingBuilder) WithPartySize(size int) *BookingBuilder {
	b.PartySize = size
	return b
}

func (b *BookingBuilder) WithItems(items ...booking.PreOrderItem) *BookingBuilder {
	b.Items = items
	return b
}

func (b *BookingBuilder) WithDiscount(cents int64, offerID uuid.UUID) *BookingBuilder {
	b.DiscountCents = cents
	b.OfferID = &offerID
	return b
}

func (b *BookingBuilder) WithSpecialRequests(s string) *BookingBuilder {
	b.SpecialRequests = s
	return b
}

func (b *BookingBuilder) WithOfferCode(code string) *BookingBuilder {
	b.OfferCode = &code
	return b
}

func (b *BookingBuilder) WithUserID(userID uuid.UUID) *BookingBuilder {
	b.UserID = userID
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.Now = now
	return b
}
