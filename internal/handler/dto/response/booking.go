package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID             `json:"id"`
	Reference       string                `json:"reference"`
	UserID          uuid.UUID             `json:"userId"`
	UserEmail       string                `json:"userEmail"`
	BranchID        uuid.UUID             `json:"branchId"`
	BranchName      string                `json:"branchName"`
	TableID         uuid.UUID             `json:"tableId"`
	TableNumber     int                   `json:"tableNumber"`
	TableTheme      string                `json:"tableTheme"`
	Date            string                `json:"date"`
	Start           string                `json:"start"`
	End             string                `json:"end"`
	PartySize       int                   `json:"partySize"`
	Status          string                `json:"status"`
	Items           []BookingItemResponse `json:"items,omitempty"`
	TotalCents      int64                 `json:"totalCents"`
	DiscountCents   int64                 `json:"discountCents"`
	OfferCode       *string               `json:"offerCode,omitempty"`
	SpecialRequests *string               `json:"specialRequests,omitempty"`
	PaymentID       *uuid.UUID            `json:"paymentId,omitempty"`
	PaymentStatus   *string               `json:"paymentStatus,omitempty"`
	CheckedInAt     *time.Time            `json:"checkedInAt,omitempty"`
	Rating          *RatingResponse       `json:"rating,omitempty"`
	Cancellation    *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type BookingItemResponse struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type RatingResponse struct {
	Food     int    `json:"food"`
	Service  int    `json:"service"`
	Ambiance int    `json:"ambiance"`
	Overall  int    `json:"overall"`
	Review   string `json:"review,omitempty"`
}

type CancellationResponse struct {
	Actor       string    `json:"actor"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
	RefundCents int64     `json:"refundCents"`
}

type BookingListItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Reference   string    `json:"reference"`
	BranchName  string    `json:"branchName"`
	TableNumber int       `json:"tableNumber"`
	Date        string    `json:"date"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	PartySize   int       `json:"partySize"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"totalCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CancelBookingResponse struct {
	RefundAmountCents int64 `json:"refundAmountCents"`
	RefundTriggered   bool  `json:"refundTriggered"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{
		ID:              v.ID,
		Reference:       v.Reference,
		UserID:          v.UserID,
		UserEmail:       v.UserEmail,
		BranchID:        v.BranchID,
		BranchName:      v.BranchName,
		TableID:         v.TableID,
		TableNumber:     v.TableNumber,
		TableTheme:      v.TableTheme,
		Date:            v.Date,
		Start:           v.Start,
		End:             v.End,
		PartySize:       v.PartySize,
		Status:          v.Status,
		TotalCents:      v.TotalCents,
		DiscountCents:   v.DiscountCents,
		OfferCode:       v.OfferCode,
		SpecialRequests: v.SpecialRequests,
		PaymentID:       v.PaymentID,
		PaymentStatus:   v.PaymentStatus,
		CheckedInAt:     v.CheckedInAt,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if len(v.Items) > 0 {
		resp.Items = make([]BookingItemResponse, len(v.Items))
		for i, it := range v.Items {
			resp.Items[i] = BookingItemResponse{
				Name:           it.Name,
				Quantity:       it.Quantity,
				UnitPriceCents: it.UnitPriceCents,
			}
		}
	}
	if v.Rating != nil {
		resp.Rating = &RatingResponse{
			Food:     v.Rating.Food,
			Service:  v.Rating.Service,
			Ambiance: v.Rating.Ambiance,
			Overall:  v.Rating.Overall,
			Review:   v.Rating.Review,
		}
	}
	if v.Cancellation != nil {
		resp.Cancellation = &CancellationResponse{
			Actor:       v.Cancellation.Actor,
			Reason:      v.Cancellation.Reason,
			At:          v.Cancellation.At,
			RefundCents: v.Cancellation.RefundCents,
		}
	}
	return resp
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListItemResponse {
	return &BookingListItemResponse{
		ID:          item.ID,
		Reference:   item.Reference,
		BranchName:  item.BranchName,
		TableNumber: item.TableNumber,
		Date:        item.Date,
		Start:       item.Start,
		End:         item.End,
		PartySize:   item.PartySize,
		Status:      item.Status,
		TotalCents:  item.TotalCents,
		CreatedAt:   item.CreatedAt,
	}
}

func FromBookingList(items []*queries.BookingListItem) []*BookingListItemResponse {
	out := make([]*BookingListItemResponse, len(items))
	for i, item := range items {
		out[i] = FromBookingListItem(item)
	}
	return out
}
