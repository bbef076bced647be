package response

import (
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	BranchID  uuid.UUID                 `json:"branchId"`
	Date      string                    `json:"date"`
	Start     string                    `json:"start"`
	End       string                    `json:"end"`
	PartySize int                       `json:"partySize"`
	Tables    []*AvailableTableResponse `json:"tables"`
	Reason    *string                   `json:"reason,omitempty"`
}

type AvailableTableResponse struct {
	ID              uuid.UUID `json:"id"`
	Number          int       `json:"number"`
	Seats           int       `json:"seats"`
	Theme           string    `json:"theme"`
	PriceMultiplier float64   `json:"priceMultiplier"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	tables := make([]*AvailableTableResponse, len(v.Tables))
	for i, t := range v.Tables {
		tables[i] = &AvailableTableResponse{
			ID:              t.ID,
			Number:          t.Number,
			Seats:           t.Seats,
			Theme:           t.Theme,
			PriceMultiplier: t.PriceMultiplier,
		}
	}
	return &AvailabilityResponse{
		BranchID:  v.BranchID,
		Date:      v.Date,
		Start:     v.Start,
		End:       v.End,
		PartySize: v.PartySize,
		Tables:    tables,
		Reason:    v.Reason,
	}
}
