package response

import (
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Tier          string    `json:"tier"`
	LoyaltyPoints int64     `json:"loyaltyPoints"`
	IsActive      bool      `json:"isActive"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:            v.ID,
		Email:         v.Email,
		Role:          v.Role,
		Tier:          v.Tier,
		LoyaltyPoints: v.LoyaltyPoints,
		IsActive:      v.IsActive,
	}
}
