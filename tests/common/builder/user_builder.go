//go:build unit || e2e

package builder

import (
	"tablebook/internal/domain/user"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID            uuid.UUID
	Email         string
	Role          string
	Tier          string
	LoyaltyPoints int64
	IsActive      bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Role:     "user",
		Tier:     "regular",
		IsActive: true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}
	tier, err := user.NewMembershipTier(u.Tier)
	if err != nil {
		return nil, err
	}
	return user.NewUser(email, role, tier), nil
}

func (u *UserBuilder) BuildAuthorizedView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Tier:          u.Tier,
		LoyaltyPoints: u.LoyaltyPoints,
		IsActive:      u.IsActive,
	}
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithTier(tier string) *UserBuilder {
	u.Tier = tier
	return u
}

func (u *UserBuilder) WithLoyaltyPoints(points int64) *UserBuilder {
	u.LoyaltyPoints = points
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
