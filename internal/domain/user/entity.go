package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Guests and staff both authenticate upstream; the core only
// consumes the resolved identity plus the loyalty/tier facts it owns.
type User struct {
	id            uuid.UUID
	email         Email
	role          Role
	tier          MembershipTier
	loyaltyPoints int64
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewUser(email Email, role Role, tier MembershipTier) *User {
	return &User{
		id:       uuid.New(),
		email:    email,
		role:     role,
		tier:     tier,
		isActive: true,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	role Role,
	tier MembershipTier,
	loyaltyPoints int64,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:            id,
		email:         email,
		role:          role,
		tier:          tier,
		loyaltyPoints: loyaltyPoints,
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) Role() Role           { return u.role }
func (u *User) Tier() MembershipTier { return u.tier }
func (u *User) LoyaltyPoints() int64 { return u.loyaltyPoints }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
