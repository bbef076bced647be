package user

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

type MembershipTier string

const (
	TierRegular  MembershipTier = "regular"
	TierSilver   MembershipTier = "silver"
	TierGold     MembershipTier = "gold"
	TierPlatinum MembershipTier = "platinum"
)

func (t MembershipTier) String() string {
	return string(t)
}

func (t MembershipTier) IsValid() bool {
	switch t {
	case TierRegular, TierSilver, TierGold, TierPlatinum:
		return true
	default:
		return false
	}
}

func NewMembershipTier(s string) (MembershipTier, error) {
	tier := MembershipTier(s)
	if !tier.IsValid() {
		return "", ErrInvalidTier
	}
	return tier, nil
}
