package repository

import (
	"context"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) AddLoyaltyPoints(ctx context.Context, tx db.DBTX, userID uuid.UUID, points int64) error {
	const q = `
		UPDATE users
		SET loyalty_points = loyalty_points + $2, updated_at = now()
		WHERE id = $1`

	_, err := tx.Exec(ctx, q, userID, points)
	if err != nil {
		return infra.WrapRepoErr("failed to add loyalty points", err)
	}

	return nil
}
