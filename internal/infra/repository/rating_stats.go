package repository

import (
	"context"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

// RatingStatsRepository maintains the denormalized rating columns on
// branches. Recalculation runs in the same transaction as the rating
// write, so readers never observe a rating without its aggregate.
type RatingStatsRepository struct{}

func NewRatingStatsRepository() *RatingStatsRepository {
	return &RatingStatsRepository{}
}

func (r *RatingStatsRepository) RecalcBranchRatingStats(ctx context.Context, tx db.DBTX, branchID uuid.UUID) error {
	const q = `
		UPDATE branches b
		SET rating_count = agg.cnt,
		    rating_food = agg.food,
		    rating_service = agg.service,
		    rating_ambiance = agg.ambiance,
		    rating_overall = agg.overall,
		    updated_at = now()
		FROM (
			SELECT
				COUNT(*) AS cnt,
				COALESCE(ROUND(AVG((rating->>'food')::numeric), 2), 0) AS food,
				COALESCE(ROUND(AVG((rating->>'service')::numeric), 2), 0) AS service,
				COALESCE(ROUND(AVG((rating->>'ambiance')::numeric), 2), 0) AS ambiance,
				COALESCE(ROUND(AVG((rating->>'overall')::numeric), 2), 0) AS overall
			FROM bookings
			WHERE branch_id = $1 AND rating IS NOT NULL
		) agg
		WHERE b.id = $1`

	_, err := tx.Exec(ctx, q, branchID)
	if err != nil {
		return infra.WrapRepoErr("failed to recalculate branch rating stats", err)
	}

	return nil
}
