package repository

import (
	"context"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

// OfferRepository records redemptions. Both counters are bumped by
// guarded statements, so two transactions applying the same offer at
// once cannot push used_count past the global cap: the loser sees zero
// rows and the enclosing transaction rolls its booking back.
type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

func (r *OfferRepository) RecordUse(ctx context.Context, tx db.DBTX, offerID, userID uuid.UUID, orderCents int64, at time.Time) (int64, error) {
	const qGlobal = `
		UPDATE offers
		SET used_count = used_count + 1,
		    revenue_cents = revenue_cents + $2,
		    updated_at = now()
		WHERE id = $1
		  AND is_active
		  AND (global_cap IS NULL OR used_count < global_cap)`

	tag, err := tx.Exec(ctx, qGlobal, offerID, orderCents)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record offer use", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, nil
	}

	return r.bumpUserUse(ctx, tx, offerID, userID, at)
}

// bumpUserUse increments the per-user counter under the per-user cap.
// The guarded UPDATE misses when no row exists yet, so a first use
// falls through to an insert; losing the insert race means another
// transaction just created the row, and one more guarded UPDATE settles it.
func (r *OfferRepository) bumpUserUse(ctx context.Context, tx db.DBTX, offerID, userID uuid.UUID, at time.Time) (int64, error) {
	const qBump = `
		UPDATE offer_usages u
		SET use_count = u.use_count + 1, last_used_at = $3
		FROM offers o
		WHERE u.offer_id = $1 AND u.user_id = $2 AND o.id = u.offer_id
		  AND (o.per_user_cap IS NULL OR u.use_count < o.per_user_cap)`

	const qFirst = `
		INSERT INTO offer_usages (offer_id, user_id, use_count, last_used_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (offer_id, user_id) DO NOTHING`

	tag, err := tx.Exec(ctx, qBump, offerID, userID, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record per-user offer use", err)
	}
	if tag.RowsAffected() == 1 {
		return 1, nil
	}

	tag, err = tx.Exec(ctx, qFirst, offerID, userID, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record first offer use", err)
	}
	if tag.RowsAffected() == 1 {
		return 1, nil
	}

	tag, err = tx.Exec(ctx, qBump, offerID, userID, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record per-user offer use", err)
	}

	return tag.RowsAffected(), nil
}
