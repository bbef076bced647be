package repository

import (
	"context"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"

	"github.com/google/uuid"
)

// IdempotencyRepository claims request keys inside the caller's
// transaction. TryInsert reports one row when the caller now owns the
// key; zero means a prior request holds it and the stored record
// decides between replay and rejection.
type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO idempotency_keys (key, user_id, endpoint, status, request_hash, expires_at)
		VALUES ($1, $2, $3, 'processing', $4, $5)
		ON CONFLICT (key, user_id) DO NOTHING`

	tag, err := tx.Exec(ctx, q, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to insert idempotency key", err)
	}

	return tag.RowsAffected(), nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error {
	const q = `
		UPDATE idempotency_keys
		SET status = 'completed',
		    response_body_hash = $3,
		    result_booking_id = $4,
		    updated_at = now()
		WHERE key = $1 AND user_id = $2`

	_, err := tx.Exec(ctx, q, key, userID, resultHash, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}

	return nil
}

// ClaimExpired re-owns a key whose previous request died mid-flight.
// The guard re-checks expiry so only one of two racing claimants wins.
func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	const q = `
		UPDATE idempotency_keys
		SET request_hash = $3,
		    expires_at = $4,
		    updated_at = now()
		WHERE key = $1 AND user_id = $2 AND status = 'processing' AND expires_at <= now()`

	tag, err := tx.Exec(ctx, q, key, userID, requestHash, expiresAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}

	return tag.RowsAffected(), nil
}
