package readstore

import (
	"context"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityReadStore struct {
	db db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{db: dbtx}
}

func (s *AvailabilityReadStore) BranchByID(ctx context.Context, id uuid.UUID) (*shared.BranchSnapshot, error) {
	return branchSnapshotByID(ctx, s.db, id)
}

func (s *AvailabilityReadStore) Candidates(ctx context.Context, branchID uuid.UUID, partySize int, theme *string) ([]*queries.AvailableTableView, error) {
	const q = `
		SELECT id, number, seats, theme, price_multiplier
		FROM tables
		WHERE branch_id = $1
		  AND is_active
		  AND is_available
		  AND seats >= $2
		  AND ($3::text IS NULL OR theme = $3)
		ORDER BY theme, seats, number`

	rows, err := s.db.Query(ctx, q, branchID, partySize, pgconv.StringPtrToPgtype(theme))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find candidate tables", err)
	}
	defer rows.Close()

	result := make([]*queries.AvailableTableView, 0)
	for rows.Next() {
		var t queries.AvailableTableView
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats, &t.Theme, &t.PriceMultiplier); err != nil {
			return nil, infra.WrapRepoErr("failed to scan candidate table", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read candidate tables", err)
	}

	return result, nil
}

func (s *AvailabilityReadStore) HeldSlots(ctx context.Context, tableID uuid.UUID, date time.Time, excludeBookingID *uuid.UUID) ([]shared.HeldSlot, error) {
	return heldSlots(ctx, s.db, tableID, date, excludeBookingID)
}
