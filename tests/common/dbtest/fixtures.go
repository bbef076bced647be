//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()
	return CreateTestUserWithTier(t, db, email, role, "regular")
}

func CreateTestUserWithTier(t *testing.T, db DBLike, email, role, tier string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, role, tier, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, role, tier)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

// CreateTestBranch inserts a branch open 10:00-23:00 every day with a
// 24h free-cancellation policy and a 500-cent late fee. Branch and table
// reference data has no admin API, so tests seed it directly.
func CreateTestBranch(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	branchID := uuid.New()
	ctx := context.Background()

	const schedule = `[
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380},
		{"is_open": true, "open_min": 600, "close_min": 1380}
	]`

	_, err := db.Exec(ctx, `
		INSERT INTO branches (id, name, timezone, schedule, free_cancel_hours, cancel_fee_cents,
		                      min_advance_min, max_advance_days, max_party_size, is_active)
		VALUES ($1, $2, 'UTC', $3::jsonb, 24, 500, 60, 90, 12, true)`,
		branchID, name, schedule)
	require.NoError(t, err)

	return branchID
}

func CreateTestTable(t *testing.T, db DBLike, branchID uuid.UUID, number, seats int, theme string) uuid.UUID {
	t.Helper()

	tableID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO tables (id, branch_id, number, seats, theme, price_multiplier, is_active, is_available)
		VALUES ($1, $2, $3, $4, $5, 1.0, true, true)`,
		tableID, branchID, number, seats, theme)
	require.NoError(t, err)

	return tableID
}

// CreateTestOffer inserts a percentage offer with no weekday or window
// restriction, valid from a month ago until a year from now.
func CreateTestOffer(t *testing.T, db DBLike, branchID uuid.UUID, code string, percent int64, maxDiscountCents *int64) uuid.UUID {
	t.Helper()

	offerID := uuid.New()
	ctx := context.Background()

	startDate := time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	endDate := time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	_, err := db.Exec(ctx, `
		INSERT INTO offers (id, branch_id, code, title, type, discount_value, max_discount_cents,
		                    min_order_cents, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, 'percentage', $5, $6, 0, $7, $8, true)`,
		offerID, branchID, code, code+" promotion", percent, maxDiscountCents, startDate, endDate)
	require.NoError(t, err)

	return offerID
}

// CreateTestBooking inserts a booking row directly, bypassing the API.
// Useful for backdated bookings the create endpoint would reject.
func CreateTestBooking(t *testing.T, db DBLike, userID, branchID, tableID uuid.UUID, date time.Time, startMin, endMin int, status string, totalCents int64) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, reference, user_id, branch_id, table_id, booking_date,
		                      start_min, end_min, party_size, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 2, $9, $10)`,
		bookingID, "BK-TEST-"+bookingID.String()[:8], userID, branchID, tableID,
		date, startMin, endMin, status, totalCents)
	require.NoError(t, err)

	return bookingID
}

// SeedReferenceData exists for parity with ResetDB; every suite seeds
// its own branches and users, so there is nothing global to insert.
func SeedReferenceData(_ *pgxpool.Pool) error {
	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
