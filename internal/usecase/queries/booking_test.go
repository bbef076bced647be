//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/usecase/queries"
	queriesmock "tablebook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDBConnectionLost = errors.New("database connection lost")

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows, infra.KindNotFound)
}

func dbFailureErr(msg string) error {
	return infra.WrapRepoErr(msg, errDBConnectionLost)
}

func bookingView(id, userID uuid.UUID) *queries.BookingView {
	return &queries.BookingView{
		ID:          id,
		Reference:   "BK-20260918-X4K2QN",
		UserID:      userID,
		UserEmail:   "guest@example.com",
		BranchID:    uuid.New(),
		BranchName:  "Riverside",
		TableID:     uuid.New(),
		TableNumber: 7,
		TableTheme:  "window",
		Date:        "2026-09-18",
		Start:       "18:00",
		End:         "20:00",
		PartySize:   2,
		Status:      "confirmed",
		TotalCents:  9000,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func listItems(n int, newest time.Time) []*queries.BookingListItem {
	items := make([]*queries.BookingListItem, n)
	for i := range items {
		items[i] = &queries.BookingListItem{
			ID:          uuid.New(),
			Reference:   "BK-20260918-X4K2QN",
			BranchName:  "Riverside",
			TableNumber: 7,
			Date:        "2026-09-18",
			Start:       "18:00",
			End:         "20:00",
			PartySize:   2,
			Status:      "confirmed",
			TotalCents:  9000,
			CreatedAt:   newest.Add(-time.Duration(i) * time.Minute),
		}
	}
	return items
}

// =============================================================================
// GetByID Tests
// =============================================================================

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New()
	actorID := uuid.New()

	testCases := []struct {
		name        string
		actorRole   string
		setupMock   func(repo *queriesmock.MockBookingViewRepo)
		expectedErr error
		expectKind  infra.RepositoryErrorKind
	}{
		{
			name:      "success: owner reads own booking",
			actorRole: user.RoleUser.String(),
			setupMock: func(repo *queriesmock.MockBookingViewRepo) {
				repo.EXPECT().FindByID(ctx, bookingID).Return(bookingView(bookingID, actorID), nil)
			},
		},
		{
			name:      "success: admin reads another user's booking",
			actorRole: user.RoleAdmin.String(),
			setupMock: func(repo *queriesmock.MockBookingViewRepo) {
				repo.EXPECT().FindByID(ctx, bookingID).Return(bookingView(bookingID, uuid.New()), nil)
			},
		},
		{
			name:      "error: booking not found",
			actorRole: user.RoleUser.String(),
			setupMock: func(repo *queriesmock.MockBookingViewRepo) {
				repo.EXPECT().FindByID(ctx, bookingID).Return(nil, notFoundErr("booking not found"))
			},
			expectedErr: queries.ErrBookingNotFound,
		},
		{
			name:      "error: not the owner",
			actorRole: user.RoleUser.String(),
			setupMock: func(repo *queriesmock.MockBookingViewRepo) {
				repo.EXPECT().FindByID(ctx, bookingID).Return(bookingView(bookingID, uuid.New()), nil)
			},
			expectedErr: queries.ErrBookingAccess,
		},
		{
			name:      "error: database failure passes through",
			actorRole: user.RoleUser.String(),
			setupMock: func(repo *queriesmock.MockBookingViewRepo) {
				repo.EXPECT().FindByID(ctx, bookingID).Return(nil, dbFailureErr("failed to find booking by ID"))
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := queriesmock.NewMockBookingViewRepo(ctrl)
			tc.setupMock(repo)
			q := queries.NewBookingQueries(repo)

			view, err := q.GetByID(ctx, actorID, tc.actorRole, bookingID)

			switch {
			case tc.expectedErr != nil:
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, view)
			case tc.expectKind != "":
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, err, err)
				assert.Nil(t, view)
			default:
				require.NoError(t, err)
				require.NotNil(t, view)
				assert.Equal(t, bookingID, view.ID)
			}
		})
	}
}

func TestBookingQueries_GetByIDSystem(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New()

	t.Run("success: ownership is not checked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().FindByID(ctx, bookingID).Return(bookingView(bookingID, uuid.New()), nil)
		q := queries.NewBookingQueries(repo)

		view, err := q.GetByIDSystem(ctx, bookingID)

		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, bookingID, view.ID)
	})

	t.Run("error: booking not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().FindByID(ctx, bookingID).Return(nil, notFoundErr("booking not found"))
		q := queries.NewBookingQueries(repo)

		view, err := q.GetByIDSystem(ctx, bookingID)

		require.ErrorIs(t, err, queries.ErrBookingNotFound)
		assert.Nil(t, view)
	})
}

// =============================================================================
// ListByUser Tests
// =============================================================================

func TestBookingQueries_ListByUser_Authorization(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	testCases := []struct {
		name        string
		actorID     uuid.UUID
		actorRole   string
		repoCalled  bool
		expectedErr error
	}{
		{
			name:       "success: user lists own bookings",
			actorID:    ownerID,
			actorRole:  user.RoleUser.String(),
			repoCalled: true,
		},
		{
			name:        "error: user lists someone else's bookings",
			actorID:     uuid.New(),
			actorRole:   user.RoleUser.String(),
			expectedErr: queries.ErrBookingAccess,
		},
		{
			name:       "success: admin lists any user's bookings",
			actorID:    uuid.New(),
			actorRole:  user.RoleAdmin.String(),
			repoCalled: true,
		},
		{
			name:        "error: unknown role",
			actorID:     ownerID,
			actorRole:   "superuser",
			expectedErr: queries.ErrBookingAccess,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := queriesmock.NewMockBookingViewRepo(ctrl)
			if tc.repoCalled {
				repo.EXPECT().
					FindByUserFirstPage(ctx, ownerID, int32(21)).
					Return(listItems(2, time.Now()), nil)
			}
			q := queries.NewBookingQueries(repo)

			rows, next, err := q.ListByUser(ctx, ownerID, tc.actorID, tc.actorRole, nil, 20)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, rows)
				assert.Nil(t, next)
			} else {
				require.NoError(t, err)
				assert.Len(t, rows, 2)
				assert.Nil(t, next)
			}
		})
	}
}

func TestBookingQueries_ListByUser_Pagination(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	role := user.RoleUser.String()

	t.Run("first page full: next cursor points at the last returned row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// limit+1 rows back from the repo means another page exists.
		items := listItems(3, time.UnixMicro(1789000000000000))
		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().FindByUserFirstPage(ctx, ownerID, int32(3)).Return(items, nil)
		q := queries.NewBookingQueries(repo)

		rows, next, err := q.ListByUser(ctx, ownerID, ownerID, role, nil, 2)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, items[0].ID, rows[0].ID)
		assert.Equal(t, items[1].ID, rows[1].ID)
		require.NotNil(t, next)
		assert.Equal(t, queries.EncodeAfterCursor(items[1].CreatedAt, items[1].ID), next.After)
	})

	t.Run("keyset page: cursor decodes into the repo call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		lastCreatedAt := time.UnixMicro(1789000000123456)
		lastID := uuid.New()
		after := queries.EncodeAfterCursor(lastCreatedAt, lastID)

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().
			FindByUserKeyset(ctx, ownerID, lastCreatedAt, lastID, int32(21)).
			Return(listItems(1, lastCreatedAt.Add(-time.Hour)), nil)
		q := queries.NewBookingQueries(repo)

		rows, next, err := q.ListByUser(ctx, ownerID, ownerID, role, &queries.Cursor{After: after}, 20)

		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Nil(t, next)
	})

	t.Run("error: malformed cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		q := queries.NewBookingQueries(repo)

		rows, next, err := q.ListByUser(ctx, ownerID, ownerID, role, &queries.Cursor{After: "@@not-a-cursor@@"}, 20)

		require.ErrorIs(t, err, queries.ErrInvalidCursor)
		assert.Nil(t, rows)
		assert.Nil(t, next)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().FindByUserFirstPage(ctx, ownerID, int32(21)).Return(nil, nil)
		q := queries.NewBookingQueries(repo)

		rows, next, err := q.ListByUser(ctx, ownerID, ownerID, role, nil, 0)

		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Nil(t, next)
	})

	t.Run("oversized limit clamps to the maximum", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().
			FindByUserFirstPage(ctx, ownerID, int32(queries.MaxListLimit+1)).
			Return(nil, nil)
		q := queries.NewBookingQueries(repo)

		_, _, err := q.ListByUser(ctx, ownerID, ownerID, role, nil, 100000)

		require.NoError(t, err)
	})

	t.Run("error: database failure passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := queriesmock.NewMockBookingViewRepo(ctrl)
		repo.EXPECT().FindByUserFirstPage(ctx, ownerID, int32(21)).Return(nil, dbFailureErr("failed to find bookings first page"))
		q := queries.NewBookingQueries(repo)

		rows, next, err := q.ListByUser(ctx, ownerID, ownerID, role, nil, 20)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.Nil(t, rows)
		assert.Nil(t, next)
	})
}
