//go:build unit

package queries_test

import (
	"context"
	"testing"

	"tablebook/internal/infra"
	"tablebook/internal/usecase/queries"
	queriesmock "tablebook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserQueries_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	testCases := []struct {
		name        string
		setupMock   func(store *queriesmock.MockUserReadStore)
		expectedErr error
		expectKind  infra.RepositoryErrorKind
	}{
		{
			name: "success: active user is returned",
			setupMock: func(store *queriesmock.MockUserReadStore) {
				store.EXPECT().FindByID(ctx, userID).Return(&queries.AuthorizedUserView{
					ID:            userID,
					Email:         "guest@example.com",
					Role:          "user",
					Tier:          "gold",
					LoyaltyPoints: 1200,
					IsActive:      true,
				}, nil)
			},
		},
		{
			name: "error: user not found",
			setupMock: func(store *queriesmock.MockUserReadStore) {
				store.EXPECT().FindByID(ctx, userID).Return(nil, notFoundErr("user not found"))
			},
			expectedErr: queries.ErrUserNotFound,
		},
		{
			name: "error: deactivated user is rejected",
			setupMock: func(store *queriesmock.MockUserReadStore) {
				store.EXPECT().FindByID(ctx, userID).Return(&queries.AuthorizedUserView{
					ID:       userID,
					Email:    "guest@example.com",
					Role:     "user",
					Tier:     "regular",
					IsActive: false,
				}, nil)
			},
			expectedErr: queries.ErrUserInactive,
		},
		{
			name: "error: database failure passes through",
			setupMock: func(store *queriesmock.MockUserReadStore) {
				store.EXPECT().FindByID(ctx, userID).Return(nil, dbFailureErr("failed to find user by ID"))
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := queriesmock.NewMockUserReadStore(ctrl)
			tc.setupMock(store)
			q := queries.NewUserQueries(store)

			view, err := q.GetCurrentUser(ctx, userID)

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
				assert.Equal(t, userID, view.ID)
				assert.True(t, view.IsActive)
			}
		})
	}
}
