package queries

import (
	"context"

	"github.com/google/uuid"

	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/errs"
)

var (
	ErrPaymentNotFound = errs.New("payment not found")
	ErrPaymentAccess   = errs.New("payment access denied")
)

type PaymentQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*PaymentView, error)
	// GetByIDSystem skips the ownership check; for internal read-after-write
	// only.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	GetByBookingID(ctx context.Context, actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*PaymentView, error) {
	pv, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if actorRole != user.RoleAdmin.String() && pv.UserID != actorID {
		return nil, ErrPaymentAccess
	}
	return pv, nil
}

func (q *paymentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	pv, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return pv, nil
}

func (q *paymentQueriesImpl) GetByBookingID(ctx context.Context, actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*PaymentView, error) {
	pv, err := q.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if actorRole != user.RoleAdmin.String() && pv.UserID != actorID {
		return nil, ErrPaymentAccess
	}
	return pv, nil
}
