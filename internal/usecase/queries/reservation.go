package queries

import (
	"context"

	"fio-market/internal/infra"
	"fio-market/internal/pkg/errs"
	"fio-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.Mark(errs.New("Reservation not found"), shared.ErrNotFound)

type ReservationViewReader interface {
	DetailsByID(ctx context.Context, id int64) (*ReservationWithDetails, error)
	ListByParty(ctx context.Context, userID uuid.UUID) ([]*ReservationWithDetails, error)
}

type ReservationQueries interface {
	GetReservation(ctx context.Context, actor shared.Identity, id int64) (*ReservationWithDetails, error)
	ListMyReservations(ctx context.Context, actor shared.Identity) ([]*ReservationWithDetails, error)
}

type reservationQueriesImpl struct {
	views ReservationViewReader
}

func NewReservationQueries(views ReservationViewReader) ReservationQueries {
	return &reservationQueriesImpl{views: views}
}

// GetReservation is party scoped: outsiders get the same not-found answer as
// for an id that never existed.
func (q *reservationQueriesImpl) GetReservation(ctx context.Context, actor shared.Identity, id int64) (*ReservationWithDetails, error) {
	d, err := q.views.DetailsByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to load reservation details"), shared.ErrInternal)
	}

	if d.OwnerID != actor.UserID && d.CounterpartyUserID != actor.UserID {
		return nil, ErrReservationNotFound
	}
	return d, nil
}

func (q *reservationQueriesImpl) ListMyReservations(ctx context.Context, actor shared.Identity) ([]*ReservationWithDetails, error) {
	list, err := q.views.ListByParty(ctx, actor.UserID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list reservations"), shared.ErrInternal)
	}
	if list == nil {
		list = []*ReservationWithDetails{}
	}
	return list, nil
}
