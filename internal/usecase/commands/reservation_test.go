//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fio-market/internal/domain/market"
	"fio-market/internal/domain/reservation"
	"fio-market/internal/infra"
	"fio-market/internal/pkg/clock"
	"fio-market/internal/usecase/commands"
	"fio-market/internal/usecase/queries"
	"fio-market/internal/usecase/shared"
	"fio-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderReader struct {
	sellOrders map[int64]*market.SellOrder
	buyOrders  map[int64]*market.BuyOrder
}

func (f *fakeOrderReader) SellOrderByID(_ context.Context, id int64) (*market.SellOrder, error) {
	if o, ok := f.sellOrders[id]; ok {
		return o, nil
	}
	return nil, infra.WrapRepoErr("sell order not found", nil, infra.KindNotFound)
}

func (f *fakeOrderReader) BuyOrderByID(_ context.Context, id int64) (*market.BuyOrder, error) {
	if o, ok := f.buyOrders[id]; ok {
		return o, nil
	}
	return nil, infra.WrapRepoErr("buy order not found", nil, infra.KindNotFound)
}

type statusUpdate struct {
	id     int64
	status reservation.Status
	notes  *string
}

type fakeReservationStore struct {
	reservations map[int64]*reservation.Reservation
	nextID       int64
	created      []*reservation.Reservation
	updates      []statusUpdate
	deleted      []int64
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: map[int64]*reservation.Reservation{}, nextID: 1}
}

func (f *fakeReservationStore) FindByID(_ context.Context, id int64) (*reservation.Reservation, error) {
	if r, ok := f.reservations[id]; ok {
		return r, nil
	}
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeReservationStore) Create(_ context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	res.ID = f.nextID
	f.nextID++
	f.reservations[res.ID] = res
	f.created = append(f.created, res)
	return res, nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, id int64, status reservation.Status, notes *string, _ time.Time) error {
	if _, ok := f.reservations[id]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	f.reservations[id].Status = status
	f.updates = append(f.updates, statusUpdate{id: id, status: status, notes: notes})
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.reservations[id]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	delete(f.reservations, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeViewReader struct {
	details *queries.ReservationWithDetails
}

func (f *fakeViewReader) DetailsByID(_ context.Context, id int64) (*queries.ReservationWithDetails, error) {
	d := *f.details
	d.ID = id
	return &d, nil
}

type fakeOracle struct {
	granted map[string]bool
}

func (f *fakeOracle) HasPermission(_ context.Context, _ []string, capability string) bool {
	return f.granted[capability]
}

type fakeDispatcher struct {
	events []reservation.Event
}

func (f *fakeDispatcher) Dispatch(_ context.Context, ev reservation.Event) {
	f.events = append(f.events, ev)
}

type reservationFixture struct {
	owner        uuid.UUID
	counterparty uuid.UUID
	orders       *fakeOrderReader
	store        *fakeReservationStore
	oracle       *fakeOracle
	dispatcher   *fakeDispatcher
	commands     commands.ReservationCommands
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()

	owner := uuid.New()
	counterparty := uuid.New()

	sell, err := builder.NewSellOrderBuilder().
		With(func(b *builder.SellOrderBuilder) { b.OwnerID = owner }).
		BuildDomain()
	require.NoError(t, err)
	sell.ID = 1

	buy, err := builder.NewBuyOrderBuilder().
		With(func(b *builder.BuyOrderBuilder) { b.OwnerID = owner }).
		BuildDomain()
	require.NoError(t, err)
	buy.ID = 2

	f := &reservationFixture{
		owner:        owner,
		counterparty: counterparty,
		orders: &fakeOrderReader{
			sellOrders: map[int64]*market.SellOrder{1: sell},
			buyOrders:  map[int64]*market.BuyOrder{2: buy},
		},
		store:      newFakeReservationStore(),
		oracle:     &fakeOracle{granted: map[string]bool{market.CapabilityViewInternal: true}},
		dispatcher: &fakeDispatcher{},
	}
	f.commands = commands.NewReservationCommands(
		f.orders,
		f.store,
		f.store,
		&fakeViewReader{details: builder.NewReservationBuilder().BuildDetails()},
		f.oracle,
		f.dispatcher,
		clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	)
	return f
}

func (f *reservationFixture) actorCounterparty() shared.Identity {
	return shared.Identity{UserID: f.counterparty, Roles: []string{"member"}}
}

func (f *reservationFixture) actorOwner() shared.Identity {
	return shared.Identity{UserID: f.owner, Roles: []string{"member"}}
}

func (f *reservationFixture) seedReservation(status reservation.Status) *reservation.Reservation {
	res := builder.NewReservationBuilder().
		With(func(b *builder.ReservationBuilder) {
			b.CounterpartyUserID = f.counterparty
			b.Status = status
		}).
		BuildEntity()
	f.store.reservations[res.ID] = res
	return res
}

func createParams(kind reservation.OrderKind, orderID int64) commands.CreateReservationParams {
	return commands.CreateReservationParams{OrderKind: kind, OrderID: orderID, Quantity: 50}
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending reservation and notifies owner", func(t *testing.T) {
		f := newReservationFixture(t)

		details, err := f.commands.CreateReservation(ctx, f.actorCounterparty(), createParams(reservation.OrderKindSell, 1))
		require.NoError(t, err)
		require.NotNil(t, details)

		require.Len(t, f.store.created, 1)
		assert.Equal(t, reservation.StatusPending, f.store.created[0].Status)
		require.Len(t, f.dispatcher.events, 1)
		assert.Equal(t, reservation.EventReservationPlaced, f.dispatcher.events[0].Type)
		assert.Equal(t, f.owner, f.dispatcher.events[0].RecipientUserID)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.commands.CreateReservation(ctx, f.actorCounterparty(), createParams(reservation.OrderKindSell, 99))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Order not found", err.Error())
	})

	t.Run("own sell order", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.commands.CreateReservation(ctx, f.actorOwner(), createParams(reservation.OrderKindSell, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "You cannot create a reservation against your own sell order", err.Error())
	})

	t.Run("own buy order", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.commands.CreateReservation(ctx, f.actorOwner(), createParams(reservation.OrderKindBuy, 2))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "You cannot create a reservation against your own buy order", err.Error())
	})

	t.Run("visibility denied", func(t *testing.T) {
		f := newReservationFixture(t)
		f.oracle.granted = map[string]bool{}

		_, err := f.commands.CreateReservation(ctx, f.actorCounterparty(), createParams(reservation.OrderKindSell, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		f := newReservationFixture(t)

		params := createParams(reservation.OrderKindSell, 1)
		params.Quantity = 0
		_, err := f.commands.CreateReservation(ctx, f.actorCounterparty(), params)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "Reservation quantity must be positive", err.Error())
	})
}

func TestTransitionReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("owner confirms pending and counterparty is notified", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusConfirmed, nil)
		require.NoError(t, err)

		require.Len(t, f.store.updates, 1)
		assert.Equal(t, reservation.StatusConfirmed, f.store.updates[0].status)
		assert.Nil(t, f.store.updates[0].notes)
		require.Len(t, f.dispatcher.events, 1)
		assert.Equal(t, reservation.EventReservationConfirmed, f.dispatcher.events[0].Type)
		assert.Equal(t, f.counterparty, f.dispatcher.events[0].RecipientUserID)
	})

	t.Run("counterparty cannot confirm", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		_, err := f.commands.TransitionReservation(ctx, f.actorCounterparty(), res.ID, reservation.StatusConfirmed, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, "Only the order owner can perform this action", err.Error())
	})

	t.Run("counterparty fulfills confirmed and owner is notified", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusConfirmed)

		_, err := f.commands.TransitionReservation(ctx, f.actorCounterparty(), res.ID, reservation.StatusFulfilled, nil)
		require.NoError(t, err)

		require.Len(t, f.dispatcher.events, 1)
		assert.Equal(t, f.owner, f.dispatcher.events[0].RecipientUserID)
	})

	t.Run("pending cannot be fulfilled", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusFulfilled, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "Cannot transition from 'pending' to 'fulfilled'", err.Error())
	})

	t.Run("counterparty reopens cancelled", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusCancelled)

		_, err := f.commands.TransitionReservation(ctx, f.actorCounterparty(), res.ID, reservation.StatusPending, nil)
		require.NoError(t, err)

		require.Len(t, f.dispatcher.events, 1)
		assert.Equal(t, reservation.EventReservationReopened, f.dispatcher.events[0].Type)
	})

	t.Run("owner cannot reopen cancelled", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusCancelled)

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusPending, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, "Only the reservation counterparty can perform this action", err.Error())
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusRejected)

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusCancelled, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "Cannot transition from 'rejected' to 'cancelled'", err.Error())
	})

	t.Run("disallowed pair is a bad request even for the wrong actor", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusRejected)

		_, err := f.commands.TransitionReservation(ctx, f.actorCounterparty(), res.ID, reservation.StatusConfirmed, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "Cannot transition from 'rejected' to 'confirmed'", err.Error())
	})

	t.Run("outsider cannot act", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		outsider := shared.Identity{UserID: uuid.New(), Roles: []string{"member"}}
		_, err := f.commands.TransitionReservation(ctx, outsider, res.ID, reservation.StatusCancelled, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("notes are forwarded when present", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		notes := "contract signed"
		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusConfirmed, &notes)
		require.NoError(t, err)

		require.Len(t, f.store.updates, 1)
		require.NotNil(t, f.store.updates[0].notes)
		assert.Equal(t, notes, *f.store.updates[0].notes)
	})

	t.Run("empty notes keep the stored notes", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		notes := ""
		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusConfirmed, &notes)
		require.NoError(t, err)

		require.Len(t, f.store.updates, 1)
		assert.Nil(t, f.store.updates[0].notes)
	})

	t.Run("reservation without a parent order", func(t *testing.T) {
		f := newReservationFixture(t)
		res := &reservation.Reservation{
			ID:                 7,
			CounterpartyUserID: f.counterparty,
			Quantity:           50,
			Status:             reservation.StatusPending,
		}
		f.store.reservations[res.ID] = res

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), res.ID, reservation.StatusConfirmed, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Order not found", err.Error())
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newReservationFixture(t)

		_, err := f.commands.TransitionReservation(ctx, f.actorOwner(), 404, reservation.StatusConfirmed, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeleteReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("counterparty deletes pending", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		err := f.commands.DeleteReservation(ctx, f.actorCounterparty(), res.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{res.ID}, f.store.deleted)
	})

	t.Run("owner cannot delete", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusPending)

		err := f.commands.DeleteReservation(ctx, f.actorOwner(), res.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, "Only the reservation counterparty can perform this action", err.Error())
	})

	t.Run("confirmed cannot be deleted", func(t *testing.T) {
		f := newReservationFixture(t)
		res := f.seedReservation(reservation.StatusConfirmed)

		err := f.commands.DeleteReservation(ctx, f.actorCounterparty(), res.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrBadRequest)
		assert.Equal(t, "Only pending reservations can be deleted", err.Error())
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newReservationFixture(t)

		err := f.commands.DeleteReservation(ctx, f.actorCounterparty(), 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
