//go:build unit

package queries_test

import (
	"context"
	"testing"

	"fio-market/internal/infra"
	"fio-market/internal/usecase/queries"
	"fio-market/internal/usecase/shared"
	"fio-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewReader struct {
	details map[int64]*queries.ReservationWithDetails
	byParty map[uuid.UUID][]*queries.ReservationWithDetails
}

func (f *fakeViewReader) DetailsByID(_ context.Context, id int64) (*queries.ReservationWithDetails, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

func (f *fakeViewReader) ListByParty(_ context.Context, userID uuid.UUID) ([]*queries.ReservationWithDetails, error) {
	return f.byParty[userID], nil
}

func TestGetReservation(t *testing.T) {
	ctx := context.Background()
	details := builder.NewReservationBuilder().BuildDetails()
	views := &fakeViewReader{details: map[int64]*queries.ReservationWithDetails{details.ID: details}}
	q := queries.NewReservationQueries(views)

	t.Run("owner can read", func(t *testing.T) {
		got, err := q.GetReservation(ctx, shared.Identity{UserID: details.OwnerID}, details.ID)
		require.NoError(t, err)
		assert.Equal(t, details.ID, got.ID)
	})

	t.Run("counterparty can read", func(t *testing.T) {
		got, err := q.GetReservation(ctx, shared.Identity{UserID: details.CounterpartyUserID}, details.ID)
		require.NoError(t, err)
		assert.Equal(t, details.ID, got.ID)
	})

	t.Run("outsider gets not found", func(t *testing.T) {
		_, err := q.GetReservation(ctx, shared.Identity{UserID: uuid.New()}, details.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Reservation not found", err.Error())
	})

	t.Run("missing id gets the same answer", func(t *testing.T) {
		_, err := q.GetReservation(ctx, shared.Identity{UserID: details.OwnerID}, 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListMyReservations(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	q := queries.NewReservationQueries(&fakeViewReader{byParty: map[uuid.UUID][]*queries.ReservationWithDetails{}})

	list, err := q.ListMyReservations(ctx, shared.Identity{UserID: user})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
