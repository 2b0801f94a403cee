//go:build unit

package notify_test

import (
	"context"
	"encoding/json"
	"testing"

	"fio-market/internal/domain/reservation"
	"fio-market/internal/infra/notify"
	"fio-market/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationWriter struct {
	created []string
	fail    bool
}

func (f *fakeNotificationWriter) Create(_ context.Context, _ uuid.UUID, notificationType, _, _ string, _ json.RawMessage) error {
	if f.fail {
		return errs.New("sink unavailable")
	}
	f.created = append(f.created, notificationType)
	return nil
}

type fakePublisher struct {
	keys   []string
	values [][]byte
}

func (f *fakePublisher) Publish(key, value []byte) {
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
}

func TestDispatch(t *testing.T) {
	recipient := uuid.New()
	event := reservation.NewPlacedEvent(recipient, reservation.EventData{
		ReservationID:      7,
		OrderID:            42,
		OrderKind:          reservation.OrderKindSell,
		CounterpartyUserID: uuid.New(),
		Quantity:           100,
		Commodity:          "RAT",
		Location:           "Katoa",
	})

	t.Run("stores row and publishes envelope", func(t *testing.T) {
		writer := &fakeNotificationWriter{}
		publisher := &fakePublisher{}
		notify.NewDispatcher(writer, publisher).Dispatch(context.Background(), event)

		assert.Equal(t, []string{"reservation_placed"}, writer.created)
		require.Len(t, publisher.keys, 1)
		assert.Equal(t, "42", publisher.keys[0])

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(publisher.values[0], &envelope))
		assert.Equal(t, "reservation_placed", envelope["type"])
	})

	t.Run("sink failure does not stop the publish", func(t *testing.T) {
		writer := &fakeNotificationWriter{fail: true}
		publisher := &fakePublisher{}
		notify.NewDispatcher(writer, publisher).Dispatch(context.Background(), event)

		assert.Empty(t, writer.created)
		assert.Len(t, publisher.keys, 1)
	})
}
