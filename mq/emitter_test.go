package mq

import (
	"context"
	"encoding/json"
	"testing"

	"staybook/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []booking.Booking
}

func (r *recorder) BookingCreated(_ context.Context, b booking.Booking) error {
	r.got = append(r.got, b)
	return nil
}

func TestWorkerHandle(t *testing.T) {
	rec := &recorder{}
	w := &Worker{next: rec}

	payload, err := json.Marshal(Event{Type: "booking.created", Booking: booking.Booking{ID: "b1", Name: "Jane Doe"}})
	require.NoError(t, err)

	require.NoError(t, w.handle(context.Background(), string(payload)))
	require.Len(t, rec.got, 1)
	assert.Equal(t, "b1", rec.got[0].ID)
	assert.Equal(t, "Jane Doe", rec.got[0].Name)

	// other event types are ignored
	require.NoError(t, w.handle(context.Background(), `{"type":"booking.deleted"}`))
	assert.Len(t, rec.got, 1)

	assert.Error(t, w.handle(context.Background(), "not json"))
}
