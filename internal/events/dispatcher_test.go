package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventNavigate, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), EventNavigate, NavigatePayload{Target: TargetLogin})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, EventNavigate, got[0].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	payload, ok := got[0].Payload.(NavigatePayload)
	require.True(t, ok)
	assert.Equal(t, TargetLogin, payload.Target)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), EventCredentialRefreshed, nil))
	assert.Zero(t, calls)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), EventSessionExpired, nil))
	assert.Equal(t, 1, calls)
}
