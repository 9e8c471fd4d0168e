package broker

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/restaurants/internal/models"
)

func newTestMemory() *Memory {
	return NewMemory(slog.New(slog.DiscardHandler))
}

func TestMemory_FanOut(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()
	defer func() { _ = b.Close() }()

	first, err := b.Subscribe(ctx)
	require.NoError(t, err)
	second, err := b.Subscribe(ctx)
	require.NoError(t, err)

	restaurants := []models.Restaurant{
		{ID: "1", Name: "A", ClientID: "X"},
		{ID: "2", Name: "B", ClientID: "Y"},
	}
	for _, r := range restaurants {
		require.NoError(t, b.Publish(ctx, r))
	}

	for _, sub := range []Subscription{first, second} {
		for _, want := range restaurants {
			got := <-sub.Events()
			assert.Equal(t, want, got)
		}
	}
}

func TestMemory_SubscriptionClose(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()

	sub, err := b.Subscribe(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, b.Subscribers())
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, b.Subscribers())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	// Публикация после отписки не паникует
	require.NoError(t, b.Publish(ctx, models.Restaurant{ID: "1"}))
}

func TestMemory_SlowSubscriberDropped(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()

	slow, err := b.Subscribe(ctx)
	require.NoError(t, err)

	for i := 0; i <= subscriptionBuffer; i++ {
		require.NoError(t, b.Publish(ctx, models.Restaurant{ID: "r"}))
	}

	received := 0
	for range slow.Events() {
		received++
	}
	assert.Equal(t, subscriptionBuffer, received)
}

func TestMemory_Closed(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()

	sub, err := b.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)
	require.NoError(t, sub.Close())

	assert.ErrorIs(t, b.Publish(ctx, models.Restaurant{}), ErrBrokerClosed)
	_, err = b.Subscribe(ctx)
	assert.ErrorIs(t, err, ErrBrokerClosed)
}
