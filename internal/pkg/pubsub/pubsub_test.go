package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCreditEvent_JSON(t *testing.T) {
	evt := &CreditEvent{Type: EventCreditsUpdated, UserID: 1, Credits: 4, Delta: -1, Reason: ReasonGeneration}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["userId"])
	assert.Equal(t, float64(-1), raw["delta"])
	_, hasMessage := raw["message"]
	assert.False(t, hasMessage, "empty message should be omitted")
}

func TestPublisherSubscriber(t *testing.T) {
	client := setupTestRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *CreditEvent, 1)
	go func() {
		NewSubscriber(client).Subscribe(ctx, func(evt *CreditEvent) {
			received <- evt
		})
	}()

	// 等订阅建立
	require.Eventually(t, func() bool {
		n, _ := client.PubSubNumSub(ctx, ChannelCreditUpdates).Result()
		return n[ChannelCreditUpdates] > 0
	}, 2*time.Second, 10*time.Millisecond)

	err := NewPublisher(client).PublishCredits(ctx, &CreditEvent{UserID: 9, Credits: 15, Delta: 10, Reason: ReasonPurchase})
	require.NoError(t, err)

	select {
	case evt := <-received:
		assert.Equal(t, EventCreditsUpdated, evt.Type)
		assert.Equal(t, int64(9), evt.UserID)
		assert.Equal(t, 15, evt.Credits)
		assert.Equal(t, 10, evt.Delta)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for message")
	}
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	client := setupTestRedis(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewSubscriber(client).Subscribe(ctx, func(*CreditEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
