package share

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSharer(t *testing.T) (*RedisLocationSharer, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocationSharer(client, time.Minute), mr, client
}

func TestSharePositionStoresLatestWithTTL(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newSharer(t)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SharePosition(ctx, "r1", domain.Coordinates{Lat: 40.75, Lng: -73.99}, at))
	require.NoError(t, s.SharePosition(ctx, "r1", domain.Coordinates{Lat: 40.76, Lng: -73.98}, at.Add(time.Minute)))

	got, ok, err := s.LatestPosition(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Coordinates{Lat: 40.76, Lng: -73.98}, got.Position)
	assert.Equal(t, at.Add(time.Minute), got.At)
	assert.Equal(t, time.Minute, mr.TTL(PositionKey("r1")))

	mr.FastForward(2 * time.Minute)
	_, ok, err = s.LatestPosition(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSharePositionPublishes(t *testing.T) {
	ctx := context.Background()
	s, _, client := newSharer(t)

	sub := client.Subscribe(ctx, PositionChannel("r2"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SharePosition(ctx, "r2", domain.Coordinates{Lat: 1, Lng: 2}, time.Now()))

	select {
	case msg := <-sub.Channel():
		var sp ports.SharedPosition
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &sp))
		assert.Equal(t, "r2", sp.RouteID)
		assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, sp.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestStopSharingRemovesPosition(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newSharer(t)

	require.NoError(t, s.SharePosition(ctx, "r3", domain.Coordinates{Lat: 1, Lng: 1}, time.Now()))
	require.NoError(t, s.StopSharing(ctx, "r3"))
	assert.False(t, mr.Exists(PositionKey("r3")))
}

func TestDialBadURL(t *testing.T) {
	_, err := Dial(context.Background(), "not-a-url")
	assert.ErrorContains(t, err, "parse url")
}
