package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "fieldflow"

// RedisLocationSharer keeps the latest position of each shared route under a
// TTL and publishes every sample on the route's channel.
type RedisLocationSharer struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var (
	_ ports.LocationSharer       = (*RedisLocationSharer)(nil)
	_ ports.SharedPositionReader = (*RedisLocationSharer)(nil)
)

func NewRedisLocationSharer(client redis.UniversalClient, ttl time.Duration) *RedisLocationSharer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisLocationSharer{client: client, ttl: ttl}
}

// Dial parses a redis:// URL and verifies the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis: ping: %w", err)
	}
	return client, nil
}

func PositionKey(routeID string) string {
	return fmt.Sprintf("%s:route:%s:position", keyNamespace, routeID)
}

func PositionChannel(routeID string) string {
	return fmt.Sprintf("%s:route:%s:positions", keyNamespace, routeID)
}

func (s *RedisLocationSharer) SharePosition(ctx context.Context, routeID string, pos domain.Coordinates, at time.Time) error {
	if s.client == nil {
		return errors.New("share position: redis client not initialized")
	}
	payload, err := json.Marshal(ports.SharedPosition{RouteID: routeID, Position: pos, At: at.UTC()})
	if err != nil {
		return fmt.Errorf("share position: encode: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, PositionKey(routeID), payload, s.ttl)
	pipe.Publish(ctx, PositionChannel(routeID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("share position: route %q: %w", routeID, err)
	}
	return nil
}

func (s *RedisLocationSharer) StopSharing(ctx context.Context, routeID string) error {
	if s.client == nil {
		return errors.New("stop sharing: redis client not initialized")
	}
	if err := s.client.Del(ctx, PositionKey(routeID)).Err(); err != nil {
		return fmt.Errorf("stop sharing: route %q: %w", routeID, err)
	}
	return nil
}

// LatestPosition returns the last shared sample, or false when the route is
// not sharing or the entry expired.
func (s *RedisLocationSharer) LatestPosition(ctx context.Context, routeID string) (ports.SharedPosition, bool, error) {
	raw, err := s.client.Get(ctx, PositionKey(routeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.SharedPosition{}, false, nil
	}
	if err != nil {
		return ports.SharedPosition{}, false, fmt.Errorf("latest position: route %q: %w", routeID, err)
	}
	var sp ports.SharedPosition
	if err := json.Unmarshal(raw, &sp); err != nil {
		return ports.SharedPosition{}, false, fmt.Errorf("latest position: route %q: decode: %w", routeID, err)
	}
	return sp, true, nil
}
