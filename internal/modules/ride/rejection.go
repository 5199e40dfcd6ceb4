// README: Rejection filter backed by Redis sets, one set per ride.
package ride

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hail/internal/types"
)

const rejectedKeyPrefix = "rides:%s:rejected"

// RedisRejections stores, per ride, the set of drivers who declined it while
// it was requested. Sets carry no TTL: a rejecting driver must never see the
// ride again, however long it stays requested.
type RedisRejections struct {
	redis *redis.Client
}

func NewRedisRejections(r *redis.Client) *RedisRejections {
	return &RedisRejections{redis: r}
}

func (s *RedisRejections) Add(ctx context.Context, rideID, driverID types.ID) error {
	return s.redis.SAdd(ctx, rejectedKey(rideID), string(driverID)).Err()
}

// FilterRejected reports, for each ride, whether the driver has rejected it.
// One round trip via a pipeline regardless of list size.
func (s *RedisRejections) FilterRejected(ctx context.Context, rideIDs []types.ID, driverID types.ID) (map[types.ID]bool, error) {
	if len(rideIDs) == 0 {
		return map[types.ID]bool{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.BoolCmd, len(rideIDs))
	for i, id := range rideIDs {
		cmds[i] = pipe.SIsMember(ctx, rejectedKey(id), string(driverID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := make(map[types.ID]bool, len(rideIDs))
	for i, id := range rideIDs {
		out[id] = cmds[i].Val()
	}
	return out, nil
}

func rejectedKey(rideID types.ID) string {
	return fmt.Sprintf(rejectedKeyPrefix, string(rideID))
}
