package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const DefaultPublishKey = "publish:schedule"

// PublishQueueRedis صف انتشار روی ZSET با امتیاز زمان انتشار (unix)
type PublishQueueRedis struct {
	Client *redis.Client
	Key    string
	Logger *zap.Logger
}

func NewPublishQueueRedis(client *redis.Client, logger *zap.Logger) *PublishQueueRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishQueueRedis{
		Client: client,
		Key:    DefaultPublishKey,
		Logger: logger,
	}
}

// Schedule adds or moves a post in the schedule.
func (q *PublishQueueRedis) Schedule(ctx context.Context, postID string, at time.Time) error {
	z := &redis.Z{
		Score:  float64(at.Unix()),
		Member: postID,
	}
	if err := q.Client.ZAdd(ctx, q.Key, z).Err(); err != nil {
		return err
	}
	q.Logger.Debug("scheduled post for publishing", zap.String("postID", postID), zap.Time("at", at))
	return nil
}

// Due returns up to limit post ids whose publish time is at or before now, earliest first.
func (q *PublishQueueRedis) Due(ctx context.Context, now time.Time, limit int64) ([]string, error) {
	return q.Client.ZRangeByScore(ctx, q.Key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: limit,
	}).Result()
}

func (q *PublishQueueRedis) Remove(ctx context.Context, postID string) error {
	return q.Client.ZRem(ctx, q.Key, postID).Err()
}
