package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hack-or-snooze/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore remembers which stories a watcher has already reported. Each
// feed is a sorted set of story ids scored by the time they were last seen.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func seenZKey(feed string) string {
	return fmt.Sprintf("hos:seen:%s", feed)
}

// MarkSeen records stories as seen at now and returns the ones that were not
// in the set before, in input order.
func (s *RedisStore) MarkSeen(ctx context.Context, feed string, stories []model.Story, now time.Time) ([]model.Story, error) {
	if len(stories) == 0 {
		return nil, nil
	}
	key := seenZKey(feed)
	score := float64(now.Unix())
	cmds := make([]*redis.IntCmd, len(stories))
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, st := range stories {
			// ZADD counts only members that were not present; existing
			// members just get their last-seen score refreshed.
			cmds[i] = p.ZAdd(ctx, key, redis.Z{Score: score, Member: st.StoryID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var fresh []model.Story
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			fresh = append(fresh, stories[i])
		}
	}
	return fresh, nil
}

// Prune forgets stories last seen before cutoff.
func (s *RedisStore) Prune(ctx context.Context, feed string, cutoff time.Time) (int64, error) {
	upper := "(" + strconv.FormatInt(cutoff.Unix(), 10)
	return s.rdb.ZRemRangeByScore(ctx, seenZKey(feed), "-inf", upper).Result()
}

// SeenCount returns how many stories are remembered for feed.
func (s *RedisStore) SeenCount(ctx context.Context, feed string) (int64, error) {
	return s.rdb.ZCard(ctx, seenZKey(feed)).Result()
}
