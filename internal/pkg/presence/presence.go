// Package presence tracks which users are currently active. Each heartbeat
// writes a timestamp to Redis; a user counts as online while their last
// heartbeat is within the window.
package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultWindow is how long after the last heartbeat a user still
	// counts as online.
	DefaultWindow = 2 * time.Minute

	keyPrefix = "presence:user:"
)

// Online reports whether a last-seen timestamp falls within the window.
func Online(lastSeen, now time.Time, window time.Duration) bool {
	return !lastSeen.IsZero() && now.Sub(lastSeen) <= window
}

// Tracker records heartbeats and answers online queries against Redis.
type Tracker struct {
	client *redis.Client
	window time.Duration
}

func NewTracker(client *redis.Client, window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{client: client, window: window}
}

// Heartbeat marks the user as seen now. The key expires on its own after
// the window, so offline users cost nothing.
func (t *Tracker) Heartbeat(ctx context.Context, userID uint) error {
	key := keyPrefix + strconv.FormatUint(uint64(userID), 10)
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := t.client.Set(ctx, key, now, t.window).Err(); err != nil {
		return fmt.Errorf("presence heartbeat: %w", err)
	}
	return nil
}

// IsOnline reports whether the user has a live heartbeat.
func (t *Tracker) IsOnline(ctx context.Context, userID uint) (bool, error) {
	key := keyPrefix + strconv.FormatUint(uint64(userID), 10)
	_, err := t.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("presence lookup: %w", err)
	}
	return true, nil
}

// OnlineSet answers online queries for a batch of users in one round trip.
func (t *Tracker) OnlineSet(ctx context.Context, userIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = keyPrefix + strconv.FormatUint(uint64(id), 10)
	}

	vals, err := t.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("presence batch lookup: %w", err)
	}
	for i, v := range vals {
		result[userIDs[i]] = v != nil
	}
	return result, nil
}
