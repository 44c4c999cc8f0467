package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// Publisher pushes change events onto the per-table pub/sub channels.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends the event on its table's channel. Failures are logged and
// returned; report writes themselves are never rolled back over a missed
// notification.
func (p *Publisher) Publish(ctx context.Context, ev ChangeEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling change event: %w", err)
	}
	if err := p.client.Publish(ctx, ChannelFor(ev.Table), payload).Err(); err != nil {
		log.Errorf("[Realtime] publish on %s failed: %v", ev.Table, err)
		return fmt.Errorf("publishing change event: %w", err)
	}
	return nil
}
