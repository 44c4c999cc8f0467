package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// DefaultDebounce is the quiet period after the last event before a refetch
// fires. A burst of N events inside one window triggers exactly one refetch.
const DefaultDebounce = 2 * time.Second

// ListenerHooks are the listener's effects, injected so the debounce and
// toast behaviour is testable without Redis or a UI.
type ListenerHooks struct {
	// Invalidate drops the cached pages of a table. Called once per event.
	Invalidate func(table string)
	// Refetch reloads a table's live views. Called once per debounce window.
	Refetch func(table string)
	// Broadcast fans the raw event out to connected dashboard clients.
	Broadcast func(ev ChangeEvent)
}

// Listener bridges the per-table changefeed into cache invalidation,
// debounced refetches and toast notifications.
type Listener struct {
	client   *redis.Client
	hooks    ListenerHooks
	toasts   *ToastCenter
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	now func() time.Time
}

func NewListener(client *redis.Client, toasts *ToastCenter, hooks ListenerHooks, debounce time.Duration) *Listener {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Listener{
		client:   client,
		hooks:    hooks,
		toasts:   toasts,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		now:      time.Now,
	}
}

// Start subscribes to every report table's channel and dispatches events
// until ctx is cancelled. The subscription is closed on return; leaving it
// open past teardown would leak the changefeed connection.
func (l *Listener) Start(ctx context.Context) error {
	channels := make([]string, 0, len(Tables()))
	for _, table := range Tables() {
		channels = append(channels, ChannelFor(table))
	}

	pubsub := l.client.Subscribe(ctx, channels...)
	defer func() {
		if err := pubsub.Close(); err != nil {
			log.Warnf("[Realtime] failed to close pubsub: %v", err)
		}
	}()

	log.Infof("[Realtime] listener running on %d channels", len(channels))
	msgCh := pubsub.Channel()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				log.Warn("[Realtime] pubsub channel closed by Redis")
				return nil
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Errorf("[Realtime] bad event payload on %s: %v", msg.Channel, err)
				continue
			}
			l.Handle(ev)
		case <-ctx.Done():
			log.Info("[Realtime] listener shutting down")
			l.stopTimers()
			return nil
		}
	}
}

// Handle processes a single change event: immediate cache invalidation, a
// toast for other users' inserts, a broadcast to websocket clients, and a
// debounced refetch of the table.
func (l *Listener) Handle(ev ChangeEvent) {
	if !ev.OccurredAt.IsZero() && l.now().Sub(ev.OccurredAt) > replayWindow {
		// Stale replay after a reconnect; the next refetch covers it.
		return
	}

	if l.hooks.Invalidate != nil {
		l.hooks.Invalidate(ev.Table)
	}
	if ev.Type == EventInsert && l.toasts != nil {
		l.toasts.Push(ev)
	}
	if l.hooks.Broadcast != nil {
		l.hooks.Broadcast(ev)
	}
	l.scheduleRefetch(ev.Table)
}

func (l *Listener) scheduleRefetch(table string) {
	if l.hooks.Refetch == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[table]; ok {
		t.Reset(l.debounce)
		return
	}
	l.timers[table] = time.AfterFunc(l.debounce, func() {
		l.hooks.Refetch(table)
	})
}

func (l *Listener) stopTimers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for table, t := range l.timers {
		t.Stop()
		delete(l.timers, table)
	}
}
