package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Message is the envelope written to dashboard websocket clients.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub tracks connected dashboard clients and fans change events out to
// them. One client per websocket connection; a user may hold several.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(ctx context.Context) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Start() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Infof("[Realtime] client %q connected (user %d)", client.ID, client.UserID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Infof("[Realtime] client %q disconnected", client.ID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					go h.forceDisconnect(client)
				}
			}
			h.mu.RUnlock()
		case <-h.ctx.Done():
			return
		}
	}
}

// BroadcastEvent sends a change event to every connected client. Receivers
// decide locally whether it is their own write.
func (h *Hub) BroadcastEvent(ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("[Realtime] marshalling broadcast event: %v", err)
		return
	}
	select {
	case h.broadcast <- Message{Type: "change", Data: payload}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) forceDisconnect(c *Client) {
	c.Close()
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.mu.Lock()
	for _, client := range h.clients {
		client.Close()
	}
	h.mu.Unlock()
}
