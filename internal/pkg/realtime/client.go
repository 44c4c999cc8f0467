package realtime

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gofiber/fiber/v2/log"
)

const (
	// sendChannelSize controls the max number
	// of messages that can be queued for a client.
	sendChannelSize = 16
	pingPeriod      = (60 * 9 * time.Second) / 10
)

// Client is one connected dashboard websocket.
type Client struct {
	ID     string
	UserID uint
	Conn   *websocket.Conn
	Hub    *Hub
	send   chan Message
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(id string, userID uint, conn *websocket.Conn, hub *Hub) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		send:   make(chan Message, sendChannelSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) Start() {
	go c.readPump()
	go c.writePump()
	c.Hub.register <- c
}

func (c *Client) Close() {
	if err := c.Conn.Close(websocket.StatusNormalClosure, "bye"); err != nil {
		log.Debugf("[Realtime] close of client %q: %v", c.ID, err)
	}
	c.cancel()
}

// readPump drains inbound frames. The dashboard feed is one-way; reads only
// detect disconnects so the hub can unregister the client.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Close()
	}()

	for {
		var msg Message
		if err := wsjson.Read(c.ctx, c.Conn, &msg); err != nil {
			log.Debugf("[Realtime] read from client %q ended: %v", c.ID, err)
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
				return
			}
			if err := wsjson.Write(c.ctx, c.Conn, msg); err != nil {
				log.Warnf("[Realtime] write to client %q failed: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			if err := c.Conn.Ping(c.ctx); err != nil {
				log.Debugf("[Realtime] ping to client %q failed: %v", c.ID, err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
