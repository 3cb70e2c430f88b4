package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512

	// queueSize is how many ledger events may wait for a slow dashboard
	// before the hub drops it
	queueSize = 256
)

// Client is one dashboard subscribed to ledger events. A client with no
// entity filter receives every event.
type Client struct {
	id       string
	conn     *websocket.Conn
	hub      *Hub
	entities map[EntityType]bool
	queue    chan []byte

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Passing entities limits the client
// to events about those entities.
func NewClient(conn *websocket.Conn, hub *Hub, entities ...EntityType) *Client {
	c := &Client{
		id:    uuid.New().String(),
		conn:  conn,
		hub:   hub,
		queue: make(chan []byte, queueSize),
	}
	if len(entities) > 0 {
		c.entities = make(map[EntityType]bool, len(entities))
		for _, e := range entities {
			c.entities[e] = true
		}
	}
	return c
}

func (c *Client) ID() string {
	return c.id
}

// Wants reports whether events about entity should reach this client
func (c *Client) Wants(entity EntityType) bool {
	return c.entities == nil || c.entities[entity]
}

// Send queues an encoded event without blocking. A full queue counts as a
// closed client so the hub drops it.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.queue <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close ends the subscription. Later calls are no-ops.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.queue)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Serve runs the read and write loops until the dashboard disconnects
func (c *Client) Serve() {
	go c.writeLoop()
	go c.readLoop()
}

// readLoop discards anything the dashboard sends. Reading keeps pong
// handling alive and notices a closed socket.
func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			log.Warn().Err(err).Str("client_id", c.id).Msg("Dashboard connection lost")
		}
		return
	}
}

// writeLoop delivers queued ledger events and pings the dashboard
func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.Close()
	}()

	for {
		select {
		case event, ok := <-c.queue:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("Failed to deliver ledger event")
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
