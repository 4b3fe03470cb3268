package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	xlog "github.com/zaqqye/signage_backend/internal/log"
	"github.com/zaqqye/signage_backend/internal/metrics"
)

// MessageReload tells a display to fetch its playlist again.
const MessageReload = "reload"

// Message is pushed to display clients.
type Message struct {
	Type     string `json:"type"`
	DeviceID string `json:"deviceId,omitempty"`
}

type notification struct {
	// deviceID scopes the message; empty reaches every display.
	deviceID string
	payload  []byte
}

// DisplayHub fans content-change notices out to connected displays.
type DisplayHub struct {
	register   chan *displayClient
	unregister chan *displayClient
	notify     chan notification
	done       chan struct{}
	clients    map[*displayClient]struct{}
	count      atomic.Int64
	logger     zerolog.Logger
}

func NewDisplayHub() *DisplayHub {
	return &DisplayHub{
		register:   make(chan *displayClient),
		unregister: make(chan *displayClient),
		notify:     make(chan notification, 256),
		done:       make(chan struct{}),
		clients:    make(map[*displayClient]struct{}),
		logger:     xlog.WithComponent("ws"),
	}
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *DisplayHub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.updateCount()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case msg := <-h.notify:
			for client := range h.clients {
				if msg.deviceID != "" && client.deviceID != msg.deviceID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					h.logger.Warn().Str("device_id", client.deviceID).Msg("display client too slow, disconnecting")
					h.drop(client)
				}
			}
		}
	}
}

func (h *DisplayHub) drop(client *displayClient) {
	delete(h.clients, client)
	close(client.send)
	h.updateCount()
}

func (h *DisplayHub) updateCount() {
	n := len(h.clients)
	h.count.Store(int64(n))
	metrics.DisplayClients.Set(float64(n))
}

// Clients reports how many displays are connected.
func (h *DisplayHub) Clients() int {
	if h == nil {
		return 0
	}
	return int(h.count.Load())
}

// Broadcast sends message to every display.
func (h *DisplayHub) Broadcast(message Message) {
	h.enqueue("", message)
}

// Notify sends message to the displays of one device.
func (h *DisplayHub) Notify(deviceID string, message Message) {
	message.DeviceID = deviceID
	h.enqueue(deviceID, message)
}

func (h *DisplayHub) enqueue(deviceID string, message Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal display message")
		return
	}
	select {
	case h.notify <- notification{deviceID: deviceID, payload: data}:
	case <-h.done:
	default:
		h.logger.Warn().Str("type", message.Type).Msg("display notification queue full, dropping")
	}
}

type displayClient struct {
	hub      *DisplayHub
	conn     *websocket.Conn
	send     chan []byte
	deviceID string
}

func newDisplayClient(hub *DisplayHub, conn *websocket.Conn, deviceID string) *displayClient {
	return &displayClient{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		deviceID: deviceID,
	}
}

func (c *displayClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *displayClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
