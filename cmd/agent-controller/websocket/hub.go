// Package websocket fans diagnostic events published to NATS out to any
// number of connected dashboard clients. It is a one-way broadcast: no
// client message is ever routed back into an agent loop.
package websocket

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Hub maintains the set of connected dashboard clients and fans out
// diagnostic event payloads received from NATS to all of them.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run drives the hub's register/unregister/broadcast loop until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]struct{})
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case payload := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client's outbound buffer is full; drop rather than
					// block the whole hub on one slow reader.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount reports the number of currently connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscribeNATS subscribes to subject (typically "agent.*.event") and
// forwards every received payload to connected clients verbatim.
func (h *Hub) SubscribeNATS(conn *nats.Conn, subject string) (*nats.Subscription, error) {
	return conn.Subscribe(subject, func(msg *nats.Msg) {
		select {
		case h.broadcast <- msg.Data:
		default:
			h.logger.Warn().Str("subject", msg.Subject).Msg("dropping diagnostic event, broadcast buffer full")
		}
	})
}
