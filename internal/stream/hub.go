package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-admin-panel/internal/event"
)

const (
	clientBuffer      = 16
	keepAliveInterval = 25 * time.Second
)

// Client is one open event stream.
type Client struct {
	send chan []byte
}

// Hub fans mutation events out to every connected admin page over
// Server-Sent Events. A client that cannot keep up is disconnected.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	bus        event.Bus
	done       chan struct{}
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done. It must be running before
// ServeHTTP is called.
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe("stream")
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			message, err := encode(e)
			if err != nil {
				slog.Error("failed to encode event", "type", e.Type, "error", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// encode renders one SSE frame. Payloads are left out; pages refetch what
// they display.
func encode(e event.Event) ([]byte, error) {
	e.Payload = nil
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", e.Type, data), nil
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server's write timeout would otherwise end every stream.
	_ = rc.SetWriteDeadline(time.Time{})

	client := &Client{send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		slog.Warn("event stream cannot be flushed", "error", err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			_ = rc.Flush()
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}
