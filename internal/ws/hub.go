// Package ws streams graph change events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/metrics"
	"github.com/docgraph/docgraph/internal/models"
)

// Hub channel buffer sizes and connection caps.
const (
	broadcastBuffer     = 256
	registerBuffer      = 64
	maxClients          = 1000
	maxClientsPerStream = 50
)

// broadcast is sent through the broadcast channel to the Run goroutine. An
// empty datasource reaches every client.
type broadcast struct {
	datasource string
	msg        []byte
}

// Hub manages active WebSocket clients and fans out change events.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients     map[*Client]bool
	streamCount map[string]int
	register    chan *Client
	unregister  chan *Client
	broadcast   chan broadcast
	shutdown    chan struct{} // signals Run to begin graceful drain
	done        chan struct{} // closed when Run has finished draining
	count       atomic.Int64
	log         *logrus.Logger
	seq         *EventSequence
	buffer      *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		streamCount: make(map[string]int),
		register:    make(chan *Client, registerBuffer),
		unregister:  make(chan *Client, registerBuffer),
		broadcast:   make(chan broadcast, broadcastBuffer),
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		log:         log,
		seq:         NewEventSequence(),
		buffer:      NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.buffer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
			}
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case b := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(b.datasource) {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) add(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()

		return
	}

	if h.streamCount[client.stream()] >= maxClientsPerStream {
		h.log.WithField("datasource", client.Datasource).Warn("per-datasource connection limit reached, dropping client")
		client.closeSend()

		return
	}

	h.clients[client] = true
	h.streamCount[client.stream()]++
	h.updateCount()
	h.log.WithField("total", len(h.clients)).Info("client registered")
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	client.closeSend()

	stream := client.stream()
	h.streamCount[stream]--
	if h.streamCount[stream] <= 0 {
		delete(h.streamCount, stream)
	}

	h.updateCount()
}

func (h *Hub) updateCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// maxBroadcastPayload is the maximum allowed event payload size (4 KB).
const maxBroadcastPayload = 4096

// send queues msg for the Run goroutine. Oversized payloads are dropped.
func (h *Hub) send(datasource string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"datasource":   datasource,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")

		return
	}

	select {
	case h.broadcast <- broadcast{datasource: datasource, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Publish turns a change event into a sequenced WebSocket event, buffers it
// for replay and broadcasts it. It implements service.Publisher.
func (h *Hub) Publish(ev models.ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal change event")
		return
	}

	h.BroadcastEvent(ev.Type, ev.Datasource, data)
}

// BroadcastEvent assigns a sequence ID, stores the event for replay and
// sends it to clients of datasource plus clients watching every datasource.
func (h *Hub) BroadcastEvent(eventType, datasource string, data json.RawMessage) {
	evt := Event{
		Type:       eventType,
		ID:         h.seq.Next(),
		Datasource: datasource,
		Data:       data,
		Time:       time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	if datasource != "" {
		h.buffer.Append(datasource, &evt)
	}
	h.buffer.Append(allStream, &evt)
	h.send(datasource, msg)
}

// Shutdown initiates a graceful drain and blocks until it completes or the
// drain timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a shutdown frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

wait:
	for !h.drained() {
		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			break wait
		case <-ticker.C:
		}
	}

	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.streamCount = make(map[string]int)
	h.updateCount()
}

func (h *Hub) drained() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}

	return true
}

// ReplayEvents sends buffered events after lastEventID to the client.
// It returns false when events after lastEventID were already trimmed.
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	stream := client.stream()

	if lastEventID > 0 && !h.buffer.Covers(stream, lastEventID) {
		return false
	}

	for _, evt := range h.buffer.Since(stream, lastEventID) {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return true // channel full, stop replay
		}
	}

	return true
}
