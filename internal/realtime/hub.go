package realtime

import (
	"log/slog"
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/session"
)

const hubBufferSize = 256

// direct is a message for a single connection
type direct struct {
	connID  model.ConnectionID
	message []byte
}

// statsRequest asks the hub loop for a ConnectionStats snapshot
type statsRequest struct {
	reply chan ConnectionStats
}

// ConnectionStats describes the live connections
type ConnectionStats struct {
	TotalConnections int                `json:"totalConnections"`
	Identified       map[model.Role]int `json:"identified"`
	Anonymous        int                `json:"anonymous"`
	ActingAdmin      string             `json:"actingAdmin,omitempty"`
	Sessions         []model.Session    `json:"sessions"`
}

// Hub fans committed auction state out to every client.
//
// All writes to a client's send channel happen on the hub goroutine, so a
// client sees its bootstrap, confirmations and broadcasts in commit order.
type Hub struct {
	clients  map[model.ConnectionID]*Client
	registry *session.Registry
	logger   *slog.Logger

	// last is the newest snapshot the hub has fanned out
	last *model.AuctionState

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	changes    chan auction.Change
	confirm    chan model.ConnectionID
	direct     chan direct
	stats      chan statsRequest
	done       chan struct{}
}

// NewHub creates a hub and subscribes it to the store
func NewHub(store *auction.Store, registry *session.Registry, logger *slog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[model.ConnectionID]*Client),
		registry:   registry,
		logger:     logger.With(slog.String("component", "hub")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		changes:    make(chan auction.Change, hubBufferSize),
		confirm:    make(chan model.ConnectionID, hubBufferSize),
		direct:     make(chan direct, hubBufferSize),
		stats:      make(chan statsRequest),
		done:       make(chan struct{}),
	}
	h.last = store.Subscribe(h)
	return h
}

// Observe queues a committed change. It runs under the store lock and only waits for buffer space.
func (h *Hub) Observe(change auction.Change) {
	select {
	case h.changes <- change:
	case <-h.done:
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			h.logger.Info("client registered",
				slog.String("connection_id", string(client.id)),
				slog.Int("total_clients", len(h.clients)))
			h.send(client, h.bootstrap())

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				h.remove(client)
				h.logger.Info("client unregistered",
					slog.String("connection_id", string(client.id)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)))
			}

		case change := <-h.changes:
			h.last = change.State
			h.fanOut(change)

		case connID := <-h.confirm:
			if client, ok := h.clients[connID]; ok {
				h.confirmIdentity(client)
			}

		case d := <-h.direct:
			if client, ok := h.clients[d.connID]; ok {
				h.send(client, d.message)
			}

		case req := <-h.stats:
			req.reply <- h.collectStats()

		case <-h.done:
			clientCount := len(h.clients)
			for _, client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. The client is sent a bootstrap snapshot.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ConfirmIdentity sends identityConfirmed with the hub's current snapshot
func (h *Hub) ConfirmIdentity(connID model.ConnectionID) {
	select {
	case h.confirm <- connID:
	case <-h.done:
	}
}

// SendTo queues a message for one connection
func (h *Hub) SendTo(connID model.ConnectionID, message []byte) {
	select {
	case h.direct <- direct{connID: connID, message: message}:
	case <-h.done:
	}
}

// Stats returns connection statistics
func (h *Hub) Stats() ConnectionStats {
	req := statsRequest{reply: make(chan ConnectionStats, 1)}
	select {
	case h.stats <- req:
		return <-req.reply
	case <-h.done:
		return ConnectionStats{Identified: map[model.Role]int{}, Sessions: []model.Session{}}
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

func (h *Hub) collectStats() ConnectionStats {
	stats := ConnectionStats{
		TotalConnections: len(h.clients),
		Identified:       h.registry.Count(),
		Sessions:         h.registry.Sessions(),
	}
	identified := 0
	for _, n := range stats.Identified {
		identified += n
	}
	stats.Anonymous = max(stats.TotalConnections-identified, 0)
	if admin, ok := h.registry.ActingAdmin(); ok {
		stats.ActingAdmin = admin.DeviceID
	}
	return stats
}

// remove drops a client and closes its send channel. Must run on the hub goroutine.
func (h *Hub) remove(client *Client) {
	delete(h.clients, client.id)
	close(client.send)
}

// send queues a message without blocking. A client that cannot keep up is
// disconnected and resyncs from the bootstrap snapshot when it reconnects.
func (h *Hub) send(client *Client, message []byte) {
	if message == nil {
		return
	}
	select {
	case client.send <- message:
	default:
		h.logger.Warn("client send buffer full, closing connection",
			slog.String("connection_id", string(client.id)))
		h.remove(client)
		client.close()
	}
}

func (h *Hub) isAdmin(connID model.ConnectionID) bool {
	sess, err := h.registry.Resolve(connID)
	return err == nil && sess.IsAdmin()
}

func (h *Hub) bootstrap() []byte {
	return h.encode(TypeStateUpdate, FullState{AuctionState: h.last.Redacted(), Full: true})
}

func (h *Hub) confirmIdentity(client *Client) {
	sess, err := h.registry.Resolve(client.id)
	if err != nil {
		return
	}
	state := h.last
	if !sess.IsAdmin() {
		state = state.Redacted()
	}
	h.send(client, h.encode(TypeIdentityConfirmed, IdentityConfirmedPayload{
		Role:         sess.Role,
		IsAdmin:      sess.IsAdmin(),
		TeamID:       sess.TeamID,
		CurrentState: state,
	}))
}

// fanOut sends one change to every client, encoding each variant at most once
func (h *Hub) fanOut(change auction.Change) {
	var admin, public []byte
	for _, client := range h.clients {
		if h.isAdmin(client.id) {
			if admin == nil {
				admin = h.encodeChange(change, change.State)
			}
			h.send(client, admin)
		} else {
			if public == nil {
				public = h.encodeChange(change, change.State.Redacted())
			}
			h.send(client, public)
		}
	}
	h.logger.Debug("change broadcast",
		slog.String("kind", string(change.Kind)),
		slog.Bool("partial", change.Partial),
		slog.Int("clients", len(h.clients)))
}

func (h *Hub) encodeChange(change auction.Change, state *model.AuctionState) []byte {
	if change.Partial {
		return h.encode(TypeStateUpdate, PartialState{
			CurrentBid:  state.CurrentBid,
			LeadingTeam: state.LeadingTeam,
			BidHistory:  state.BidHistory,
		})
	}
	return h.encode(TypeStateUpdate, FullState{AuctionState: state, Full: true})
}

func (h *Hub) encode(t MessageType, payload any) []byte {
	data, err := Encode(t, payload)
	if err != nil {
		h.logger.Error("failed to encode message", slog.String("type", string(t)), slog.Any("error", err))
		return nil
	}
	return data
}
