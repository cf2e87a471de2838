package realtime

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Handler upgrades HTTP requests to auction websocket connections
type Handler struct {
	hub      *Hub
	handler  MessageHandler
	upgrader websocket.Upgrader
	config   ConnectionConfig
	logger   *slog.Logger
}

// NewHandler creates the websocket endpoint
func NewHandler(hub *Hub, handler MessageHandler, cfg ConnectionConfig, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		config: cfg,
		logger: logger.With(slog.String("component", "websocket")),
	}
}

// ServeHTTP upgrades the connection and starts its pumps.
// The client receives a bootstrap snapshot before anything else.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := newClient(model.ConnectionID(uuid.NewString()), conn, h.hub, h.handler, h.config, h.logger)
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()

	h.logger.Info("websocket connection established",
		slog.String("connection_id", string(client.id)),
		slog.String("remote_addr", r.RemoteAddr))
}

// OriginChecker allows the listed origins. "*" or an empty list allows all.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients such as the CLI
			return true
		}
		return slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(a, origin)
		})
	}
}
