// Package natspub publishes auction events to NATS subjects.
package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mcoot/auctionhouse/internal/events"
	"github.com/mcoot/auctionhouse/internal/model"
)

// Config holds NATS connection settings
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns default NATS configuration
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "auction.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher sends each event to <prefix>.<event type>
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

var _ events.Publisher = (*Publisher)(nil)

// New connects to NATS
func New(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultConfig().SubjectPrefix
	}

	opts := []nats.Option{
		nats.Name("auctionhouse"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Error("NATS disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", slog.Any("error", err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &Publisher{nc: nc, prefix: cfg.SubjectPrefix, logger: logger}, nil
}

// envelope is the JSON body of a published event
type envelope struct {
	EventID   string          `json:"eventId"`
	EventType model.EventType `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	PlayerID  model.PlayerID  `json:"playerId,omitempty"`
	TeamID    model.TeamID    `json:"teamId,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

// Message builds the NATS message for an event
func Message(prefix string, event model.Event) (*nats.Msg, error) {
	id := uuid.NewString()
	data, err := json.Marshal(envelope{
		EventID:   id,
		EventType: event.Type,
		Timestamp: event.Timestamp.UTC(),
		PlayerID:  event.PlayerID,
		TeamID:    event.TeamID,
		Payload:   event.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	msg := nats.NewMsg(fmt.Sprintf("%s.%s", prefix, event.Type))
	msg.Data = data
	msg.Header.Set("Event-Type", string(event.Type))
	msg.Header.Set("Event-ID", id)
	return msg, nil
}

// Publish sends an event. Core NATS publishing is fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, event model.Event) error {
	msg, err := Message(p.prefix, event)
	if err != nil {
		return err
	}
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}

	p.logger.Debug("published event", slog.String("subject", msg.Subject))
	return nil
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
