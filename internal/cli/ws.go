package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
)

const replyTimeout = 10 * time.Second

// Session is a websocket connection to the auction server
type Session struct {
	conn      *websocket.Conn
	bootstrap *model.AuctionState
}

// Dial connects to the websocket endpoint and reads the initial snapshot
func Dial(cfg *Config) (*Session, error) {
	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WebSocketURL(), header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.WebSocketURL(), err)
	}
	s := &Session{conn: conn}

	env, err := s.Next(replyTimeout)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to read initial state: %w", err)
	}
	if env.Type != realtime.TypeStateUpdate {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first message %q", env.Type)
	}
	var state model.AuctionState
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to parse initial state: %w", err)
	}
	s.bootstrap = &state

	return s, nil
}

// Bootstrap returns the snapshot sent when the connection opened
func (s *Session) Bootstrap() *model.AuctionState {
	return s.bootstrap
}

// Close closes the connection
func (s *Session) Close() error {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

// Send writes one message
func (s *Session) Send(t realtime.MessageType, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", t, err)
		}
		raw = data
	}
	return s.conn.WriteJSON(realtime.Envelope{Type: t, Payload: raw})
}

// Next reads one message. A zero timeout waits forever.
func (s *Session) Next(timeout time.Duration) (realtime.Envelope, error) {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return realtime.Envelope{}, err
	}

	var env realtime.Envelope
	if err := s.conn.ReadJSON(&env); err != nil {
		return realtime.Envelope{}, err
	}
	return env, nil
}

// Identify declares the session's role and waits for confirmation
func (s *Session) Identify(role model.Role, teamID model.TeamID, token, deviceID string) (*realtime.IdentityConfirmedPayload, error) {
	err := s.Send(realtime.TypeIdentity, realtime.IdentityPayload{
		DeviceID: deviceID,
		Role:     role,
		TeamID:   teamID,
		Token:    token,
	})
	if err != nil {
		return nil, err
	}

	env, err := s.await(realtime.TypeIdentityConfirmed)
	if err != nil {
		return nil, err
	}
	var confirmed realtime.IdentityConfirmedPayload
	if err := json.Unmarshal(env.Payload, &confirmed); err != nil {
		return nil, fmt.Errorf("failed to parse identity confirmation: %w", err)
	}
	return &confirmed, nil
}

// Do sends an action and waits for the state update it causes
func (s *Session) Do(t realtime.MessageType, payload any) (realtime.Envelope, error) {
	if err := s.Send(t, payload); err != nil {
		return realtime.Envelope{}, err
	}
	return s.await(realtime.TypeStateUpdate)
}

// await reads until a message of type want arrives, turning error replies into errors
func (s *Session) await(want realtime.MessageType) (realtime.Envelope, error) {
	for {
		env, err := s.Next(replyTimeout)
		if err != nil {
			return realtime.Envelope{}, err
		}
		if err := replyError(env); err != nil {
			return realtime.Envelope{}, err
		}
		if env.Type == want {
			return env, nil
		}
	}
}

// replyError converts error and bidRejected frames
func replyError(env realtime.Envelope) error {
	switch env.Type {
	case realtime.TypeError:
		var p realtime.ErrorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errors.New("server error")
		}
		return fmt.Errorf("%s (%s)", p.Message, p.Code)
	case realtime.TypeBidRejected:
		var p realtime.BidRejectedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errors.New("bid rejected")
		}
		return fmt.Errorf("bid rejected: %s (%s)", p.Message, p.Reason)
	}
	return nil
}

// adminSession dials and identifies as the auctioneer
func adminSession() (*Session, error) {
	s, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := s.Identify(model.RoleAdmin, "", cfg.Token, cfg.DeviceID); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("identify as admin: %w", err)
	}
	return s, nil
}
