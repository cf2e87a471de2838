// Package realtime carries the auction over websocket connections.
//
// Every frame is a JSON envelope {"type": ..., "payload": ...}. Clients send
// intents; the server answers the sender directly and fans committed state
// out to every connection through the Hub.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
)

// MessageType names an envelope
type MessageType string

// Inbound message types
const (
	TypeIdentity           MessageType = "identity"
	TypeBid                MessageType = "bid"
	TypeSale               MessageType = "sale"
	TypeMarkUnsold         MessageType = "markUnsold"
	TypeStateUpdate        MessageType = "stateUpdate"
	TypePlayerStatusUpdate MessageType = "playerStatusUpdate"
	TypeChangeSet          MessageType = "changeSet"
	TypeResetAuction       MessageType = "resetAuction"
	TypeRequeueUnsold      MessageType = "requeueUnsold"
)

// Outbound message types. stateUpdate is shared with the inbound admin patch.
const (
	TypeIdentityConfirmed MessageType = "identityConfirmed"
	TypeBidRejected       MessageType = "bidRejected"
	TypeError             MessageType = "error"
)

// Envelope is the frame wrapping every message
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads

type IdentityPayload struct {
	DeviceID string       `json:"deviceId"`
	Role     model.Role   `json:"role"`
	TeamID   model.TeamID `json:"teamId,omitempty"`
	Token    string       `json:"token,omitempty"`
}

type BidPayload struct {
	TeamID   model.TeamID   `json:"teamId"`
	Amount   int64          `json:"amount"`
	PlayerID model.PlayerID `json:"playerId,omitempty"`

	// Timestamp is the client's clock. Bids are stamped by the server.
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type SalePayload struct {
	TeamID   model.TeamID   `json:"teamId"`
	PlayerID model.PlayerID `json:"playerId,omitempty"`
	Player   *struct {
		ID model.PlayerID `json:"id"`
	} `json:"player,omitempty"`
	Amount int64 `json:"amount"`
}

// Lot returns the player the sale names, from either form
func (p SalePayload) Lot() model.PlayerID {
	if p.Player != nil && p.Player.ID != "" {
		return p.Player.ID
	}
	return p.PlayerID
}

type StatePatchPayload struct {
	Teams         *[]model.Team   `json:"teams,omitempty"`
	Players       *[]model.Player `json:"players,omitempty"`
	Sets          *[]string       `json:"sets,omitempty"`
	CurrentSet    *string         `json:"currentSet,omitempty"`
	CurrentPlayer *model.Player   `json:"currentPlayer,omitempty"`
}

type PlayerStatusPayload struct {
	Players []model.Player `json:"players"`
}

type SetPayload struct {
	Set string `json:"set"`
}

// Outbound payloads

// FullState is a complete snapshot
type FullState struct {
	*model.AuctionState
	Full bool `json:"full"`
}

// PartialState carries only the bid fields
type PartialState struct {
	CurrentBid  int64       `json:"currentBid"`
	LeadingTeam *model.Team `json:"leadingTeam"`
	BidHistory  []model.Bid `json:"bidHistory"`
	Full        bool        `json:"full"`
}

type IdentityConfirmedPayload struct {
	Role         model.Role          `json:"role"`
	IsAdmin      bool                `json:"isAdmin"`
	TeamID       model.TeamID        `json:"teamId,omitempty"`
	CurrentState *model.AuctionState `json:"currentState"`
}

type BidRejectedPayload struct {
	Message string         `json:"message"`
	Reason  bidding.Reason `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// bidFields may not appear in an admin stateUpdate patch
var bidFields = []string{"currentBid", "leadingTeam", "bidHistory"}

// Encode builds a frame
func Encode(t MessageType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Payload: data})
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return fmt.Errorf("%w: %s needs a payload", model.ErrMalformedPayload, env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrMalformedPayload, env.Type, err)
	}
	return nil
}

// decodePatch parses a stateUpdate patch, refusing bid fields
func decodePatch(env Envelope) (auction.Patch, error) {
	var keys map[string]json.RawMessage
	if err := decodePayload(env, &keys); err != nil {
		return auction.Patch{}, err
	}
	for _, f := range bidFields {
		if _, ok := keys[f]; ok {
			return auction.Patch{}, fmt.Errorf("%w: %s can only change through bids and sales", model.ErrMalformedPayload, f)
		}
	}

	var p StatePatchPayload
	if err := decodePayload(env, &p); err != nil {
		return auction.Patch{}, err
	}
	patch := auction.Patch{
		Teams:      p.Teams,
		Players:    p.Players,
		Sets:       p.Sets,
		CurrentSet: p.CurrentSet,
	}
	if p.CurrentPlayer != nil {
		id := p.CurrentPlayer.ID
		patch.CurrentPlayer = &id
		if patch.CurrentSet == nil && p.CurrentPlayer.Set != "" {
			set := p.CurrentPlayer.Set
			patch.CurrentSet = &set
		}
	}
	return patch, nil
}

// errorCode maps domain errors onto stable wire codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, model.ErrNotIdentified):
		return "not_identified"
	case errors.Is(err, model.ErrTeamBindingRequired):
		return "team_binding_required"
	case errors.Is(err, model.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, model.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, model.ErrInvalidCatalog):
		return "invalid_catalog"
	case errors.Is(err, model.ErrNoActiveLot):
		return "no_active_lot"
	case errors.Is(err, model.ErrLotAlreadyResolved):
		return "lot_already_resolved"
	case errors.Is(err, model.ErrUnknownTeam):
		return "unknown_team"
	case errors.Is(err, model.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, model.ErrUnknownSet):
		return "unknown_set"
	case errors.Is(err, model.ErrPlayerNotInSet):
		return "player_not_in_set"
	case errors.Is(err, model.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, model.ErrNoLeadingBid):
		return "no_leading_bid"
	case errors.Is(err, model.ErrBiddingStarted):
		return "bidding_started"
	case errors.Is(err, model.ErrSaleMismatch):
		return "sale_mismatch"
	case errors.Is(err, model.ErrStatusRegression):
		return "status_regression"
	case errors.Is(err, model.ErrCatalogNotFound):
		return "catalog_not_found"
	default:
		return "internal"
	}
}
